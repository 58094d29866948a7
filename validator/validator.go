// Package validator checks resolved field lists against the installer table
// rules. Every rule runs on every call so one pass reports all defects.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shrek82/msitable/model"
)

// ErrInvalidSchema is wrapped by every SchemaError.
var ErrInvalidSchema = errors.New("invalid schema")

// RuleKind names a schema rule.
type RuleKind string

const (
	RuleNoFields            RuleKind = "no-fields"
	RuleDuplicateName       RuleKind = "duplicate-name"
	RuleDuplicateColumn     RuleKind = "duplicate-column"
	RuleNoKey               RuleKind = "no-key"
	RuleKeyPrefix           RuleKind = "key-prefix"
	RuleNullableKey         RuleKind = "nullable-key"
	RuleFixedWidth          RuleKind = "fixed-width"
	RuleVariableWidth       RuleKind = "variable-width"
	RuleShapeMismatch       RuleKind = "shape-mismatch"
	RuleOptionalNotNull     RuleKind = "optional-not-null"
	RulePrimaryIdentifier   RuleKind = "primary-identifier"
	RuleGeneratedIdentifier RuleKind = "generated-identifier"
)

// SchemaError is one violated rule.
type SchemaError struct {
	Table  string
	Fields []string
	Rule   RuleKind
	Detail string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	if e.Table != "" {
		fmt.Fprintf(&sb, "table %s: ", e.Table)
	}
	sb.WriteString(string(e.Rule))
	if len(e.Fields) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Fields, ", "))
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *SchemaError) Unwrap() error {
	return ErrInvalidSchema
}

// ValidationErrors is the list of every rule violated by one table.
type ValidationErrors []*SchemaError

func (v ValidationErrors) Error() string {
	var sb strings.Builder
	for _, err := range v {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, err := range v {
		errs[i] = err
	}
	return errs
}

// Has reports whether rule was violated.
func (v ValidationErrors) Has(rule RuleKind) bool {
	for _, err := range v {
		if err.Rule == rule {
			return true
		}
	}
	return false
}

// Rule checks one invariant over the ordered field list of a table.
type Rule interface {
	Name() RuleKind
	Check(fields []*model.Field) []*SchemaError
}

type ruleFunc struct {
	name RuleKind
	fn   func(fields []*model.Field) []*SchemaError
}

func (r ruleFunc) Name() RuleKind { return r.name }

func (r ruleFunc) Check(fields []*model.Field) []*SchemaError { return r.fn(fields) }

// NewRule wraps a check function as a Rule.
func NewRule(name RuleKind, fn func(fields []*model.Field) []*SchemaError) Rule {
	return ruleFunc{name: name, fn: fn}
}

// Validate runs rules (DefaultRules when none are given) over fields and
// returns ValidationErrors holding every violation, or nil.
func Validate(table string, fields []*model.Field, rules ...Rule) error {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	var errs ValidationErrors
	for _, rule := range rules {
		for _, err := range rule.Check(fields) {
			err.Table = table
			if err.Rule == "" {
				err.Rule = rule.Name()
			}
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
