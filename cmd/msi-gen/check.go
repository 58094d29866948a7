package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrek82/msitable/model"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Compile every table of a schema file and report all defects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, schemas, err := opts.compileFile(cmd, args[0])
			if err != nil {
				for _, e := range flatten(err) {
					printf(cmd, "error: %v\n", e)
				}
				return fmt.Errorf("%s: schema check failed", args[0])
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(schemas)
			}
			for _, s := range schemas {
				printf(cmd, "ok %s (%d columns, key %v)\n", s.Name, len(s.Columns), keyNames(s.Columns, s.PrimaryKeyIndices()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the compiled schemas as JSON")
	return cmd
}

// flatten expands joined errors so that each defect prints on its own line.
func flatten(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}

func keyNames(cols []model.Column, idx []int) []string {
	names := make([]string, 0, len(idx))
	for _, i := range idx {
		names = append(names, cols[i].Name)
	}
	return names
}
