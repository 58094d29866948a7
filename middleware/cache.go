package middleware

import (
	"encoding/json"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/model"
)

const keyPrefix = "msitable:schema:"

func schemaKey(c *core.Compiler, def *model.Definition) (string, error) {
	k, err := c.CacheKey(def)
	if err != nil {
		return "", err
	}
	return keyPrefix + k, nil
}

func encodeSchema(s *model.TableSchema) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSchema(data []byte) (*model.TableSchema, bool) {
	var s model.TableSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	return &s, true
}
