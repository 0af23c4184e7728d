// Package checkers holds quicktest checkers shared by the test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

type jsonPathChecker struct {
	path string
}

// JSONPathEquals returns a checker that decodes got (a JSON string or byte
// slice), selects the value at path and compares it to want with
// qt.DeepEquals. Numbers decode as float64.
//
//	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(2))
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

// ArgNames implements qt.Checker.
func (*jsonPathChecker) ArgNames() []string { return []string{"got", "want"} }

// Check implements qt.Checker.
func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("expected a JSON string or []byte, got %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}
	note("path", c.path)
	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		return fmt.Errorf("cannot read path: %w", err)
	}
	note("value", value)
	return qt.DeepEquals.Check(value, args, note)
}
