package testkit

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Vars holds values captured from earlier responses in a flow.
type Vars map[string]string

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Expand replaces every {{name}} in s. Unknown names are left in place so the
// failing request shows what was missing.
func (v Vars) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if val, ok := v[name]; ok {
			return val
		}
		return m
	})
}

// Capture stores each path of body under its variable name.
func (v Vars) Capture(body []byte, paths map[string]string) error {
	if len(paths) == 0 {
		return nil
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	for name, path := range paths {
		val, err := Lookup(doc, path)
		if err != nil {
			return fmt.Errorf("capture %q: %w", name, err)
		}
		v[name] = val
	}
	return nil
}

// Lookup walks a dotted path ("meal.id", "todayList.0.amount") through a
// decoded JSON document and renders the leaf as a string.
func Lookup(doc any, path string) (string, error) {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return "", fmt.Errorf("key %q not found in %q", key, path)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return "", fmt.Errorf("index %q out of range in %q", key, path)
			}
			cur = node[i]
		default:
			return "", fmt.Errorf("cannot descend into %T at %q", cur, key)
		}
	}

	switch leaf := cur.(type) {
	case string:
		return leaf, nil
	case float64:
		return strconv.FormatFloat(leaf, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(leaf), nil
	case nil:
		return "null", nil
	default:
		out, err := json.Marshal(leaf)
		return string(out), err
	}
}
