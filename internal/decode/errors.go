package decode

import (
	"fmt"
	"sort"
	"strings"
)

// KeyNotFoundError reports a required key missing from a raw sub-object.
// The available keys are included for diagnostics against a schema that
// evolves independently of this system.
type KeyNotFoundError struct {
	Key       string
	Available []string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q is not present in the passed object (available keys: %s)",
		e.Key, strings.Join(e.Available, ", "))
}

// TypeMismatchError reports a key whose value has the wrong JSON shape
type TypeMismatchError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("key %q has type %s, expected %s", e.Key, e.Actual, e.Expected)
}

// sortedKeys returns the keys of obj in stable order for error messages
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// typeName renders a raw JSON value's shape for mismatch diagnostics
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case float64, int:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// mapKey asserts that obj[key] exists and is a JSON object
func mapKey(obj map[string]any, key string) (map[string]any, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, &KeyNotFoundError{Key: key, Available: sortedKeys(obj)}
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Key: key, Expected: "object", Actual: typeName(raw)}
	}
	return m, nil
}

// stringKey asserts that obj[key] exists and is a string
func stringKey(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", &KeyNotFoundError{Key: key, Available: sortedKeys(obj)}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &TypeMismatchError{Key: key, Expected: "string", Actual: typeName(raw)}
	}
	return s, nil
}

// intKey asserts that obj[key] exists and is a number. encoding/json decodes
// all JSON numbers to float64, so that is the shape accepted here.
func intKey(obj map[string]any, key string) (int, error) {
	raw, ok := obj[key]
	if !ok {
		return 0, &KeyNotFoundError{Key: key, Available: sortedKeys(obj)}
	}
	switch n := raw.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, &TypeMismatchError{Key: key, Expected: "number", Actual: typeName(raw)}
	}
}
