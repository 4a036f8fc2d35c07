package timeline

import (
	"fmt"
	"strings"

	"github.com/ysmood/gson"

	errs "fetchmoots/pkg/errors"
)

// PathError reports the key path at which a lookup failed
type PathError struct {
	Path   []string
	Reason string
}

func (e *PathError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("document root: %s", e.Reason)
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Path, "."), e.Reason)
}

// malformed wraps a lookup failure in the malformed_input error type
func malformed(err error, what string) error {
	return errs.Wrap(errs.ErrorTypeMalformedInput, err, what)
}

// lookup walks keys from j, failing at the first segment that is absent or
// whose parent is not an object.
func lookup(j gson.JSON, keys ...string) (gson.JSON, error) {
	cur := j
	for i, key := range keys {
		if _, ok := cur.Val().(map[string]interface{}); !ok {
			return gson.JSON{}, &PathError{
				Path:   keys[:i],
				Reason: fmt.Sprintf("expected object, found %s", kindOf(cur.Val())),
			}
		}

		next, ok := cur.Gets(key)
		if !ok {
			return gson.JSON{}, &PathError{Path: keys[:i+1], Reason: "missing"}
		}
		cur = next
	}
	return cur, nil
}

func lookupString(j gson.JSON, keys ...string) (string, error) {
	v, err := lookup(j, keys...)
	if err != nil {
		return "", err
	}
	s, ok := v.Val().(string)
	if !ok {
		return "", &PathError{Path: keys, Reason: fmt.Sprintf("expected string, found %s", kindOf(v.Val()))}
	}
	return s, nil
}

func lookupBool(j gson.JSON, keys ...string) (bool, error) {
	v, err := lookup(j, keys...)
	if err != nil {
		return false, err
	}
	b, ok := v.Val().(bool)
	if !ok {
		return false, &PathError{Path: keys, Reason: fmt.Sprintf("expected bool, found %s", kindOf(v.Val()))}
	}
	return b, nil
}

func lookupArray(j gson.JSON, keys ...string) ([]gson.JSON, error) {
	v, err := lookup(j, keys...)
	if err != nil {
		return nil, err
	}
	if _, ok := v.Val().([]interface{}); !ok {
		return nil, &PathError{Path: keys, Reason: fmt.Sprintf("expected array, found %s", kindOf(v.Val()))}
	}
	return v.Arr(), nil
}

// isMissing reports whether err is a lookup that failed because some key
// along the path was absent, as opposed to present with the wrong shape
func isMissing(err error) bool {
	pe, ok := err.(*PathError)
	return ok && pe.Reason == "missing"
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		return "number"
	}
}
