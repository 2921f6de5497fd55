package utils

import (
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// AttributeMap is a flat mapping of configuration keys to values, as read from a config file.
type AttributeMap map[string]interface{}

// Has returns whether or not the given name is in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// Float64 returns the value of name as a float64, or def when absent or not numeric.
func (am AttributeMap) Float64(name string, def float64) float64 {
	if am == nil {
		return def
	}
	switch v := am[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	default:
		return def
	}
}

// Keys returns the sorted keys of the map.
func (am AttributeMap) Keys() []string {
	keys := make([]string, 0, len(am))
	for k := range am {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format,
// matching keys against `json` struct tags. Keys the target type does not know about are returned
// sorted so callers can warn about them.
func TransformAttributeMap[T any](attributes AttributeMap) (T, []string, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT != nil && toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, nil, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           forResult,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return out, nil, err
	}
	sort.Strings(md.Unused)
	return out, md.Unused, nil
}
