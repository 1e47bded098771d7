package geoapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// jsonValue marks a map or sequence that must travel as a JSON document
// instead of a comma separated list.
type jsonValue struct {
	v any
}

// Encode turns the arguments into a URL query string. Sequences are joined
// with commas into a single value, booleans are sent as true/false and
// every other scalar is stringified.
func Encode(args Args) (string, error) {
	values := url.Values{}
	for k, v := range args {
		s, err := coerce(v)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", k, err)
		}

		values.Set(k, s)
	}

	return values.Encode(), nil
}

func coerce(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case jsonValue:
		b, err := json.Marshal(x.v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := coerce(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			parts[i] = s
		}

		return strings.Join(parts, ","), nil
	}

	return fmt.Sprint(v), nil
}
