// Package structs sets struct fields from their textual representation.
package structs

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/oleiade/reflections"
	"github.com/pkg/errors"
)

// Keys returns the tag names (for the given tag key, e.g. json) of the obj fields.
// obj can whether be a structure or pointer to structure.
func Keys(obj any, tagKey string) ([]string, error) {
	names, err := names(obj, tagKey)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(names))
	for key := range names {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Set sets the obj field named key by its tag from raw.
// obj param has to be a pointer to a struct.
// Strings, numbers, booleans and string slices (comma separated) are supported.
func Set(obj any, tagKey, key, raw string) error {
	names, err := names(obj, tagKey)
	if err != nil {
		return err
	}

	name, ok := names[strings.ToLower(key)]
	if !ok {
		return errors.Errorf("unknown field %s", key)
	}

	current, err := reflections.GetField(obj, name)
	if err != nil {
		return errors.Wrapf(err, "could not get field %s", key)
	}
	typ := reflect.TypeOf(current)

	var v any
	switch typ.Kind() {
	case reflect.String:
		v = raw
	case reflect.Float32, reflect.Float64:
		v, err = strconv.ParseFloat(raw, 64)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err = strconv.ParseInt(raw, 10, 64)
	case reflect.Bool:
		v, err = strconv.ParseBool(raw)
	case reflect.Slice:
		if typ.Elem().Kind() != reflect.String {
			return errors.Errorf("unsupported field type %s for %s", typ, key)
		}
		v = split(raw)
	default:
		return errors.Errorf("unsupported field type %s for %s", typ, key)
	}
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}

	value := reflect.ValueOf(v).Convert(typ).Interface()
	return errors.Wrapf(reflections.SetField(obj, name, value), "could not set field %s", key)
}

func names(obj any, tagKey string) (map[string]string, error) {
	tags, err := reflections.Tags(obj, tagKey)
	if err != nil {
		return nil, errors.Wrap(err, "could not read tags")
	}

	names := map[string]string{}
	for name, tag := range tags {
		tag, _, _ = strings.Cut(tag, ",")
		if tag == "" || tag == "-" {
			continue
		}
		names[strings.ToLower(tag)] = name
	}
	return names, nil
}

func split(raw string) []string {
	values := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			values = append(values, s)
		}
	}
	return values
}
