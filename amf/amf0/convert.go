package amf0

import (
	"reflect"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// FromGo converts a plain Go value into a Value.
//
//	nil                       -> Null
//	bool                      -> Boolean
//	string, []byte            -> String
//	integers and floats       -> Number
//	time.Time                 -> Date
//	maps with string keys     -> ECMAArray, keys sorted
//	slices and arrays         -> StrictArray
//	structs (and pointers)    -> Object, fields enumerated through mapstructure, keys sorted
//
// A Value is returned unchanged.
func FromGo(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Boolean(v), nil
	case string:
		return String(v), nil
	case []byte:
		return String(v), nil
	case time.Time:
		return NewDate(v), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		arr := make(StrictArray, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, errors.WithMessagef(err, "index %d", i)
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.Errorf("cannot convert map with %s keys", rv.Type().Key())
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		props, err := sortedProperties(m)
		return ECMAArray(props), err
	case reflect.Ptr:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromGo(rv.Elem().Interface())
	case reflect.Struct:
		var m map[string]interface{}
		if err := mapstructure.Decode(v, &m); err != nil {
			return nil, errors.Wrapf(err, "cannot enumerate fields of %T", v)
		}
		props, err := sortedProperties(m)
		return Object(props), err
	}
	return nil, errors.Errorf("cannot convert type %T", v)
}

func sortedProperties(m map[string]interface{}) ([]Property, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]Property, 0, len(keys))
	for _, k := range keys {
		v, err := FromGo(m[k])
		if err != nil {
			return nil, errors.WithMessagef(err, "key %q", k)
		}
		props = append(props, Property{Key: k, Value: v})
	}
	return props, nil
}

// ToGo converts v into plain Go values: float64, bool, string, nil, uint16
// (references), time.Time, []interface{} and map[string]interface{}.
func ToGo(v Value) interface{} {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case Boolean:
		return bool(v)
	case String:
		return string(v)
	case LongString:
		return string(v)
	case MovieClip:
		return string(v)
	case Reference:
		return uint16(v)
	case Date:
		return v.Time
	case StrictArray:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = ToGo(elem)
		}
		return out
	case Object:
		return propertiesToGo(v)
	case ECMAArray:
		return propertiesToGo(v)
	}
	// Null, Undefined
	return nil
}

func propertiesToGo(props []Property) map[string]interface{} {
	m := make(map[string]interface{}, len(props))
	for _, p := range props {
		m[p.Key] = ToGo(p.Value)
	}
	return m
}
