package evaluator

import (
	"fmt"
	"reflect"
)

// assignHost stores host into a settable field, converting as needed.
func assignHost(field reflect.Value, host any) error {
	if !field.CanSet() {
		return fmt.Errorf("field of type %s is not settable", field.Type())
	}
	if host == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	v, err := ConvertHost(reflect.ValueOf(host), field.Type())
	if err != nil {
		return err
	}
	field.Set(v)
	return nil
}

// ConvertHost converts v to type t: numeric kinds convert to each other,
// slices and maps convert element by element, interfaces are unwrapped.
func ConvertHost(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return reflect.Zero(t), nil
	}
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if isNumber(v.Kind()) {
			return v.Convert(t), nil
		}
	case reflect.String:
		if v.Kind() == reflect.String {
			return v.Convert(t), nil
		}
	case reflect.Slice:
		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			out := reflect.MakeSlice(t, v.Len(), v.Len())
			for i := 0; i < v.Len(); i++ {
				elem, err := ConvertHost(v.Index(i), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
				}
				out.Index(i).Set(elem)
			}
			return out, nil
		}
	case reflect.Map:
		if v.Kind() == reflect.Map {
			out := reflect.MakeMapWithSize(t, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				key, err := ConvertHost(iter.Key(), t.Key())
				if err != nil {
					return reflect.Value{}, err
				}
				elem, err := ConvertHost(iter.Value(), t.Elem())
				if err != nil {
					return reflect.Value{}, err
				}
				out.SetMapIndex(key, elem)
			}
			return out, nil
		}
	case reflect.Interface:
		if v.Type().Implements(t) {
			return v, nil
		}
	}
	if v.Type().ConvertibleTo(t) && v.Kind() == t.Kind() {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Type(), t)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
