package inspect

import (
	"fmt"
	"reflect"
	"time"
)

// Callable wraps a plain Go function as an invocation target. Resolved
// values arrive in declaration order; maps assemble into struct parameters,
// []any into typed slices, and nil into zero values or nil pointers. The
// function may return (T), (T, error), (error), or nothing.
func Callable(fn any) func(args []any) (any, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("inspect.Callable: not a function: %T", fn))
	}
	return func(args []any) (any, error) {
		if len(args) != t.NumIn() {
			return nil, fmt.Errorf("expected %d arguments, got %d", t.NumIn(), len(args))
		}
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			converted, err := convertTo(arg, t.In(i))
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			in[i] = converted
		}
		return returnValues(v.Call(in))
	}
}

// Bound wraps a method-like function whose first parameter is the receiver.
func Bound(fn any) func(recv any, args []any) (any, error) {
	call := Callable(fn)
	return func(recv any, args []any) (any, error) {
		return call(append([]any{recv}, args...))
	}
}

func returnValues(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if err, ok := out[0].Interface().(error); ok {
			return nil, err
		}
		return out[0].Interface(), nil
	case 2:
		var err error
		if e := out[1].Interface(); e != nil {
			err = e.(error)
		}
		return out[0].Interface(), err
	default:
		return nil, fmt.Errorf("unsupported return arity %d", len(out))
	}
}

func convertTo(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}
	if rv := reflect.ValueOf(value); rv.Type().AssignableTo(target) {
		return rv, nil
	}

	if target.Kind() == reflect.Ptr {
		elem, err := convertTo(value, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	switch target.Kind() {
	case reflect.Struct:
		fields, ok := value.(map[string]any)
		if !ok {
			if reflect.TypeOf(value) == target {
				return reflect.ValueOf(value), nil
			}
			return reflect.Value{}, fmt.Errorf("cannot build %s from %T", target, value)
		}
		return buildStruct(fields, target)
	case reflect.Slice:
		items, ok := value.([]any)
		if !ok {
			if reflect.TypeOf(value).AssignableTo(target) {
				return reflect.ValueOf(value), nil
			}
			return reflect.Value{}, fmt.Errorf("cannot build %s from %T", target, value)
		}
		out := reflect.MakeSlice(target, 0, len(items))
		for _, item := range items {
			elem, err := convertTo(item, target.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, elem)
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(target) {
		// int -> int64, int -> time.Duration and friends.
		if rv.Kind() == reflect.String && target != reflect.TypeOf(time.Duration(0)) && target.Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", value, target)
		}
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %T to %s", value, target)
}

func buildStruct(fields map[string]any, target reflect.Type) (reflect.Value, error) {
	out := reflect.New(target).Elem()
	for i := 0; i < target.NumField(); i++ {
		sf := target.Field(i)
		if !sf.IsExported() || sf.Tag.Get("arg") == "-" {
			continue
		}
		value, ok := fields[snakeCase(sf.Name)]
		if !ok || value == nil {
			continue
		}
		converted, err := convertTo(value, sf.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		out.Field(i).Set(converted)
	}
	return out, nil
}
