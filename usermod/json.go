// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usermod

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Object is a decoded JSON object.
type Object map[string]any

// Child returns the object stored at key, or nil when absent or not an
// object.
func (o Object) Child(key string) Object {
	switch v := o[key].(type) {
	case Object:
		return v
	case map[string]any:
		return Object(v)
	}
	return nil
}

// ChildOrCreate returns the object stored at key, replacing any non object
// value with a new empty one.
func (o Object) ChildOrCreate(key string) Object {
	if c := o.Child(key); c != nil {
		return c
	}
	c := Object{}
	o[key] = c
	return c
}

// Value is the set of types GetJSONValue can extract.
type Value interface {
	bool | string | number
}

type number interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64
}

// GetJSONValue stores v into dst when v holds a value convertible to T.
//
// It returns false and leaves dst untouched when v is nil, of another kind,
// or a number that does not fit T. Integer targets reject fractional values.
func GetJSONValue[T Value](v any, dst *T) bool {
	if v == nil {
		return false
	}
	switch p := any(dst).(type) {
	case *bool:
		b, ok := v.(bool)
		if ok {
			*p = b
		}
		return ok
	case *string:
		s, ok := v.(string)
		if ok {
			*p = s
		}
		return ok
	case *float32:
		return setNumber(v, p, -math.MaxFloat32, math.MaxFloat32, false)
	case *float64:
		return setNumber(v, p, -math.MaxFloat64, math.MaxFloat64, false)
	case *int:
		return setNumber(v, p, math.MinInt, math.MaxInt, true)
	case *int8:
		return setNumber(v, p, math.MinInt8, math.MaxInt8, true)
	case *int16:
		return setNumber(v, p, math.MinInt16, math.MaxInt16, true)
	case *int32:
		return setNumber(v, p, math.MinInt32, math.MaxInt32, true)
	case *int64:
		return setNumber(v, p, math.MinInt64, math.MaxInt64, true)
	case *uint:
		return setNumber(v, p, 0, math.MaxUint, true)
	case *uint8:
		return setNumber(v, p, 0, math.MaxUint8, true)
	case *uint16:
		return setNumber(v, p, 0, math.MaxUint16, true)
	case *uint32:
		return setNumber(v, p, 0, math.MaxUint32, true)
	case *uint64:
		return setNumber(v, p, 0, math.MaxUint64, true)
	}
	return false
}

// setNumber checks v against [lo, hi]. Bounds beyond 2^53 are approximated;
// configuration values never get close.
func setNumber[N number](v any, dst *N, lo, hi float64, integer bool) bool {
	f, ok := toFloat(v)
	if !ok || f < lo || f > hi || (integer && f != math.Trunc(f)) {
		return false
	}
	*dst = N(f)
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	}
	return 0, false
}
