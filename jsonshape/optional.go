// Package jsonshape holds the small set of reflection-based building
// blocks shared by jsonbind and jsonwrite: the Optional[T] sum wrapper,
// the enum name registry, and the struct-field name resolution policy
// (§4.5.2 of the specification).
//
// Optional follows the database/sql.NullString convention — exported
// fields rather than an opaque accessor pair — so that both the binder
// and the writer can inspect and populate it uniformly through
// reflect.Value without special-casing generic instantiation.
package jsonshape

import "reflect"

// Optional distinguishes "absent" from "present, possibly holding a zero
// value" for a product-type field, per spec §4.5.1:
//
//   - a missing JSON object field binds to Optional[T]{} (Valid == false)
//   - a JSON null is bound by T's own rule and wrapped as present (a nil
//     Val for a pointer/slice/map T, an error for a non-nilable T), never
//     to an empty Optional
//   - a present value binds to Optional[T]{Valid: true, Val: v}
type Optional[T any] struct {
	Valid bool
	Val   T
}

// Some constructs a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Valid: true, Val: v} }

// None constructs an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// optionalPkgPath is compared against reflect.Type.PkgPath() to recognize
// any Optional[T] instantiation regardless of T.
var optionalPkgPath = reflect.TypeOf(Optional[int]{}).PkgPath()

// IsOptionalType reports whether t is some instantiation of Optional[T].
func IsOptionalType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == optionalPkgPath &&
		len(t.Name()) >= len("Optional[") &&
		t.Name()[:len("Optional[")] == "Optional["
}

// OptionalElemType returns the T in Optional[T].
func OptionalElemType(t reflect.Type) reflect.Type {
	f, _ := t.FieldByName("Val")
	return f.Type
}

// OptionalValid/OptionalVal read an Optional[T] value (as a reflect.Value
// of that struct type) without knowing T statically.
func OptionalValid(v reflect.Value) bool {
	return v.FieldByName("Valid").Bool()
}

func OptionalVal(v reflect.Value) reflect.Value {
	return v.FieldByName("Val")
}

// NewOptional builds a reflect.Value of type Optional[elemType], either
// present (valid=true, holding val) or absent.
func NewOptional(optType reflect.Type, valid bool, val reflect.Value) reflect.Value {
	out := reflect.New(optType).Elem()
	out.FieldByName("Valid").SetBool(valid)
	if valid {
		out.FieldByName("Val").Set(val)
	}
	return out
}
