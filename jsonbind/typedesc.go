// Package jsonbind is the type-directed binder: jsonvalue.Value + a target
// Go type → a native instance of that type, or a failure. It is the
// largest component of this module, implementing the fifteen-rule
// coercion lattice in strict precedence order.
//
// Where Java needs TypeToken's anonymous-subclass trick to recover a
// generic type argument erased at runtime, Go needs nothing of the sort:
// instantiating TypeOf on a concrete T captures reflect.TypeOf(&zero).Elem() at
// the call site, at compile time, with no erasure to work around.
package jsonbind

import (
	"reflect"

	"github.com/lattice-substrate/json-codec/jsonadapt"
	"github.com/lattice-substrate/json-codec/jsonshape"
)

// Kind classifies a TypeDescriptor's shape for the binder's rule dispatch.
type Kind int

const (
	KindPrimitive Kind = iota
	KindString
	KindRaw
	KindSlice
	KindArray
	KindMap
	KindEnum
	KindOptional
	KindProduct
	// KindProtoMessage is reserved for TypeDescriptor.Kind() callers that
	// want to distinguish a protobuf message from other adapter-backed
	// types; classify never returns it directly since a proto.Message is
	// already routed to KindAdapter by the jsonadapt fallback (rule 14
	// degrades to rule 2 for exactly this reason).
	KindProtoMessage
	KindAdapter
	KindPointer
	KindLazy
)

// TypeDescriptor wraps a reflect.Type with the classification the binder
// needs, replacing Java's runtime TypeToken.
type TypeDescriptor struct {
	t reflect.Type
}

// TypeOf reifies T — the generic instantiation itself is what recovers the
// type argument, since Go generics are specialized at compile time rather
// than erased.
func TypeOf[T any]() TypeDescriptor {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	return TypeDescriptor{t: t}
}

// Type returns the underlying reflect.Type.
func (d TypeDescriptor) Type() reflect.Type { return d.t }

// Kind classifies d for the binder's dispatch, most specific match first.
func (d TypeDescriptor) Kind() Kind {
	return classify(d.t)
}

// Elem returns the descriptor of the single type argument for
// slice/array/Optional/Lazy, or the map value type for a map.
func (d TypeDescriptor) Elem() TypeDescriptor {
	if jsonshape.IsOptionalType(d.t) {
		return TypeDescriptor{t: jsonshape.OptionalElemType(d.t)}
	}
	if jsonshape.IsLazyType(d.t) {
		return TypeDescriptor{t: jsonshape.LazyElemType(d.t)}
	}
	return TypeDescriptor{t: d.t.Elem()}
}

// Key returns the descriptor of a map's key type.
func (d TypeDescriptor) Key() TypeDescriptor {
	return TypeDescriptor{t: d.t.Key()}
}

func classify(t reflect.Type) Kind {
	if jsonshape.IsOptionalType(t) {
		return KindOptional
	}
	if jsonshape.IsLazyType(t) {
		return KindLazy
	}
	if t == orderedMapType {
		return KindRaw
	}
	if jsonadapt.Has(t) {
		return KindAdapter
	}
	if t.Kind() == reflect.Ptr {
		return KindPointer
	}
	if t.Kind() == reflect.Interface {
		// Every concrete proto.Message/adapter type was already caught
		// above; a bare interface (including "any") gets the raw natural
		// projection, same as rule 3's Object target.
		return KindRaw
	}
	if jsonshape.IsRegisteredEnum(t) {
		return KindEnum
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Slice:
		return KindSlice
	case reflect.Array:
		return KindArray
	case reflect.Map:
		return KindMap
	case reflect.Struct:
		return KindProduct
	default:
		return KindPrimitive
	}
}
