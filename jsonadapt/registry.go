// Package jsonadapt is the extension point for types the core coercion
// lattice does not know how to bind or write directly: date/time values
// and protobuf messages (including the protobuf well-known types).
//
// The registry is an open map keyed by reflect.Type, plus one "protobuf
// fallback" catch-all that matches any type implementing proto.Message,
// per the distilled specification's §9 design note. Registration is
// expected only during package initialization; reads take a shared
// RWMutex read lock and are safe for concurrent use, since library consumers may register
// adapters from arbitrary init() functions in any import order.
package jsonadapt

import (
	"reflect"
	"sync"

	"google.golang.org/protobuf/proto"

	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// Adapter is the external-collaborator contract (§6): FromJSON may fail
// with a *jsonerr.Error carrying "Cannot bind ..."; ToJSON emits a value
// tree node for the writer to serialize.
type Adapter[T any] interface {
	FromJSON(jsonvalue.Value) (T, error)
	ToJSON(T) (jsonvalue.Value, error)
}

// erasedAdapter is the type-erased form stored in the registry so that
// adapters for heterogeneous T can share one map.
type erasedAdapter struct {
	fromJSON func(jsonvalue.Value) (reflect.Value, error)
	toJSON   func(reflect.Value) (jsonvalue.Value, error)
}

var (
	mu       sync.RWMutex
	registry = map[reflect.Type]erasedAdapter{}

	protoMessageType = reflect.TypeOf((*proto.Message)(nil)).Elem()
)

// Register installs a into the registry for type T, overwriting any
// previous registration for T.
func Register[T any](a Adapter[T]) {
	var zero T
	t := reflect.TypeOf(zero)
	ea := erasedAdapter{
		fromJSON: func(v jsonvalue.Value) (reflect.Value, error) {
			out, err := a.FromJSON(v)
			return reflect.ValueOf(out), err
		},
		toJSON: func(rv reflect.Value) (jsonvalue.Value, error) {
			return a.ToJSON(rv.Interface().(T))
		},
	}
	mu.Lock()
	registry[t] = ea
	mu.Unlock()
}

// Lookup returns the adapter registered for t, falling back to the
// generic protobuf message adapter when t implements proto.Message and
// has no more specific registration (e.g. a well-known type adapter).
func Lookup(t reflect.Type) (fromJSON func(jsonvalue.Value) (reflect.Value, error), toJSON func(reflect.Value) (jsonvalue.Value, error), ok bool) {
	mu.RLock()
	ea, found := registry[t]
	mu.RUnlock()
	if found {
		return ea.fromJSON, ea.toJSON, true
	}

	if t.Implements(protoMessageType) || (t.Kind() != reflect.Ptr && reflect.PtrTo(t).Implements(protoMessageType)) {
		return protoFromJSON(t), protoToJSON, true
	}

	return nil, nil, false
}

// Has reports whether t has any registration, including the protobuf
// fallback, without constructing the closures Lookup returns.
func Has(t reflect.Type) bool {
	mu.RLock()
	_, found := registry[t]
	mu.RUnlock()
	if found {
		return true
	}
	return t.Implements(protoMessageType) || (t.Kind() != reflect.Ptr && reflect.PtrTo(t).Implements(protoMessageType))
}
