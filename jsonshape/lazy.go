package jsonshape

import "reflect"

// Lazy is the only lazy binder result (§4.5.3): a channel-backed producer
// that binds each element on demand instead of realizing the whole
// sequence up front. Fields are exported, mirroring Optional's
// convention, so both jsonbind and jsonwrite can populate/drain a Lazy[T]
// for an arbitrary runtime-discovered T via reflect.Value without
// resorting to unsafe pointer tricks to bypass Go's unexported-field-set
// restriction.
type Lazy[T any] struct {
	Ch     <-chan T
	ErrPtr *error
}

// Next reads one element, returning ok=false once the source is
// exhausted. Check Err afterward to distinguish clean exhaustion from a
// bind failure that aborted production early.
func (l Lazy[T]) Next() (T, bool) {
	v, ok := <-l.Ch
	return v, ok
}

// Err returns the error that aborted production, if any. Only meaningful
// after Next has returned ok=false.
func (l Lazy[T]) Err() error {
	if l.ErrPtr == nil {
		return nil
	}
	return *l.ErrPtr
}

// lazyPkgPath is compared against reflect.Type.PkgPath() to recognize any
// Lazy[T] instantiation regardless of T.
var lazyPkgPath = reflect.TypeOf(Lazy[int]{}).PkgPath()

// IsLazyType reports whether t is some instantiation of Lazy[T].
func IsLazyType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == lazyPkgPath &&
		len(t.Name()) >= len("Lazy[") &&
		t.Name()[:len("Lazy[")] == "Lazy["
}

// LazyElemType returns the T in Lazy[T].
func LazyElemType(t reflect.Type) reflect.Type {
	f, _ := t.FieldByName("Ch")
	return f.Type.Elem()
}

// NewLazyValue builds a reflect.Value of type lazyType (some Lazy[E]
// instantiation) backed by a goroutine that sends each bound element of
// elems on the channel, recording the first bind error (if any) into
// ErrPtr before closing.
func NewLazyValue(lazyType reflect.Type, elemType reflect.Type, elems []func() (reflect.Value, error)) reflect.Value {
	chType := reflect.ChanOf(reflect.BothDir, elemType)
	ch := reflect.MakeChan(chType, 0)
	errBox := new(error)

	go func() {
		defer ch.Close()
		for _, produce := range elems {
			v, err := produce()
			if err != nil {
				*errBox = err
				return
			}
			ch.Send(v)
		}
	}()

	out := reflect.New(lazyType).Elem()
	recvOnly := reflect.ChanOf(reflect.RecvDir, elemType)
	out.FieldByName("Ch").Set(ch.Convert(recvOnly))
	out.FieldByName("ErrPtr").Set(reflect.ValueOf(errBox))
	return out
}

// LazyRecv receives one element from a Lazy[T] reflect.Value of unknown T,
// for callers (jsonwrite) that only know the shape structurally.
func LazyRecv(v reflect.Value) (reflect.Value, bool) {
	return v.FieldByName("Ch").Recv()
}

// LazyErr reads the error recorded by a Lazy[T] reflect.Value's ErrPtr
// field, if production aborted early.
func LazyErr(v reflect.Value) error {
	errPtr := v.FieldByName("ErrPtr")
	if errPtr.IsNil() {
		return nil
	}
	err, _ := errPtr.Elem().Interface().(error)
	return err
}
