package jsonbind

import (
	"reflect"
	"strconv"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonshape"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// bindPointer covers the pointer branch of rule 1 (null ⇒ nil pointer) and
// otherwise binds the pointee and takes its address.
func bindPointer(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		return reflect.Zero(t), nil
	}
	elem, err := bind(v, t.Elem(), path)
	if err != nil {
		return reflect.Value{}, err
	}
	ptr := reflect.New(t.Elem())
	ptr.Elem().Set(elem)
	return ptr, nil
}

// bindOptional implements rule 12. A field-absent "Optional.empty" is
// produced by the product binder directly, never here — by the time a
// JsonValue exists to pass to bind, the field was present, so this always
// wraps the recursive bind of v against E, including when v is null (the
// §4.5.1 "present with null" case, which recurses into E's own null rule).
func bindOptional(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	elemType := jsonshape.OptionalElemType(t)
	elem, err := bind(v, elemType, path)
	if err != nil {
		return reflect.Value{}, err
	}
	return jsonshape.NewOptional(t, true, elem), nil
}

// bindLazy implements rule 10's lazy variant (§4.5.3): the only binder
// result that is not fully realized before returning.
func bindLazy(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	elemType := jsonshape.LazyElemType(t)
	elems, err := sequenceElements(v)
	if err != nil {
		return reflect.Value{}, err
	}
	producers := make([]func() (reflect.Value, error), len(elems))
	for i, e := range elems {
		i, e := i, e
		producers[i] = func() (reflect.Value, error) {
			return bind(e, elemType, indexPath(path, i))
		}
	}
	return jsonshape.NewLazyValue(t, elemType, producers), nil
}

// sequenceElements implements rule 10's single-to-many promotion: a
// non-array JsonValue becomes a one-element sequence.
func sequenceElements(v jsonvalue.Value) ([]jsonvalue.Value, error) {
	if v.Kind() == jsonvalue.KindArray {
		return v.Elements(), nil
	}
	if v.IsNull() {
		return nil, jsonerr.New("Cannot assign null to primitive sequence")
	}
	return []jsonvalue.Value{v}, nil
}

func bindSequence(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		// A slice is a nilable reference type (rule 1's "Otherwise ⇒ null
		// reference"), unlike a fixed-size array, which has no nil value
		// and so still falls through to the primitive rejection.
		if t.Kind() == reflect.Slice {
			return reflect.Zero(t), nil
		}
		return failNullToPrimitive(t, path)
	}
	elems, err := sequenceElements(v)
	if err != nil {
		return reflect.Value{}, jsonerr.AtPath(path, "%s", err)
	}
	elemType := t.Elem()

	if t.Kind() == reflect.Array {
		if len(elems) != t.Len() {
			return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind array of length %d to %s", len(elems), t)
		}
		out := reflect.New(t).Elem()
		for i, e := range elems {
			ev, err := bind(e, elemType, indexPath(path, i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	}

	out := reflect.MakeSlice(t, len(elems), len(elems))
	for i, e := range elems {
		ev, err := bind(e, elemType, indexPath(path, i))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func bindMap(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		// A map is a nilable reference type (rule 1's "Otherwise ⇒ null
		// reference"), not a primitive.
		return reflect.Zero(t), nil
	}
	if v.Kind() != jsonvalue.KindObject {
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}
	keyType, valType := t.Key(), t.Elem()
	out := reflect.MakeMapWithSize(t, len(v.Members()))
	for _, m := range v.Members() {
		kv, err := bind(jsonvalue.Str(m.Key), keyType, path)
		if err != nil {
			return reflect.Value{}, err
		}
		vv, err := bind(m.Value, valType, childPath(path, m.Key))
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, vv)
	}
	return out, nil
}

func childPath(path, key string) string {
	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
