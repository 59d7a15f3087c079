package jsonbind

import (
	"reflect"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonshape"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// bindProduct implements rule 13: a struct's declared fields are each
// located in the source object by name resolution (§4.5.2) and bound
// independently; unknown object keys are silently dropped; a missing
// field takes reflect.Zero of its declared type, which already is the
// right "default" for every case the rule lists (a primitive zero value,
// a nil pointer/slice/map, and — since Optional[T]{} 's own zero value
// has Valid == false — an empty Optional, all without special-casing).
func bindProduct(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		return failNullToPrimitive(t, path)
	}
	if v.Kind() != jsonvalue.KindObject {
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}

	keys := make([]string, len(v.Members()))
	for i, m := range v.Members() {
		keys[i] = m.Key
	}

	out := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		jsonName, skip := fieldJSONTag(f)
		if skip {
			continue
		}
		matchedKey, ok := jsonshape.ResolveField(f.Name, jsonName, keys)
		if !ok {
			out.Field(i).Set(reflect.Zero(f.Type))
			continue
		}
		fv, _ := v.Lookup(matchedKey)
		bound, err := bind(fv, f.Type, childPath(path, matchedKey))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Field(i).Set(bound)
	}
	return out, nil
}

func fieldJSONTag(f reflect.StructField) (jsonName string, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	return tag, false
}
