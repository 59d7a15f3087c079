// Package jsonwrite is the reflective encoder: native Go value → jsonvalue
// tree. It is the mirror image of jsonbind, dispatching on reflect.Kind
// the way jcs/serialize.go dispatches on jcstoken.Kind, generalized from
// the teacher's fixed canonical-form output to the full RFC 8259 grammar.
package jsonwrite

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"

	"github.com/lattice-substrate/json-codec/jsonadapt"
	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonshape"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// Write converts a native Go value into a jsonvalue.Value tree.
func Write(v any) (jsonvalue.Value, error) {
	seen := map[uintptr]struct{}{}
	return writeReflect(reflect.ValueOf(v), seen)
}

func writeReflect(rv reflect.Value, seen map[uintptr]struct{}) (jsonvalue.Value, error) {
	if !rv.IsValid() {
		return jsonvalue.Null, nil
	}

	t := rv.Type()

	if jsonshape.IsOptionalType(t) {
		if !jsonshape.OptionalValid(rv) {
			return jsonvalue.Null, nil
		}
		return writeReflect(jsonshape.OptionalVal(rv), seen)
	}

	if jsonshape.IsLazyType(t) {
		return writeLazy(rv, seen)
	}

	if _, toJSON, ok := jsonadapt.Lookup(t); ok {
		return toJSON(rv)
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return jsonvalue.Null, nil
		}
		if rv.Kind() == reflect.Ptr {
			if err := enter(rv, seen); err != nil {
				return jsonvalue.Null, err
			}
			defer leave(rv, seen)
		}
		return writeReflect(rv.Elem(), seen)

	case reflect.Bool:
		return jsonvalue.Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if jsonshape.IsRegisteredEnum(t) {
			return writeEnum(t, rv.Int())
		}
		if name, ok := enumStringerName(rv); ok {
			return jsonvalue.Str(name), nil
		}
		return writeInt(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return writeUint(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return jsonvalue.Null, jsonerr.New("Cannot write non-finite float %v", f)
		}
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(f, "")), nil

	case reflect.String:
		return jsonvalue.Str(rv.String()), nil

	case reflect.Slice:
		if rv.IsNil() {
			return jsonvalue.Null, nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return jsonvalue.Str(base64.StdEncoding.EncodeToString(rv.Bytes())), nil
		}
		return writeSequence(rv, seen)

	case reflect.Array:
		if t.Elem().Kind() == reflect.Int32 && t.Elem().Name() == "int32" {
			runes := make([]rune, rv.Len())
			for i := range runes {
				runes[i] = rune(rv.Index(i).Int())
			}
			return jsonvalue.Str(string(runes)), nil
		}
		return writeSequence(rv, seen)

	case reflect.Map:
		if rv.IsNil() {
			return jsonvalue.Null, nil
		}
		return writeMap(rv, seen)

	case reflect.Struct:
		return writeStruct(rv, seen)

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return jsonvalue.Null, jsonerr.New("Cannot write value of kind %s", rv.Kind())
	}

	return jsonvalue.Null, jsonerr.New("Cannot write value of kind %s", rv.Kind())
}

func writeInt(i int64) jsonvalue.Value {
	if i >= -1<<31 && i <= 1<<31-1 {
		return jsonvalue.Num(jsonvalue.NumberFromInt32(int32(i), ""))
	}
	return jsonvalue.Num(jsonvalue.NumberFromInt64(i, ""))
}

func writeUint(u uint64) jsonvalue.Value {
	if u <= 1<<31-1 {
		return jsonvalue.Num(jsonvalue.NumberFromInt32(int32(u), ""))
	}
	if u <= 1<<63-1 {
		return jsonvalue.Num(jsonvalue.NumberFromInt64(int64(u), ""))
	}
	return jsonvalue.Num(jsonvalue.NumberFromBigInt(new(big.Int).SetUint64(u), ""))
}

// enumStringerName recognizes the "named integer type with a resolvable
// String() string method" shape named in the dispatch table, for
// enum-shaped types the caller never ran through RegisterEnum. Callers
// only reach here after already ruling out a RegisterEnum registration.
func enumStringerName(rv reflect.Value) (string, bool) {
	if rv.Type().Name() == "" {
		return "", false
	}
	stringer, ok := rv.Interface().(fmt.Stringer)
	if !ok {
		return "", false
	}
	return stringer.String(), true
}

func writeEnum(t reflect.Type, ordinal int64) (jsonvalue.Value, error) {
	name, ok := jsonshape.EnumName(t, ordinal)
	if !ok {
		return jsonvalue.Null, jsonerr.New("Cannot write enum %s: ordinal %d out of range", t, ordinal)
	}
	return jsonvalue.Str(name), nil
}

// writeLazy drains a jsonshape.Lazy[T] by its reflect shape rather than
// through a Go interface: Next() is generic per T, so no single interface
// method set can dispatch across every instantiation. Writing necessarily
// materializes the sequence into a JSON array; laziness is a
// binder-production-side property only.
func writeLazy(rv reflect.Value, seen map[uintptr]struct{}) (jsonvalue.Value, error) {
	var elems []jsonvalue.Value
	for {
		elem, ok := jsonshape.LazyRecv(rv)
		if !ok {
			break
		}
		ev, err := writeReflect(elem, seen)
		if err != nil {
			return jsonvalue.Null, err
		}
		elems = append(elems, ev)
	}
	if err := jsonshape.LazyErr(rv); err != nil {
		return jsonvalue.Null, err
	}
	return jsonvalue.Array(elems), nil
}

func writeSequence(rv reflect.Value, seen map[uintptr]struct{}) (jsonvalue.Value, error) {
	if canAddr(rv) {
		if err := enter(rv, seen); err != nil {
			return jsonvalue.Null, err
		}
		defer leave(rv, seen)
	}
	n := rv.Len()
	elems := make([]jsonvalue.Value, n)
	for i := 0; i < n; i++ {
		ev, err := writeReflect(rv.Index(i), seen)
		if err != nil {
			return jsonvalue.Null, err
		}
		elems[i] = ev
	}
	return jsonvalue.Array(elems), nil
}

func writeMap(rv reflect.Value, seen map[uintptr]struct{}) (jsonvalue.Value, error) {
	if err := enter(rv, seen); err != nil {
		return jsonvalue.Null, err
	}
	defer leave(rv, seen)

	iter := rv.MapRange()
	type entry struct {
		key string
		val jsonvalue.Value
	}
	entries := make([]entry, 0, rv.Len())
	for iter.Next() {
		k, err := stringifyKey(iter.Key())
		if err != nil {
			return jsonvalue.Null, err
		}
		v, err := writeReflect(iter.Value(), seen)
		if err != nil {
			return jsonvalue.Null, err
		}
		if jsonshape.IsOptionalType(iter.Value().Type()) && !jsonshape.OptionalValid(iter.Value()) {
			continue
		}
		entries = append(entries, entry{key: k, val: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	members := make([]jsonvalue.Member, len(entries))
	for i, e := range entries {
		members[i] = jsonvalue.Member{Key: e.key, Value: e.val}
	}
	return jsonvalue.Object(members), nil
}

// stringifyKey applies the spec's key-stringify rules to a non-string map
// key: booleans to true/false, numerics to their shortest round-trip
// decimal, enums to their canonical name, temporal/adapter-backed keys to
// their adapter's canonical string, and anything else to its toString
// equivalent.
func stringifyKey(k reflect.Value) (string, error) {
	if _, toJSON, ok := jsonadapt.Lookup(k.Type()); ok {
		val, err := toJSON(k)
		if err != nil {
			return "", err
		}
		return val.StringValue(), nil
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Bool:
		if k.Bool() {
			return "true", nil
		}
		return "false", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if jsonshape.IsRegisteredEnum(k.Type()) {
			val, err := writeReflect(k, map[uintptr]struct{}{})
			if err != nil {
				return "", err
			}
			return val.StringValue(), nil
		}
		return fmt.Sprintf("%d", k.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", k.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := k.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", jsonerr.New("Cannot use non-finite float %v as a map key", f)
		}
		val := jsonvalue.Num(jsonvalue.NumberFromFloat64(f, ""))
		return val.String(), nil
	default:
		if s, ok := k.Interface().(fmt.Stringer); ok {
			return s.String(), nil
		}
		return "", jsonerr.New("Cannot use %s as a map key", k.Type())
	}
}

func writeStruct(rv reflect.Value, seen map[uintptr]struct{}) (jsonvalue.Value, error) {
	t := rv.Type()
	members := make([]jsonvalue.Member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		name, omit := fieldJSONName(f)
		if omit {
			continue
		}
		fv := rv.Field(i)
		if jsonshape.IsOptionalType(f.Type) && !jsonshape.OptionalValid(fv) {
			continue
		}
		val, err := writeReflect(fv, seen)
		if err != nil {
			return jsonvalue.Null, err
		}
		members = append(members, jsonvalue.Member{Key: name, Value: val})
	}
	return jsonvalue.Object(members), nil
}

func fieldJSONName(f reflect.StructField) (name string, omit bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if tag != "" {
		return tag, false
	}
	return jsonshape.LowerCamelCase(f.Name), false
}

// enter/leave track in-flight reference-bearing values (pointer, map,
// slice) by pointer identity, scoped to one
// top-level Write call, to fail fast on a reference cycle instead of
// recursing forever.
func enter(rv reflect.Value, seen map[uintptr]struct{}) error {
	ptr := rv.Pointer()
	if ptr == 0 {
		return nil
	}
	if _, ok := seen[ptr]; ok {
		return jsonerr.New("Cycle detected while writing %s", rv.Type())
	}
	seen[ptr] = struct{}{}
	return nil
}

func leave(rv reflect.Value, seen map[uintptr]struct{}) {
	ptr := rv.Pointer()
	if ptr != 0 {
		delete(seen, ptr)
	}
}

func canAddr(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Ptr, reflect.Map, reflect.Chan:
		return true
	default:
		return false
	}
}
