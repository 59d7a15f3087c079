package jsonbind

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/lattice-substrate/json-codec/jsonadapt"
	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonlex"
	"github.com/lattice-substrate/json-codec/jsonshape"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// Bind is the generic entry point: bind v to an instance of T, the
// Go-idiomatic replacement for a TypeToken-carrying overload.
func Bind[T any](v jsonvalue.Value) (T, error) {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	rv, err := bind(v, t, "$")
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

func bind(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	switch classify(t) {
	case KindOptional:
		return bindOptional(v, t, path)
	case KindLazy:
		return bindLazy(v, t, path)
	case KindAdapter:
		return bindAdapter(v, t, path)
	case KindPointer:
		return bindPointer(v, t, path)
	case KindRaw:
		return bindRaw(v, t, path)
	case KindEnum:
		return bindEnum(v, t, path)
	case KindSlice, KindArray:
		return bindSequence(v, t, path)
	case KindMap:
		return bindMap(v, t, path)
	case KindProduct:
		return bindProduct(v, t, path)
	case KindString:
		return bindString(v, t, path)
	default:
		return bindPrimitive(v, t, path)
	}
}

// --- rule 1: null handling (for the kinds that reach this generic path;
// Optional/Adapter/Pointer/Raw handle their own null case internally) ---

func failNullToPrimitive(t reflect.Type, path string) (reflect.Value, error) {
	return reflect.Value{}, jsonerr.AtPath(path, "Cannot assign null to primitive %s", t)
}

// --- rule 2: adapter dispatch ---------------------------------------------

func bindAdapter(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	fromJSON, _, ok := jsonadapt.Lookup(t)
	if !ok {
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}
	rv, err := fromJSON(v)
	if err != nil {
		if je, ok := err.(*jsonerr.Error); ok {
			return reflect.Value{}, je.WithPath(path)
		}
		return reflect.Value{}, jsonerr.Wrap(err, "Cannot bind %s to %s", v.Kind(), t).WithPath(path)
	}
	return rv, nil
}

// --- rule 3: raw any / interface target ------------------------------------

var orderedMapType = reflect.TypeOf(jsonvalue.OrderedMap(nil))

func bindRaw(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	var out any
	if t == orderedMapType {
		out = projectOrdered(v)
	} else {
		out = projectRaw(v)
	}
	rv := reflect.ValueOf(out)
	if !rv.IsValid() {
		// nil any/interface
		return reflect.Zero(t), nil
	}
	if t.Kind() == reflect.Interface && !rv.Type().AssignableTo(t) {
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}
	if t.Kind() == reflect.Interface {
		return rv, nil
	}
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}
	return rv, nil
}

// projectRaw implements rule 3's natural-shape projection: null, bool,
// narrowed number, string, []any, map[string]any.
func projectRaw(v jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil
	case jsonvalue.KindBool:
		return v.BoolValue()
	case jsonvalue.KindNumber:
		return projectNumber(v.NumberValue())
	case jsonvalue.KindString:
		return v.StringValue()
	case jsonvalue.KindArray:
		elems := v.Elements()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = projectRaw(e)
		}
		return out
	case jsonvalue.KindObject:
		out := make(map[string]any, len(v.Members()))
		for _, m := range v.Members() {
			out[m.Key] = projectRaw(m.Value)
		}
		return out
	default:
		return nil
	}
}

func projectOrdered(v jsonvalue.Value) any {
	if v.Kind() != jsonvalue.KindObject {
		return projectRaw(v)
	}
	members := v.Members()
	out := make(jsonvalue.OrderedMap, len(members))
	for i, m := range members {
		out[i] = jsonvalue.OrderedEntry{Key: m.Key, Value: projectOrdered(m.Value)}
	}
	return out
}

func projectNumber(n jsonvalue.Number) any {
	switch n.Kind() {
	case jsonvalue.NumInt32:
		return n.Int32()
	case jsonvalue.NumInt64:
		return n.Int64()
	case jsonvalue.NumBigInt:
		return n.BigInt()
	case jsonvalue.NumFloat64:
		return n.Float64()
	case jsonvalue.NumBigFloat:
		return n.BigFloat()
	default:
		return nil
	}
}

// --- rule 4: enum -----------------------------------------------------------

func bindEnum(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		// Only the protobuf NullValue enumeration accepts a bare JSON
		// null, per rule 1's protobuf special case; every other
		// registered enum treats null like any other primitive target.
		if name, ok := jsonshape.EnumName(t, 0); ok && name == "NULL_VALUE" {
			return reflect.Zero(t), nil
		}
		return failNullToPrimitive(t, path)
	}
	switch v.Kind() {
	case jsonvalue.KindString:
		name := v.StringValue()
		if name == "UNRECOGNIZED" {
			return reflect.Zero(t).Convert(t), nil
		}
		ord, ok := jsonshape.EnumOrdinal(t, name)
		if !ok {
			return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind string %q to enum %s", name, t)
		}
		return reflect.ValueOf(ord).Convert(t), nil
	case jsonvalue.KindNumber:
		ord := v.NumberValue().AsFloat64()
		return reflect.ValueOf(int64(ord)).Convert(t), nil
	default:
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to enum %s", v.Kind(), t)
	}
}

// --- rule 5 & 7: boolean and numeric, rule 6 folded into rule 7 ------------

func bindPrimitive(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		return failNullToPrimitive(t, path)
	}
	if t.Kind() == reflect.Bool {
		return bindBool(v, t, path)
	}
	return bindNumeric(v, t, path)
}

func bindBool(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	switch v.Kind() {
	case jsonvalue.KindBool:
		return reflect.ValueOf(v.BoolValue()).Convert(t), nil
	case jsonvalue.KindNumber:
		return reflect.ValueOf(v.NumberValue().AsFloat64() != 0).Convert(t), nil
	case jsonvalue.KindString:
		s := strings.ToLower(v.StringValue())
		if s == "true" {
			return reflect.ValueOf(true).Convert(t), nil
		}
		if s == "false" {
			return reflect.ValueOf(false).Convert(t), nil
		}
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind string %q to bool", v.StringValue())
	default:
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to bool", v.Kind())
	}
}

// bindNumeric implements rule 7 (numeric T), with rule 6 (character T)
// folded in: Go's rune is a plain alias for int32 with no distinguishing
// runtime type from a numeric int32 field, so a length-1 string that
// fails to re-lex as a number is taken as that one character's code
// point instead of failing outright.
func bindNumeric(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	switch v.Kind() {
	case jsonvalue.KindNumber:
		return convertNumber(v.NumberValue(), t, path)
	case jsonvalue.KindString:
		s := v.StringValue()
		if looksNumeric(s) {
			return convertNumber(jsonvalue.ParseNumberLexeme(s), t, path)
		}
		if r := []rune(s); len(r) == 1 {
			return reflect.ValueOf(int64(r[0])).Convert(t), nil
		}
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind string %q to %s", s, t)
	default:
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}
}

// looksNumeric re-lexes s and reports whether the whole string is one
// JSON number token.
func looksNumeric(s string) bool {
	tok, err := jsonlex.New([]byte(s)).Next()
	return err == nil && tok.Kind == jsonlex.NUMBER && tok.Text == s
}

func convertNumber(n jsonvalue.Number, t reflect.Type, path string) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := numberToInt64(n)
		if err != nil {
			return reflect.Value{}, jsonerr.AtPath(path, "%s", err)
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowInt(i) {
			return reflect.Value{}, jsonerr.AtPath(path, "Numeric overflow binding %v to %s", i, t)
		}
		rv.SetInt(i)
		return rv, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := numberToInt64(n)
		if err != nil {
			return reflect.Value{}, jsonerr.AtPath(path, "%s", err)
		}
		if i < 0 {
			return reflect.Value{}, jsonerr.AtPath(path, "Numeric overflow binding %v to %s", i, t)
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowUint(uint64(i)) {
			return reflect.Value{}, jsonerr.AtPath(path, "Numeric overflow binding %v to %s", i, t)
		}
		rv.SetUint(uint64(i))
		return rv, nil
	case reflect.Float32, reflect.Float64:
		rv := reflect.New(t).Elem()
		rv.SetFloat(n.AsFloat64())
		return rv, nil
	default:
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind number to %s", t)
	}
}

func numberToInt64(n jsonvalue.Number) (int64, error) {
	switch n.Kind() {
	case jsonvalue.NumInt32:
		return int64(n.Int32()), nil
	case jsonvalue.NumInt64:
		return n.Int64(), nil
	case jsonvalue.NumBigInt:
		if !n.BigInt().IsInt64() {
			return 0, fmt.Errorf("Numeric overflow binding %s to int64", n.BigInt().String())
		}
		return n.BigInt().Int64(), nil
	case jsonvalue.NumFloat64:
		return int64(n.Float64()), nil
	case jsonvalue.NumBigFloat:
		bi, _ := n.BigFloat().Int(new(big.Int))
		if !bi.IsInt64() {
			return 0, fmt.Errorf("Numeric overflow binding %s to int64", bi.String())
		}
		return bi.Int64(), nil
	default:
		return 0, fmt.Errorf("unreachable number kind")
	}
}

// --- rule 8: string ---------------------------------------------------------

func bindString(v jsonvalue.Value, t reflect.Type, path string) (reflect.Value, error) {
	if v.IsNull() {
		return failNullToPrimitive(t, path)
	}
	switch v.Kind() {
	case jsonvalue.KindString:
		return reflect.ValueOf(v.StringValue()).Convert(t), nil
	case jsonvalue.KindBool:
		return reflect.ValueOf(strconv.FormatBool(v.BoolValue())).Convert(t), nil
	case jsonvalue.KindNumber:
		return reflect.ValueOf(v.String()).Convert(t), nil
	default:
		return reflect.Value{}, jsonerr.AtPath(path, "Cannot bind %s to %s", v.Kind(), t)
	}
}
