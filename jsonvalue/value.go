// Package jsonvalue implements the immutable tagged-union JSON value tree
// that is the sole interchange between jsonparse and jsonbind/jsonwrite.
//
// A Value is never mutated after construction; callers that need a
// modified tree build a new one. The kind tag is exhaustively switched on
// by every consumer rather than dispatched polymorphically, matching the
// "closed sum" design note of the distilled spec.
package jsonvalue

import (
	"math/big"
)

// Kind is the tag of a Value's variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object, in parse-encounter order.
type Member struct {
	Key   string
	Value Value
}

// Value is the sealed sum of the six JSON variants. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Value struct {
	kind    Kind
	boolVal bool
	num     Number
	str     string
	arr     []Value
	obj     []Member
}

// Null is the singleton null value.
var Null = Value{kind: KindNull}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Str constructs a string value from already-logical (unescaped) text.
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// Num constructs a number value from an already-widened Number.
func Num(n Number) Value {
	return Value{kind: KindNumber, num: n}
}

// Array constructs an array value from an ordered element slice. The
// slice is not copied; callers must not mutate it afterward.
func Array(elems []Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object constructs an object value from ordered members. Later members
// with a duplicate key shadow earlier ones during lookup but are NOT
// removed from Members() — callers that need last-wins must build the
// member slice with duplicates already resolved (jsonparse does this).
func Object(members []Member) Value {
	return Value{kind: KindObject, obj: members}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the boolean payload; only meaningful if Kind() == KindBool.
func (v Value) BoolValue() bool { return v.boolVal }

// NumberValue returns the numeric payload; only meaningful if Kind() == KindNumber.
func (v Value) NumberValue() Number { return v.num }

// StringValue returns the string payload; only meaningful if Kind() == KindString.
func (v Value) StringValue() string { return v.str }

// Elements returns the array payload; only meaningful if Kind() == KindArray.
func (v Value) Elements() []Value { return v.arr }

// Members returns the object payload in insertion order; only meaningful
// if Kind() == KindObject.
func (v Value) Members() []Member { return v.obj }

// Lookup finds the last member with the given key (duplicate-key-last-wins),
// returning ok=false if absent.
func (v Value) Lookup(key string) (Value, bool) {
	var found Value
	ok := false
	for _, m := range v.obj {
		if m.Key == key {
			found = m.Value
			ok = true
		}
	}
	return found, ok
}

// NumberKind identifies which concrete representation a Number carries.
type NumberKind int

const (
	NumInt32 NumberKind = iota
	NumInt64
	NumBigInt
	NumFloat64
	NumBigFloat
)

// Number is the widest numeric representation needed to hold a JSON
// number lexeme losslessly. Selection is driven purely by the lexeme
// (length, presence of a fraction/exponent), never by a binder target.
type Number struct {
	kind  NumberKind
	i32   int32
	i64   int64
	big   *big.Int
	f64   float64
	bigF  *big.Float
	// Lexeme preserves the original literal text (empty for numbers built
	// from native values); rendering uses the numeric payload, not Lexeme.
	Lexeme string
}

func NumberFromInt32(i int32, lexeme string) Number { return Number{kind: NumInt32, i32: i, Lexeme: lexeme} }
func NumberFromInt64(i int64, lexeme string) Number { return Number{kind: NumInt64, i64: i, Lexeme: lexeme} }
func NumberFromBigInt(b *big.Int, lexeme string) Number {
	return Number{kind: NumBigInt, big: b, Lexeme: lexeme}
}
func NumberFromFloat64(f float64, lexeme string) Number {
	return Number{kind: NumFloat64, f64: f, Lexeme: lexeme}
}
func NumberFromBigFloat(b *big.Float, lexeme string) Number {
	return Number{kind: NumBigFloat, bigF: b, Lexeme: lexeme}
}

func (n Number) Kind() NumberKind { return n.kind }
func (n Number) Int32() int32     { return n.i32 }
func (n Number) Int64() int64     { return n.i64 }
func (n Number) BigInt() *big.Int { return n.big }
func (n Number) Float64() float64 { return n.f64 }
func (n Number) BigFloat() *big.Float { return n.bigF }

// AsFloat64 widens any numeric representation to a float64, for contexts
// (like the fallback raw-Object projection's arithmetic-agnostic callers)
// that only need an approximate value.
func (n Number) AsFloat64() float64 {
	switch n.kind {
	case NumInt32:
		return float64(n.i32)
	case NumInt64:
		return float64(n.i64)
	case NumBigInt:
		f := new(big.Float).SetInt(n.big)
		v, _ := f.Float64()
		return v
	case NumFloat64:
		return n.f64
	case NumBigFloat:
		v, _ := n.bigF.Float64()
		return v
	}
	return 0
}
