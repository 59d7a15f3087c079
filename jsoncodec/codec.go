// Package jsoncodec is the stable public entry point wiring jsonlex,
// jsonparse, jsonvalue, jsonbind, jsonwrite, and jsonadapt together —
// playing the same "stable top-level surface over the internal pipeline"
// role the teacher's gjcs1 package plays over jcstoken/jcs.
package jsoncodec

import (
	"github.com/lattice-substrate/json-codec/jsonadapt"
	"github.com/lattice-substrate/json-codec/jsonbind"
	"github.com/lattice-substrate/json-codec/jsonparse"
	"github.com/lattice-substrate/json-codec/jsonvalue"
	"github.com/lattice-substrate/json-codec/jsonwrite"
)

// Parse lexes and parses data into a value tree, with no binding applied.
func Parse(data []byte) (jsonvalue.Value, error) {
	return jsonparse.Parse(data)
}

// ParseWithOptions is Parse with explicit resource bounds.
func ParseWithOptions(data []byte, opts jsonparse.Options) (jsonvalue.Value, error) {
	return jsonparse.ParseWithOptions(data, &opts)
}

// Stringify reflects v into compact JSON text.
func Stringify(v any) ([]byte, error) {
	val, err := jsonwrite.Write(v)
	if err != nil {
		return nil, err
	}
	return val.Append(nil), nil
}

// Decode parses data and binds the result to T in one step.
func Decode[T any](data []byte) (T, error) {
	var zero T
	v, err := jsonparse.Parse(data)
	if err != nil {
		return zero, err
	}
	return jsonbind.Bind[T](v)
}

// DecodeValue binds an already-parsed value tree to T, for callers that
// need to inspect or reuse the tree before binding (e.g. to branch on a
// discriminator field first).
func DecodeValue[T any](v jsonvalue.Value) (T, error) {
	return jsonbind.Bind[T](v)
}

// RegisterAdapter installs a custom adapter for T, the same extension
// point jsonbind and jsonwrite both consult.
func RegisterAdapter[T any](a jsonadapt.Adapter[T]) {
	jsonadapt.Register[T](a)
}
