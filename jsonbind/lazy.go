package jsonbind

import "github.com/lattice-substrate/json-codec/jsonshape"

// Lazy is re-exported from jsonshape so that jsonwrite can drain a lazy
// sequence structurally (by reflect shape) without importing jsonbind,
// while callers binding against this package still spell the public name
// jsonbind.Lazy[T].
type Lazy[T any] = jsonshape.Lazy[T]
