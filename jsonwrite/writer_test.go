package jsonwrite

import (
	"errors"
	"math"
	"testing"

	"github.com/lattice-substrate/json-codec/jsonshape"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type withOptional struct {
	Name     string                    `json:"name"`
	Nickname jsonshape.Optional[string] `json:"nickname"`
}

func mustWrite(t *testing.T, v any) string {
	t.Helper()
	val, err := Write(v)
	if err != nil {
		t.Fatalf("Write(%#v) error: %v", v, err)
	}
	return val.String()
}

func TestWriteScalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{false, "false"},
		{int32(42), "42"},
		{"hi", `"hi"`},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		if got := mustWrite(t, c.in); got != c.want {
			t.Errorf("Write(%#v) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestWriteSlice(t *testing.T) {
	got := mustWrite(t, []int{1, 2, 3})
	if got != "[1,2,3]" {
		t.Fatalf("got %s", got)
	}
}

func TestWriteNilSlice(t *testing.T) {
	var s []int
	if got := mustWrite(t, s); got != "null" {
		t.Fatalf("got %s, want null", got)
	}
}

func TestWriteBytesAsBase64(t *testing.T) {
	got := mustWrite(t, []byte("hi"))
	if got != `"aGk="` {
		t.Fatalf("got %s", got)
	}
}

func TestWriteStructFieldOrderAndTags(t *testing.T) {
	got := mustWrite(t, point{X: 1, Y: 2})
	if got != `{"x":1,"y":2}` {
		t.Fatalf("got %s", got)
	}
}

func TestWriteMapSortedKeys(t *testing.T) {
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	got := mustWrite(t, m)
	if got != `{"a":1,"b":2,"c":3}` {
		t.Fatalf("got %s", got)
	}
}

func TestWriteOptionalPresentAndAbsent(t *testing.T) {
	present := withOptional{Name: "Ann", Nickname: jsonshape.Some("A")}
	if got := mustWrite(t, present); got != `{"name":"Ann","nickname":"A"}` {
		t.Fatalf("got %s", got)
	}
	absent := withOptional{Name: "Ann"}
	if got := mustWrite(t, absent); got != `{"name":"Ann"}` {
		t.Fatalf("got %s", got)
	}
}

func TestWriteCycleDetected(t *testing.T) {
	type node struct {
		Next *node
	}
	n := &node{}
	n.Next = n
	if _, err := Write(n); err == nil {
		t.Fatal("expected cycle detection error")
	}
}

func TestWritePointerAndNil(t *testing.T) {
	var p *int
	if got := mustWrite(t, p); got != "null" {
		t.Fatalf("got %s, want null", got)
	}
	i := 7
	if got := mustWrite(t, &i); got != "7" {
		t.Fatalf("got %s, want 7", got)
	}
}

func TestWriteNonFiniteFloatFails(t *testing.T) {
	if _, err := Write(math.Inf(1)); err == nil {
		t.Fatal("expected error for +Inf")
	}
	if _, err := Write(math.Inf(-1)); err == nil {
		t.Fatal("expected error for -Inf")
	}
	if _, err := Write(math.NaN()); err == nil {
		t.Fatal("expected error for NaN")
	}
}

func TestWriteNonFiniteFloatMapKeyFails(t *testing.T) {
	m := map[float64]string{math.NaN(): "x"}
	if _, err := Write(m); err == nil {
		t.Fatal("expected error for NaN map key")
	}
}

func TestWriteLazyDrainsToArray(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)
	errBox := new(error)
	lazy := jsonshape.Lazy[int]{Ch: ch, ErrPtr: errBox}
	got := mustWrite(t, lazy)
	if got != "[1,2,3]" {
		t.Fatalf("got %s, want [1,2,3]", got)
	}
}

func TestWriteLazyPropagatesProductionError(t *testing.T) {
	ch := make(chan int)
	close(ch)
	errBox := new(error)
	*errBox = errors.New("production failed")
	lazy := jsonshape.Lazy[int]{Ch: ch, ErrPtr: errBox}
	if _, err := Write(lazy); err == nil {
		t.Fatal("expected propagated production error")
	}
}
