package jsonbind

import (
	"math/big"
	"testing"

	"github.com/lattice-substrate/json-codec/jsonparse"
	"github.com/lattice-substrate/json-codec/jsonshape"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

func mustParse(t *testing.T, text string) jsonvalue.Value {
	t.Helper()
	v, err := jsonparse.Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return v
}

func TestBindIntSlice(t *testing.T) {
	got, err := Bind[[]int32](mustParse(t, "[1,2,3]"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestBindSingleToManyPromotion(t *testing.T) {
	got, err := Bind[[]int32](mustParse(t, "7"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("got %v, want [7]", got)
	}
}

func TestBindNullToPrimitiveFails(t *testing.T) {
	if _, err := Bind[int32](mustParse(t, "null")); err == nil {
		t.Fatal("expected error")
	}
}

func TestBindNullToPointerIsNil(t *testing.T) {
	got, err := Bind[*int32](mustParse(t, "null"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

type rec struct {
	A int32                      `json:"a"`
	B jsonshape.Optional[int32]
}

func TestOptionalAbsentVsPresent(t *testing.T) {
	empty, err := Bind[rec](mustParse(t, `{"a":1}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if empty.B.Valid {
		t.Fatalf("got B=%v, want empty", empty.B)
	}

	withValue, err := Bind[rec](mustParse(t, `{"a":1,"B":2}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if !withValue.B.Valid || withValue.B.Val != 2 {
		t.Fatalf("got B=%v, want Some(2)", withValue.B)
	}
}

func TestUnknownKeysDropped(t *testing.T) {
	got, err := Bind[rec](mustParse(t, `{"a":1,"extra":true}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got.A != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestNameResolutionSnakeAndCamel(t *testing.T) {
	type target struct {
		BirthDate string
	}
	got, err := Bind[target](mustParse(t, `{"birth_date":"1993-05-15"}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got.BirthDate != "1993-05-15" {
		t.Fatalf("got %+v", got)
	}
}

func TestBindMapPreservesStringKeys(t *testing.T) {
	got, err := Bind[map[string]int32](mustParse(t, `{"b":2,"a":1}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got["a"] != 1 || got["b"] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestBindRawProjectsOrderedNesting(t *testing.T) {
	got, err := Bind[any](mustParse(t, `{"x":[1,2,{"y":true}]}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %T", got)
	}
	arr, ok := m["x"].([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("got %v", m["x"])
	}
}

func TestBindRawBigNumberWidening(t *testing.T) {
	got, err := Bind[any](mustParse(t, "9999999999999999999999999"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	bi, ok := got.(*big.Int)
	if !ok {
		t.Fatalf("got %T, want *big.Int", got)
	}
	want, _ := new(big.Int).SetString("9999999999999999999999999", 10)
	if bi.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", bi, want)
	}
}

func TestBindCharacterFromSingleRuneString(t *testing.T) {
	got, err := Bind[rune](mustParse(t, `"A"`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got != 'A' {
		t.Fatalf("got %q, want 'A'", got)
	}
}

func TestBindNumericOverflowFails(t *testing.T) {
	if _, err := Bind[int8](mustParse(t, "1000")); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestBindNullToSliceIsNil(t *testing.T) {
	got, err := Bind[[]int32](mustParse(t, "null"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestBindNullToMapIsNil(t *testing.T) {
	got, err := Bind[map[string]int32](mustParse(t, "null"))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestBindNullToArrayFails(t *testing.T) {
	if _, err := Bind[[3]int32](mustParse(t, "null")); err == nil {
		t.Fatal("expected error: a fixed-size array has no nil value")
	}
}

func TestBindNullFieldProducesNilSlice(t *testing.T) {
	type withTags struct {
		Tags []string `json:"tags"`
	}
	got, err := Bind[withTags](mustParse(t, `{"tags":null}`))
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if got.Tags != nil {
		t.Fatalf("got %v, want nil", got.Tags)
	}
}
