package jsonvalue

import "testing"

func TestDuplicateKeyLastWins(t *testing.T) {
	// jsonparse resolves duplicates before constructing the Value, but
	// Lookup must also honor last-wins if handed a raw member slice.
	v := Object([]Member{
		{Key: "a", Value: Num(NumberFromInt32(1, "1"))},
		{Key: "a", Value: Num(NumberFromInt32(2, "2"))},
	})
	got, ok := v.Lookup("a")
	if !ok {
		t.Fatal("expected key a to be present")
	}
	if got.NumberValue().Int32() != 2 {
		t.Errorf("got %d, want 2", got.NumberValue().Int32())
	}
}

func TestRenderScalars(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Str("hi"), `"hi"`},
		{Str("a\"b\\c"), `"a\"b\\c"`},
		{Num(NumberFromInt32(42, "42")), "42"},
	}
	for _, tc := range tests {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestRenderArrayObjectOrderPreserved(t *testing.T) {
	v := Object([]Member{
		{Key: "b", Value: Num(NumberFromInt32(1, "1"))},
		{Key: "a", Value: Num(NumberFromInt32(2, "2"))},
	})
	want := `{"b":1,"a":2}`
	if got := v.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	arr := Array([]Value{Num(NumberFromInt32(1, "1")), Str("x"), Bool(false)})
	if got := arr.String(); got != `[1,"x",false]` {
		t.Errorf("String() = %q", got)
	}
}

func TestControlCharacterEscaping(t *testing.T) {
	v := Str("a\x01b\tc\n")
	want := "\"a\\u0001b\\tc\\n\""
	if got := v.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
