package jsonparse

import (
	"testing"

	"github.com/lattice-substrate/json-codec/jsonvalue"
)

func mustParse(t *testing.T, input string) jsonvalue.Value {
	t.Helper()
	v, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	return v
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"null", "null"},
		{"true", "true"},
		{"false", "false"},
		{`"hi"`, `"hi"`},
		{"42", "42"},
		{"-1.5", "-1.5"},
	}
	for _, tc := range tests {
		v := mustParse(t, tc.input)
		if got := v.String(); got != tc.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseArray(t *testing.T) {
	v := mustParse(t, "[1,2,3]")
	if v.Kind() != jsonvalue.KindArray {
		t.Fatalf("want array, got %v", v.Kind())
	}
	if len(v.Elements()) != 3 {
		t.Fatalf("want 3 elements, got %d", len(v.Elements()))
	}
}

func TestParseObjectOrderAndDuplicates(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2,"a":3}`)
	members := v.Members()
	if len(members) != 2 {
		t.Fatalf("want 2 members after dedup, got %d", len(members))
	}
	if members[0].Key != "a" {
		t.Errorf("first member key = %q, want a (first-occurrence order kept)", members[0].Key)
	}
	got, ok := v.Lookup("a")
	if !ok || got.NumberValue().Int32() != 3 {
		t.Errorf("key a = %v, want 3 (last wins)", got)
	}
}

func TestEmptyArrayAndObject(t *testing.T) {
	v := mustParse(t, "[]")
	if v.Kind() != jsonvalue.KindArray || len(v.Elements()) != 0 {
		t.Fatalf("want empty array, got %v", v)
	}
	v = mustParse(t, "{}")
	if v.Kind() != jsonvalue.KindObject || len(v.Members()) != 0 {
		t.Fatalf("want empty object, got %v", v)
	}
}

func TestNestedStructure(t *testing.T) {
	v := mustParse(t, `{"users":[{"name":"Alice"},{"name":"Bob"}]}`)
	users, ok := v.Lookup("users")
	if !ok {
		t.Fatal("expected users key")
	}
	if len(users.Elements()) != 2 {
		t.Fatalf("want 2 users, got %d", len(users.Elements()))
	}
}

func TestTrailingCharactersError(t *testing.T) {
	_, err := Parse([]byte("false,"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNonStringKeyError(t *testing.T) {
	_, err := Parse([]byte(`{1:2}`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMissingCommaInObjectError(t *testing.T) {
	_, err := Parse([]byte(`{"a":1 "b":2}`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestMissingCommaInArrayError(t *testing.T) {
	_, err := Parse([]byte(`[1 2]`))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNoTrailingCommaAllowed(t *testing.T) {
	_, err := Parse([]byte(`[1,2,]`))
	if err == nil {
		t.Fatal("expected error for trailing comma in array")
	}
	_, err = Parse([]byte(`{"a":1,}`))
	if err == nil {
		t.Fatal("expected error for trailing comma in object")
	}
}

func TestParserTotality(t *testing.T) {
	// Every input either parses to exactly one value or fails with a
	// positional message; never panics.
	inputs := []string{"", "{", "[", `"unterminated`, "nul", "tru", "fals", "---", "1.", ".5", "1e"}
	for _, in := range inputs {
		_, err := Parse([]byte(in))
		if err == nil {
			t.Errorf("input %q: expected an error", in)
		}
	}
}
