package jsonvalue

import "testing"

func TestWideningLadder(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   NumberKind
	}{
		{"1", NumInt32},
		{"-1", NumInt32},
		{"2147483648", NumInt64}, // overflows int32
		{"9999999999999999999999999", NumBigInt},
		{"1.5", NumFloat64},
		{"1e10", NumFloat64},
		{"1.0000000000000001", NumBigFloat}, // loses precision as float64
	}
	for _, tc := range tests {
		n := ParseNumberLexeme(tc.lexeme)
		if n.Kind() != tc.kind {
			t.Errorf("lexeme %q: got kind %v, want %v", tc.lexeme, n.Kind(), tc.kind)
		}
	}
}

func TestBigIntRendersExactLiteral(t *testing.T) {
	n := ParseNumberLexeme("9999999999999999999999999")
	if got := n.BigInt().String(); got != "9999999999999999999999999" {
		t.Errorf("got %s", got)
	}
}
