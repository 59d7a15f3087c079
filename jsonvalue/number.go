package jsonvalue

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ParseNumberLexeme widens a JSON number lexeme (as captured verbatim by
// jsonlex) to the narrowest representation in the ladder that holds it
// losslessly:
//
//	int32 if the lexeme fits
//	else int64
//	else arbitrary-precision integer
//
// for fractional/exponent lexemes:
//
//	float64 if the value round-trips losslessly through its lexeme
//	else arbitrary-precision decimal (*big.Float)
//
// Selection depends solely on the lexeme text, never on a binder target.
func ParseNumberLexeme(lexeme string) Number {
	if isIntegerLexeme(lexeme) {
		return widenInteger(lexeme)
	}
	return widenFraction(lexeme)
}

func isIntegerLexeme(lexeme string) bool {
	return !strings.ContainsAny(lexeme, ".eE")
}

func widenInteger(lexeme string) Number {
	if i, err := strconv.ParseInt(lexeme, 10, 32); err == nil {
		return NumberFromInt32(int32(i), lexeme)
	}
	if i, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
		return NumberFromInt64(i, lexeme)
	}
	b, ok := new(big.Int).SetString(lexeme, 10)
	if !ok {
		// Grammar-valid lexemes always parse; this would indicate an
		// upstream lexer bug, not user input.
		b = big.NewInt(0)
	}
	return NumberFromBigInt(b, lexeme)
}

func widenFraction(lexeme string) Number {
	f, err := strconv.ParseFloat(lexeme, 64)
	if err == nil && !math.IsInf(f, 0) && floatRoundTrips(lexeme, f) {
		return NumberFromFloat64(f, lexeme)
	}
	bf, _, err := big.ParseFloat(lexeme, 10, 1000, big.ToNearestEven)
	if err != nil {
		bf = big.NewFloat(0)
	}
	return NumberFromBigFloat(bf, lexeme)
}

// floatRoundTrips reports whether formatting f with the shortest
// round-trip algorithm yields a value numerically equal to the original
// lexeme's exact decimal value — i.e. no precision was lost by landing in
// float64.
func floatRoundTrips(lexeme string, f float64) bool {
	exact, _, err := big.ParseFloat(lexeme, 10, 1000, big.ToNearestEven)
	if err != nil {
		return false
	}
	shortest, _, err := big.ParseFloat(strconv.FormatFloat(f, 'g', -1, 64), 10, 1000, big.ToNearestEven)
	if err != nil {
		return false
	}
	return exact.Cmp(shortest) == 0
}
