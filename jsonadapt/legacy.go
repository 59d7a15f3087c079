package jsonadapt

import (
	"time"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// LegacyDate stands in for the pre-java.time Date type named in spec.md
// §6 ("legacy date"): an absolute instant with no calendar semantics of
// its own, rendered as an ISO instant like Instant.
type LegacyDate time.Time

// SQLTimestamp stands in for the SQL driver timestamp type named in
// spec.md §6, likewise rendered as an ISO instant.
type SQLTimestamp time.Time

func init() {
	Register[LegacyDate](legacyDateAdapter{})
	Register[SQLTimestamp](sqlTimestampAdapter{})
}

type legacyDateAdapter struct{}

func (legacyDateAdapter) FromJSON(v jsonvalue.Value) (LegacyDate, error) {
	s, err := bindString(v, "LegacyDate")
	if err != nil {
		return LegacyDate{}, err
	}
	t, perr := time.Parse(time.RFC3339Nano, s)
	if perr != nil {
		return LegacyDate{}, jsonerr.Wrap(perr, "Invalid date: %q", s)
	}
	return LegacyDate(t.UTC()), nil
}

func (legacyDateAdapter) ToJSON(d LegacyDate) (jsonvalue.Value, error) {
	return jsonvalue.Str(time.Time(d).UTC().Format(time.RFC3339Nano)), nil
}

type sqlTimestampAdapter struct{}

func (sqlTimestampAdapter) FromJSON(v jsonvalue.Value) (SQLTimestamp, error) {
	s, err := bindString(v, "SQLTimestamp")
	if err != nil {
		return SQLTimestamp{}, err
	}
	t, perr := time.Parse(time.RFC3339Nano, s)
	if perr != nil {
		return SQLTimestamp{}, jsonerr.Wrap(perr, "Invalid date: %q", s)
	}
	return SQLTimestamp(t.UTC()), nil
}

func (sqlTimestampAdapter) ToJSON(t SQLTimestamp) (jsonvalue.Value, error) {
	return jsonvalue.Str(time.Time(t).UTC().Format(time.RFC3339Nano)), nil
}
