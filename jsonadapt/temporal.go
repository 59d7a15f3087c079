package jsonadapt

import (
	"fmt"
	"strings"
	"time"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

// LocalDate is a date without a time-of-day or zone component (ISO-8601
// "2024-01-01").
type LocalDate time.Time

// LocalTime is a time-of-day without a date or zone component (ISO-8601
// "09:00:00").
type LocalTime time.Time

// LocalDateTime is a date and time-of-day without a zone ("2024-01-01T09:00:00").
type LocalDateTime time.Time

// OffsetDateTime is a date and time-of-day with a fixed UTC offset
// ("2024-01-01T09:00+08:00"). Seconds are elided from the canonical
// output when zero, but accepted with or without ":00" on input.
type OffsetDateTime time.Time

// ZonedDateTime is an OffsetDateTime additionally tagged with an IANA
// zone name, rendered as a "[Zone]" suffix ("...+08:00[Asia/Shanghai]").
type ZonedDateTime struct {
	time.Time
	Zone string
}

// Instant is an absolute UTC timestamp.
type Instant time.Time

func init() {
	Register[LocalDate](localDateAdapter{})
	Register[LocalTime](localTimeAdapter{})
	Register[LocalDateTime](localDateTimeAdapter{})
	Register[OffsetDateTime](offsetDateTimeAdapter{})
	Register[ZonedDateTime](zonedDateTimeAdapter{})
	Register[Instant](instantAdapter{})
	Register[time.Duration](goDurationAdapter{})
	Register[ISODuration](isoDurationAdapter{})
}

func bindString(v jsonvalue.Value, target string) (string, error) {
	if v.Kind() != jsonvalue.KindString {
		return "", jsonerr.New("Cannot bind %s to %s", v.Kind(), target)
	}
	return v.StringValue(), nil
}

type localDateAdapter struct{}

func (localDateAdapter) FromJSON(v jsonvalue.Value) (LocalDate, error) {
	s, err := bindString(v, "LocalDate")
	if err != nil {
		return LocalDate{}, err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, jsonerr.Wrap(err, "Invalid date: %q", s)
	}
	return LocalDate(t), nil
}

func (localDateAdapter) ToJSON(d LocalDate) (jsonvalue.Value, error) {
	return jsonvalue.Str(time.Time(d).Format("2006-01-02")), nil
}

type localTimeAdapter struct{}

func (localTimeAdapter) FromJSON(v jsonvalue.Value) (LocalTime, error) {
	s, err := bindString(v, "LocalTime")
	if err != nil {
		return LocalTime{}, err
	}
	t, parseErr := parseLocalTime(s)
	if parseErr != nil {
		return LocalTime{}, jsonerr.Wrap(parseErr, "Invalid date: %q", s)
	}
	return LocalTime(t), nil
}

func parseLocalTime(s string) (time.Time, error) {
	for _, layout := range []string{"15:04:05.999999999", "15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a local time")
}

func (localTimeAdapter) ToJSON(t LocalTime) (jsonvalue.Value, error) {
	return jsonvalue.Str(time.Time(t).Format("15:04:05")), nil
}

type localDateTimeAdapter struct{}

func (localDateTimeAdapter) FromJSON(v jsonvalue.Value) (LocalDateTime, error) {
	s, err := bindString(v, "LocalDateTime")
	if err != nil {
		return LocalDateTime{}, err
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return LocalDateTime(t), nil
		}
	}
	return LocalDateTime{}, jsonerr.New("Invalid date: %q", s)
}

func (localDateTimeAdapter) ToJSON(t LocalDateTime) (jsonvalue.Value, error) {
	return jsonvalue.Str(time.Time(t).Format("2006-01-02T15:04:05")), nil
}

type offsetDateTimeAdapter struct{}

func (offsetDateTimeAdapter) FromJSON(v jsonvalue.Value) (OffsetDateTime, error) {
	s, err := bindString(v, "OffsetDateTime")
	if err != nil {
		return OffsetDateTime{}, err
	}
	for _, layout := range []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return OffsetDateTime(t), nil
		}
	}
	return OffsetDateTime{}, jsonerr.New("Invalid date: %q", s)
}

// ToJSON emits the shortest ISO-8601 offset form that round-trips through
// this same adapter: seconds are elided when zero (Open Question
// decision recorded in DESIGN.md).
func (offsetDateTimeAdapter) ToJSON(t OffsetDateTime) (jsonvalue.Value, error) {
	tt := time.Time(t)
	layout := "2006-01-02T15:04Z07:00"
	if tt.Second() != 0 || tt.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05Z07:00"
	}
	return jsonvalue.Str(tt.Format(layout)), nil
}

type zonedDateTimeAdapter struct{}

func (zonedDateTimeAdapter) FromJSON(v jsonvalue.Value) (ZonedDateTime, error) {
	s, err := bindString(v, "ZonedDateTime")
	if err != nil {
		return ZonedDateTime{}, err
	}
	zoneStart := strings.LastIndexByte(s, '[')
	body, zone := s, ""
	if zoneStart >= 0 && strings.HasSuffix(s, "]") {
		body = s[:zoneStart]
		zone = s[zoneStart+1 : len(s)-1]
	}
	var t time.Time
	var parseErr error
	for _, layout := range []string{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04Z07:00"} {
		t, parseErr = time.Parse(layout, body)
		if parseErr == nil {
			break
		}
	}
	if parseErr != nil {
		return ZonedDateTime{}, jsonerr.New("Invalid date: %q", s)
	}
	if zone != "" {
		if loc, err := time.LoadLocation(zone); err == nil {
			t = t.In(loc)
		}
	}
	return ZonedDateTime{Time: t, Zone: zone}, nil
}

func (zonedDateTimeAdapter) ToJSON(z ZonedDateTime) (jsonvalue.Value, error) {
	layout := "2006-01-02T15:04Z07:00"
	if z.Time.Second() != 0 || z.Time.Nanosecond() != 0 {
		layout = "2006-01-02T15:04:05Z07:00"
	}
	s := z.Time.Format(layout)
	if z.Zone != "" {
		s += "[" + z.Zone + "]"
	}
	return jsonvalue.Str(s), nil
}

type instantAdapter struct{}

func (instantAdapter) FromJSON(v jsonvalue.Value) (Instant, error) {
	s, err := bindString(v, "Instant")
	if err != nil {
		return Instant{}, err
	}
	t, perr := time.Parse(time.RFC3339Nano, s)
	if perr != nil {
		return Instant{}, jsonerr.Wrap(perr, "Invalid date: %q", s)
	}
	return Instant(t.UTC()), nil
}

func (instantAdapter) ToJSON(i Instant) (jsonvalue.Value, error) {
	return jsonvalue.Str(time.Time(i).UTC().Format(time.RFC3339Nano)), nil
}

// ISODuration is a calendar-aware duration ("PnDTnHnMn.nS") that Go's
// time.Duration (a fixed count of nanoseconds) cannot represent, since it
// has no notion of a calendar day.
type ISODuration struct {
	Days    int
	Hours   int
	Minutes int
	Seconds float64
}

type goDurationAdapter struct{}

func (goDurationAdapter) FromJSON(v jsonvalue.Value) (time.Duration, error) {
	s, err := bindString(v, "Duration")
	if err != nil {
		return 0, err
	}
	d, perr := time.ParseDuration(s)
	if perr != nil {
		return 0, jsonerr.Wrap(perr, "Invalid duration: %q", s)
	}
	return d, nil
}

func (goDurationAdapter) ToJSON(d time.Duration) (jsonvalue.Value, error) {
	return jsonvalue.Str(d.String()), nil
}

type isoDurationAdapter struct{}

func (isoDurationAdapter) FromJSON(v jsonvalue.Value) (ISODuration, error) {
	s, err := bindString(v, "ISODuration")
	if err != nil {
		return ISODuration{}, err
	}
	d, perr := parseISODuration(s)
	if perr != nil {
		return ISODuration{}, jsonerr.Wrap(perr, "Invalid duration: %q", s)
	}
	return d, nil
}

func (isoDurationAdapter) ToJSON(d ISODuration) (jsonvalue.Value, error) {
	return jsonvalue.Str(formatISODuration(d)), nil
}

// parseISODuration parses the PnDTnHnMn.nS grammar named explicitly in
// spec.md §6.
func parseISODuration(s string) (ISODuration, error) {
	if !strings.HasPrefix(s, "P") {
		return ISODuration{}, fmt.Errorf("missing P prefix")
	}
	rest := s[1:]
	var out ISODuration

	datePart, timePart, hasTime := strings.Cut(rest, "T")
	if datePart != "" {
		n, unit, tail, err := takeNumberUnit(datePart)
		if err != nil {
			return ISODuration{}, err
		}
		if unit != 'D' || tail != "" {
			return ISODuration{}, fmt.Errorf("unsupported date component %q", datePart)
		}
		out.Days = int(n)
	}
	if hasTime {
		remaining := timePart
		for remaining != "" {
			n, unit, tail, err := takeNumberUnit(remaining)
			if err != nil {
				return ISODuration{}, err
			}
			switch unit {
			case 'H':
				out.Hours = int(n)
			case 'M':
				out.Minutes = int(n)
			case 'S':
				out.Seconds = n
			default:
				return ISODuration{}, fmt.Errorf("unsupported time component unit %q", unit)
			}
			remaining = tail
		}
	}
	return out, nil
}

func takeNumberUnit(s string) (value float64, unit byte, tail string, err error) {
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, "", fmt.Errorf("malformed component %q", s)
	}
	var v float64
	_, err = fmt.Sscanf(s[:i], "%g", &v)
	if err != nil {
		return 0, 0, "", err
	}
	return v, s[i], s[i+1:], nil
}

func formatISODuration(d ISODuration) string {
	var b strings.Builder
	b.WriteByte('P')
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dD", d.Days)
	}
	if d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0 {
		b.WriteByte('T')
		if d.Hours != 0 {
			fmt.Fprintf(&b, "%dH", d.Hours)
		}
		if d.Minutes != 0 {
			fmt.Fprintf(&b, "%dM", d.Minutes)
		}
		if d.Seconds != 0 {
			fmt.Fprintf(&b, "%gS", d.Seconds)
		}
	}
	if b.Len() == 1 {
		b.WriteString("0D")
	}
	return b.String()
}
