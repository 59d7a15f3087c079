package jsonadapt_test

import (
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lattice-substrate/json-codec/jsonadapt"
	"github.com/lattice-substrate/json-codec/jsonbind"
	"github.com/lattice-substrate/json-codec/jsonparse"
	"github.com/lattice-substrate/json-codec/jsonwrite"
)

func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()
	val, err := jsonwrite.Write(v)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	got, err := jsonbind.Bind[T](val)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	return got
}

func TestLocalDateRoundTrip(t *testing.T) {
	d := jsonadapt.LocalDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	got := roundTrip(t, d)
	if !time.Time(got).Equal(time.Time(d)) {
		t.Fatalf("got %v, want %v", got, d)
	}
}

func TestLocalTimeFormat(t *testing.T) {
	lt := jsonadapt.LocalTime(time.Date(0, 1, 1, 9, 30, 15, 0, time.UTC))
	val, err := jsonwrite.Write(lt)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "09:30:15" {
		t.Fatalf("got %s, want 09:30:15", val.StringValue())
	}
}

func TestLocalDateTimeFormat(t *testing.T) {
	ldt := jsonadapt.LocalDateTime(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	val, err := jsonwrite.Write(ldt)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "2024-01-01T09:00:00" {
		t.Fatalf("got %s", val.StringValue())
	}
}

func TestOffsetDateTimeElidesZeroSeconds(t *testing.T) {
	loc := time.FixedZone("", 8*3600)
	odt := jsonadapt.OffsetDateTime(time.Date(2024, 1, 1, 9, 0, 0, 0, loc))
	val, err := jsonwrite.Write(odt)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "2024-01-01T09:00+08:00" {
		t.Fatalf("got %s", val.StringValue())
	}
}

func TestZonedDateTimeRoundTripsZoneSuffix(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	zdt := jsonadapt.ZonedDateTime{Time: time.Date(2024, 1, 1, 9, 0, 0, 0, loc), Zone: "Asia/Shanghai"}
	val, werr := jsonwrite.Write(zdt)
	if werr != nil {
		t.Fatalf("Write error: %v", werr)
	}
	got, berr := jsonbind.Bind[jsonadapt.ZonedDateTime](val)
	if berr != nil {
		t.Fatalf("Bind error: %v", berr)
	}
	if got.Zone != "Asia/Shanghai" {
		t.Fatalf("got zone %q, want Asia/Shanghai", got.Zone)
	}
}

func TestInstantRoundTrip(t *testing.T) {
	inst := jsonadapt.Instant(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	got := roundTrip(t, inst)
	if !time.Time(got).Equal(time.Time(inst)) {
		t.Fatalf("got %v, want %v", got, inst)
	}
}

func TestGoDurationRoundTrip(t *testing.T) {
	d := 90 * time.Second
	got := roundTrip(t, d)
	if got != d {
		t.Fatalf("got %v, want %v", got, d)
	}
}

func TestISODurationParsesAndFormats(t *testing.T) {
	v, err := jsonparse.Parse([]byte(`"P1DT2H30M5.5S"`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	got, err := jsonbind.Bind[jsonadapt.ISODuration](v)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	want := jsonadapt.ISODuration{Days: 1, Hours: 2, Minutes: 30, Seconds: 5.5}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	out, err := jsonwrite.Write(got)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if out.StringValue() != "P1DT2H30M5.5S" {
		t.Fatalf("got %s", out.StringValue())
	}
}

func TestLegacyDateRoundTrip(t *testing.T) {
	d := jsonadapt.LegacyDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	got := roundTrip(t, d)
	if !time.Time(got).Equal(time.Time(d)) {
		t.Fatalf("got %v, want %v", got, d)
	}
}

func TestSQLTimestampRoundTrip(t *testing.T) {
	ts := jsonadapt.SQLTimestamp(time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC))
	got := roundTrip(t, ts)
	if !time.Time(got).Equal(time.Time(ts)) {
		t.Fatalf("got %v, want %v", got, ts)
	}
}

func TestProtoTimestampWellKnownType(t *testing.T) {
	ts := timestamppb.New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	val, err := jsonwrite.Write(ts)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "2024-01-01T00:00:00Z" {
		t.Fatalf("got %s", val.StringValue())
	}
	got, err := jsonbind.Bind[*timestamppb.Timestamp](val)
	if err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if !got.AsTime().Equal(ts.AsTime()) {
		t.Fatalf("got %v, want %v", got.AsTime(), ts.AsTime())
	}
}

func TestProtoDurationWellKnownType(t *testing.T) {
	d := durationpb.New(90 * time.Second)
	val, err := jsonwrite.Write(d)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "90s" {
		t.Fatalf("got %s, want 90s", val.StringValue())
	}
}

func TestProtoStructWellKnownType(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"name": "Alice", "age": 30.0})
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}
	val, werr := jsonwrite.Write(s)
	if werr != nil {
		t.Fatalf("Write error: %v", werr)
	}
	got, berr := jsonbind.Bind[*structpb.Struct](val)
	if berr != nil {
		t.Fatalf("Bind error: %v", berr)
	}
	if got.Fields["name"].GetStringValue() != "Alice" {
		t.Fatalf("got %v", got)
	}
}

func TestProtoStringValueWrapper(t *testing.T) {
	w := wrapperspb.String("hello")
	val, err := jsonwrite.Write(w)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "hello" {
		t.Fatalf("got %s, want hello", val.StringValue())
	}
}

func TestProtoNullValueEnum(t *testing.T) {
	v := structpb.NullValue_NULL_VALUE
	val, err := jsonwrite.Write(v)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if val.StringValue() != "NULL_VALUE" {
		t.Fatalf("got %s, want NULL_VALUE", val.StringValue())
	}
}
