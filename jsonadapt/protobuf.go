package jsonadapt

import (
	"encoding/base64"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lattice-substrate/json-codec/jsonerr"
	"github.com/lattice-substrate/json-codec/jsonshape"
	"github.com/lattice-substrate/json-codec/jsonvalue"
)

func init() {
	jsonshape.RegisterEnum[structpb.NullValue]("NULL_VALUE")
}

// protoFromJSON returns a binder closure for any concrete proto.Message
// type t (always a pointer Go type, per protobuf-go convention).
func protoFromJSON(t reflect.Type) func(jsonvalue.Value) (reflect.Value, error) {
	return func(v jsonvalue.Value) (reflect.Value, error) {
		msgType := t
		if msgType.Kind() == reflect.Ptr {
			msgType = msgType.Elem()
		}
		rv := reflect.New(msgType)
		msg, ok := rv.Interface().(proto.Message)
		if !ok {
			return reflect.Value{}, jsonerr.New("Cannot bind %s to %s: not a protobuf message", v.Kind(), t)
		}
		if err := bindWellKnownOrMessage(v, msg.ProtoReflect()); err != nil {
			return reflect.Value{}, err
		}
		if t.Kind() != reflect.Ptr {
			return rv.Elem(), nil
		}
		return rv, nil
	}
}

func protoToJSON(rv reflect.Value) (jsonvalue.Value, error) {
	msg, ok := asProtoMessage(rv)
	if !ok {
		return jsonvalue.Null, jsonerr.New("Cannot write %s: not a protobuf message", rv.Type())
	}
	return writeWellKnownOrMessage(msg.ProtoReflect())
}

func asProtoMessage(rv reflect.Value) (proto.Message, bool) {
	if rv.Kind() != reflect.Ptr {
		if rv.CanAddr() {
			rv = rv.Addr()
		} else {
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			rv = ptr
		}
	}
	msg, ok := rv.Interface().(proto.Message)
	return msg, ok
}

// --- well-known type dispatch -------------------------------------------------

func writeWellKnownOrMessage(m protoreflect.Message) (jsonvalue.Value, error) {
	switch msg := m.Interface().(type) {
	case *timestamppb.Timestamp:
		return jsonvalue.Str(msg.AsTime().UTC().Format(time.RFC3339Nano)), nil
	case *durationpb.Duration:
		return jsonvalue.Str(formatProtoDuration(msg.AsDuration())), nil
	case *structpb.Struct:
		return nativeToValue(msg.AsMap()), nil
	case *structpb.ListValue:
		return nativeToValue(msg.AsSlice()), nil
	case *structpb.Value:
		return nativeToValue(msg.AsInterface()), nil
	case *anypb.Any:
		return writeAny(msg)
	case *wrapperspb.BoolValue:
		return jsonvalue.Bool(msg.GetValue()), nil
	case *wrapperspb.StringValue:
		return jsonvalue.Str(msg.GetValue()), nil
	case *wrapperspb.BytesValue:
		return jsonvalue.Str(base64.StdEncoding.EncodeToString(msg.GetValue())), nil
	case *wrapperspb.Int32Value:
		return jsonvalue.Num(jsonvalue.NumberFromInt32(msg.GetValue(), "")), nil
	case *wrapperspb.Int64Value:
		return jsonvalue.Num(jsonvalue.NumberFromInt64(msg.GetValue(), "")), nil
	case *wrapperspb.UInt32Value:
		return jsonvalue.Num(jsonvalue.NumberFromInt64(int64(msg.GetValue()), "")), nil
	case *wrapperspb.UInt64Value:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(float64(msg.GetValue()), "")), nil
	case *wrapperspb.FloatValue:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(float64(msg.GetValue()), "")), nil
	case *wrapperspb.DoubleValue:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(msg.GetValue(), "")), nil
	}
	return messageToValue(m)
}

func bindWellKnownOrMessage(v jsonvalue.Value, m protoreflect.Message) error {
	switch msg := m.Interface().(type) {
	case *timestamppb.Timestamp:
		s, err := bindString(v, "Timestamp")
		if err != nil {
			return err
		}
		t, perr := time.Parse(time.RFC3339Nano, s)
		if perr != nil {
			return jsonerr.Wrap(perr, "Invalid date: %q", s)
		}
		proto.Merge(msg, timestamppb.New(t))
		return nil
	case *durationpb.Duration:
		s, err := bindString(v, "Duration")
		if err != nil {
			return err
		}
		d, perr := time.ParseDuration(s)
		if perr != nil {
			return jsonerr.Wrap(perr, "Invalid duration: %q", s)
		}
		proto.Merge(msg, durationpb.New(d))
		return nil
	case *structpb.Struct:
		s, err := structpb.NewStruct(valueToNative(v).(map[string]any))
		if err != nil {
			return jsonerr.Wrap(err, "Cannot bind %s to Struct", v.Kind())
		}
		proto.Merge(msg, s)
		return nil
	case *structpb.ListValue:
		native := valueToNative(v)
		items, ok := native.([]any)
		if !ok {
			items = []any{native}
		}
		l, err := structpb.NewList(items)
		if err != nil {
			return jsonerr.Wrap(err, "Cannot bind %s to ListValue", v.Kind())
		}
		proto.Merge(msg, l)
		return nil
	case *structpb.Value:
		pv, err := structpb.NewValue(valueToNative(v))
		if err != nil {
			return jsonerr.Wrap(err, "Cannot bind %s to Value", v.Kind())
		}
		proto.Merge(msg, pv)
		return nil
	case *anypb.Any:
		return bindAny(v, msg)
	case *wrapperspb.BoolValue:
		b, err := bindBool(v)
		if err != nil {
			return err
		}
		msg.Value = b
		return nil
	case *wrapperspb.StringValue:
		s, err := bindString(v, "StringValue")
		if err != nil {
			return err
		}
		msg.Value = s
		return nil
	case *wrapperspb.Int32Value, *wrapperspb.Int64Value, *wrapperspb.UInt32Value, *wrapperspb.UInt64Value,
		*wrapperspb.FloatValue, *wrapperspb.DoubleValue, *wrapperspb.BytesValue:
		fd := m.Descriptor().Fields().ByNumber(1)
		val, err := bindScalar(fd, v, m)
		if err != nil {
			return err
		}
		m.Set(fd, val)
		return nil
	}
	return bindMessage(v, m)
}

func bindBool(v jsonvalue.Value) (bool, error) {
	switch v.Kind() {
	case jsonvalue.KindBool:
		return v.BoolValue(), nil
	case jsonvalue.KindString:
		switch strings.ToLower(v.StringValue()) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, jsonerr.New("Cannot bind string %q to bool", v.StringValue())
	case jsonvalue.KindNumber:
		return v.NumberValue().AsFloat64() != 0, nil
	default:
		return false, jsonerr.New("Cannot bind %s to bool", v.Kind())
	}
}

func formatProtoDuration(d time.Duration) string {
	return trimFloatString(d.Seconds()) + "s"
}

func trimFloatString(f float64) string {
	// protobuf canonical JSON uses up to nanosecond precision with
	// trailing zeros trimmed; shortest round-trip digits in plain decimal
	// form, never exponent notation.
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- generic message <-> jsonvalue ---------------------------------------

func messageToValue(m protoreflect.Message) (jsonvalue.Value, error) {
	fields := m.Descriptor().Fields()
	members := make([]jsonvalue.Member, 0, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if !m.Has(fd) {
			continue
		}
		val, err := fieldToValue(fd, m.Get(fd))
		if err != nil {
			return jsonvalue.Null, err
		}
		members = append(members, jsonvalue.Member{Key: fd.JSONName(), Value: val})
	}
	return jsonvalue.Object(members), nil
}

func fieldToValue(fd protoreflect.FieldDescriptor, val protoreflect.Value) (jsonvalue.Value, error) {
	switch {
	case fd.IsMap():
		return mapFieldToValue(fd, val.Map())
	case fd.IsList():
		return listFieldToValue(fd, val.List())
	default:
		return scalarToValue(fd, val)
	}
}

func mapFieldToValue(fd protoreflect.FieldDescriptor, m protoreflect.Map) (jsonvalue.Value, error) {
	keys := make([]protoreflect.MapKey, 0, m.Len())
	m.Range(func(k protoreflect.MapKey, _ protoreflect.Value) bool {
		keys = append(keys, k)
		return true
	})
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	members := make([]jsonvalue.Member, 0, len(keys))
	for _, k := range keys {
		v, err := scalarToValue(fd.MapValue(), m.Get(k))
		if err != nil {
			return jsonvalue.Null, err
		}
		members = append(members, jsonvalue.Member{Key: k.String(), Value: v})
	}
	return jsonvalue.Object(members), nil
}

func listFieldToValue(fd protoreflect.FieldDescriptor, l protoreflect.List) (jsonvalue.Value, error) {
	elems := make([]jsonvalue.Value, 0, l.Len())
	for i := 0; i < l.Len(); i++ {
		v, err := scalarToValue(fd, l.Get(i))
		if err != nil {
			return jsonvalue.Null, err
		}
		elems = append(elems, v)
	}
	return jsonvalue.Array(elems), nil
}

func scalarToValue(fd protoreflect.FieldDescriptor, val protoreflect.Value) (jsonvalue.Value, error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return jsonvalue.Bool(val.Bool()), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return jsonvalue.Num(jsonvalue.NumberFromInt32(int32(val.Int()), "")), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return jsonvalue.Num(jsonvalue.NumberFromInt64(val.Int(), "")), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return jsonvalue.Num(jsonvalue.NumberFromInt64(int64(val.Uint()), "")), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(float64(val.Uint()), "")), nil
	case protoreflect.FloatKind:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(float64(val.Float()), "")), nil
	case protoreflect.DoubleKind:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(val.Float(), "")), nil
	case protoreflect.StringKind:
		return jsonvalue.Str(val.String()), nil
	case protoreflect.BytesKind:
		return jsonvalue.Str(base64.StdEncoding.EncodeToString(val.Bytes())), nil
	case protoreflect.EnumKind:
		return enumToValue(fd, val.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return writeWellKnownOrMessage(val.Message())
	default:
		return jsonvalue.Null, jsonerr.New("Cannot write protobuf field kind %v", fd.Kind())
	}
}

func enumToValue(fd protoreflect.FieldDescriptor, n protoreflect.EnumNumber) (jsonvalue.Value, error) {
	ev := fd.Enum().Values().ByNumber(n)
	if ev == nil {
		return jsonvalue.Str("UNRECOGNIZED"), nil
	}
	return jsonvalue.Str(string(ev.Name())), nil
}

func bindMessage(v jsonvalue.Value, m protoreflect.Message) error {
	if v.Kind() != jsonvalue.KindObject {
		return jsonerr.New("Cannot bind %s to %s", v.Kind(), m.Descriptor().FullName())
	}
	fields := m.Descriptor().Fields()
	keys := make([]string, len(v.Members()))
	for i, mem := range v.Members() {
		keys[i] = mem.Key
	}
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		matchedKey, ok := jsonshape.ResolveField(string(fd.Name()), "", keys)
		if !ok {
			matchedKey, ok = jsonshape.ResolveField(fd.JSONName(), "", keys)
		}
		if !ok {
			continue
		}
		fv, _ := v.Lookup(matchedKey)
		if fv.IsNull() {
			continue
		}
		if err := bindField(fd, fv, m); err != nil {
			return err
		}
	}
	return nil
}

func bindField(fd protoreflect.FieldDescriptor, v jsonvalue.Value, m protoreflect.Message) error {
	switch {
	case fd.IsMap():
		return bindMapField(fd, v, m)
	case fd.IsList():
		return bindListField(fd, v, m)
	default:
		val, err := bindScalar(fd, v, m)
		if err != nil {
			return err
		}
		m.Set(fd, val)
		return nil
	}
}

func bindMapField(fd protoreflect.FieldDescriptor, v jsonvalue.Value, m protoreflect.Message) error {
	if v.Kind() != jsonvalue.KindObject {
		return jsonerr.New("Cannot bind %s to map field %s", v.Kind(), fd.Name())
	}
	mapVal := m.NewField(fd).Map()
	for _, mem := range v.Members() {
		kv := protoreflect.ValueOfString(mem.Key).MapKey()
		vv, err := bindScalar(fd.MapValue(), mem.Value, m)
		if err != nil {
			return err
		}
		mapVal.Set(kv, vv)
	}
	m.Set(fd, protoreflect.ValueOfMap(mapVal))
	return nil
}

func bindListField(fd protoreflect.FieldDescriptor, v jsonvalue.Value, m protoreflect.Message) error {
	elems := v.Elements()
	if v.Kind() != jsonvalue.KindArray {
		elems = []jsonvalue.Value{v} // single-to-many promotion, rule 10
	}
	list := m.NewField(fd).List()
	for _, e := range elems {
		ev, err := bindScalar(fd, e, m)
		if err != nil {
			return err
		}
		list.Append(ev)
	}
	m.Set(fd, protoreflect.ValueOfList(list))
	return nil
}

func bindScalar(fd protoreflect.FieldDescriptor, v jsonvalue.Value, parent protoreflect.Message) (protoreflect.Value, error) {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		b, err := bindBool(v)
		return protoreflect.ValueOfBool(b), err
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return protoreflect.ValueOfInt32(int32(numberAsInt(v))), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return protoreflect.ValueOfInt64(numberAsInt(v)), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return protoreflect.ValueOfUint32(uint32(numberAsInt(v))), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return protoreflect.ValueOfUint64(uint64(numberAsInt(v))), nil
	case protoreflect.FloatKind:
		return protoreflect.ValueOfFloat32(float32(numberAsFloat(v))), nil
	case protoreflect.DoubleKind:
		return protoreflect.ValueOfFloat64(numberAsFloat(v)), nil
	case protoreflect.StringKind:
		s, err := bindString(v, "string")
		return protoreflect.ValueOfString(s), err
	case protoreflect.BytesKind:
		s, err := bindString(v, "bytes")
		if err != nil {
			return protoreflect.Value{}, err
		}
		b, derr := base64.StdEncoding.DecodeString(s)
		if derr != nil {
			return protoreflect.Value{}, jsonerr.Wrap(derr, "Invalid base64 in bytes field")
		}
		return protoreflect.ValueOfBytes(b), nil
	case protoreflect.EnumKind:
		return bindEnumField(fd, v)
	case protoreflect.MessageKind, protoreflect.GroupKind:
		nested := parent.NewField(fd).Message()
		if err := bindWellKnownOrMessage(v, nested); err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfMessage(nested), nil
	default:
		return protoreflect.Value{}, jsonerr.New("Cannot bind %s to protobuf field kind %v", v.Kind(), fd.Kind())
	}
}

func bindEnumField(fd protoreflect.FieldDescriptor, v jsonvalue.Value) (protoreflect.Value, error) {
	switch v.Kind() {
	case jsonvalue.KindString:
		name := v.StringValue()
		if name == "UNRECOGNIZED" {
			return protoreflect.ValueOfEnum(0), nil
		}
		ev := fd.Enum().Values().ByName(protoreflect.Name(name))
		if ev == nil {
			return protoreflect.Value{}, jsonerr.New("Cannot bind string %q to enum %s", name, fd.Enum().FullName())
		}
		return protoreflect.ValueOfEnum(ev.Number()), nil
	case jsonvalue.KindNumber:
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(numberAsInt(v))), nil
	default:
		return protoreflect.Value{}, jsonerr.New("Cannot bind %s to enum %s", v.Kind(), fd.Enum().FullName())
	}
}

func numberAsInt(v jsonvalue.Value) int64 {
	if v.Kind() != jsonvalue.KindNumber {
		return 0
	}
	n := v.NumberValue()
	switch n.Kind() {
	case jsonvalue.NumInt32:
		return int64(n.Int32())
	case jsonvalue.NumInt64:
		return n.Int64()
	default:
		return int64(n.AsFloat64())
	}
}

func numberAsFloat(v jsonvalue.Value) float64 {
	if v.Kind() != jsonvalue.KindNumber {
		return 0
	}
	return v.NumberValue().AsFloat64()
}

// --- Any --------------------------------------------------------------------

func writeAny(a *anypb.Any) (jsonvalue.Value, error) {
	msg, err := a.UnmarshalNew()
	if err != nil {
		// The concrete type isn't linked in; fall back to the raw
		// type-URL/base64 envelope rather than failing the whole encode.
		return jsonvalue.Object([]jsonvalue.Member{
			{Key: "@type", Value: jsonvalue.Str(a.GetTypeUrl())},
			{Key: "value", Value: jsonvalue.Str(base64.StdEncoding.EncodeToString(a.GetValue()))},
		}), nil
	}
	body, err := writeWellKnownOrMessage(msg.ProtoReflect())
	if err != nil {
		return jsonvalue.Null, err
	}
	members := append([]jsonvalue.Member{{Key: "@type", Value: jsonvalue.Str(a.GetTypeUrl())}}, body.Members()...)
	return jsonvalue.Object(members), nil
}

func bindAny(v jsonvalue.Value, a *anypb.Any) error {
	if v.Kind() != jsonvalue.KindObject {
		return jsonerr.New("Cannot bind %s to Any", v.Kind())
	}
	typeURL, ok := v.Lookup("@type")
	if !ok {
		return jsonerr.New("Cannot bind object without @type to Any")
	}
	mt, err := protoregistry.GlobalTypes.FindMessageByURL(typeURL.StringValue())
	if err != nil {
		return jsonerr.Wrap(err, "Unknown Any type %q", typeURL.StringValue())
	}
	inner := mt.New()
	rest := make([]jsonvalue.Member, 0, len(v.Members()))
	for _, m := range v.Members() {
		if m.Key != "@type" {
			rest = append(rest, m)
		}
	}
	if err := bindMessage(jsonvalue.Object(rest), inner); err != nil {
		return err
	}
	packed, err := anypb.New(inner.Interface())
	if err != nil {
		return jsonerr.Wrap(err, "Cannot pack Any")
	}
	proto.Merge(a, packed)
	return nil
}

// --- native <-> jsonvalue (for structpb.Struct/Value/ListValue) -------------

func nativeToValue(x any) jsonvalue.Value {
	switch t := x.(type) {
	case nil:
		return jsonvalue.Null
	case bool:
		return jsonvalue.Bool(t)
	case float64:
		return jsonvalue.Num(jsonvalue.NumberFromFloat64(t, ""))
	case string:
		return jsonvalue.Str(t)
	case []any:
		elems := make([]jsonvalue.Value, len(t))
		for i, e := range t {
			elems[i] = nativeToValue(e)
		}
		return jsonvalue.Array(elems)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]jsonvalue.Member, 0, len(keys))
		for _, k := range keys {
			members = append(members, jsonvalue.Member{Key: k, Value: nativeToValue(t[k])})
		}
		return jsonvalue.Object(members)
	default:
		return jsonvalue.Null
	}
}

func valueToNative(v jsonvalue.Value) any {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return nil
	case jsonvalue.KindBool:
		return v.BoolValue()
	case jsonvalue.KindNumber:
		return v.NumberValue().AsFloat64()
	case jsonvalue.KindString:
		return v.StringValue()
	case jsonvalue.KindArray:
		out := make([]any, len(v.Elements()))
		for i, e := range v.Elements() {
			out[i] = valueToNative(e)
		}
		return out
	case jsonvalue.KindObject:
		out := make(map[string]any, len(v.Members()))
		for _, m := range v.Members() {
			out[m.Key] = valueToNative(m.Value)
		}
		return out
	default:
		return nil
	}
}
