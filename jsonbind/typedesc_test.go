package jsonbind

import (
	"testing"

	"github.com/lattice-substrate/json-codec/jsonshape"
)

func TestTypeOfRecoversElemTypeForSlice(t *testing.T) {
	d := TypeOf[[]string]()
	if d.Kind() != KindSlice {
		t.Fatalf("got Kind()=%v, want KindSlice", d.Kind())
	}
	if d.Elem().Type().Kind().String() != "string" {
		t.Fatalf("got elem kind %v, want string", d.Elem().Type().Kind())
	}
}

func TestTypeOfRecoversOptionalElem(t *testing.T) {
	d := TypeOf[jsonshape.Optional[int32]]()
	if d.Kind() != KindOptional {
		t.Fatalf("got Kind()=%v, want KindOptional", d.Kind())
	}
	if d.Elem().Type().Kind().String() != "int32" {
		t.Fatalf("got elem kind %v, want int32", d.Elem().Type().Kind())
	}
}

func TestTypeOfRecoversMapKeyAndElem(t *testing.T) {
	d := TypeOf[map[string]int32]()
	if d.Kind() != KindMap {
		t.Fatalf("got Kind()=%v, want KindMap", d.Kind())
	}
	if d.Key().Type().Kind().String() != "string" {
		t.Fatalf("got key kind %v, want string", d.Key().Type().Kind())
	}
	if d.Elem().Type().Kind().String() != "int32" {
		t.Fatalf("got elem kind %v, want int32", d.Elem().Type().Kind())
	}
}

func TestTypeOfRawForAny(t *testing.T) {
	d := TypeOf[any]()
	if d.Kind() != KindRaw {
		t.Fatalf("got Kind()=%v, want KindRaw", d.Kind())
	}
}

func TestTypeOfProductForStruct(t *testing.T) {
	type s struct{ X int }
	d := TypeOf[s]()
	if d.Kind() != KindProduct {
		t.Fatalf("got Kind()=%v, want KindProduct", d.Kind())
	}
}
