package grid

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDecodeJSONPreservesKeyOrder(t *testing.T) {
	doc := `{"zulu": 1, "alpha": 2, "mike": {"y": 1, "x": 2}}`

	v, err := DecodeJSON([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}

	om, ok := v.(*OrderedMap)
	if !ok {
		t.Fatalf("expected *OrderedMap, got %T", v)
	}
	if got := om.Keys(); !reflect.DeepEqual(got, []string{"zulu", "alpha", "mike"}) {
		t.Fatalf("keys = %v", got)
	}

	nested, _ := om.Get("mike")
	if got := nested.(*OrderedMap).Keys(); !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Fatalf("nested keys = %v", got)
	}
}

func TestDecodeJSONNumbersStayExact(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"price": 2500.10}`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	om := v.(*OrderedMap)
	price, _ := om.Get("price")
	num, ok := price.(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", price)
	}
	if num.String() != "2500.10" {
		t.Fatalf("number = %s", num)
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"a": 1} extra`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestDecodeJSONScalarsAndArrays(t *testing.T) {
	v, err := DecodeJSON([]byte(`[1, "two", true, null]`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	seq, ok := v.([]any)
	if !ok || len(seq) != 4 {
		t.Fatalf("unexpected decode result: %#v", v)
	}
	if seq[3] != nil {
		t.Fatalf("expected nil for JSON null, got %#v", seq[3])
	}
}

func TestOrderedMapStringRendersNestedValues(t *testing.T) {
	v := mustDecode(t, `{"bids": [{"price": 100, "quantity": 5}], "oi": 42, "note": null}`)

	want := "{bids: [{price: 100, quantity: 5}], oi: 42, note: null}"
	if got := v.(*OrderedMap).String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestFormatValueNestedMappingCell(t *testing.T) {
	v := mustDecode(t, `{"depth": {"buy": 5, "sell": 3}}`)
	depth, _ := v.(*OrderedMap).Get("depth")

	if got := FormatValue("depth", depth); got != "{buy: 5, sell: 3}" {
		t.Fatalf("nested mapping cell = %q", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		doc  string
		want Kind
	}{
		{`{"a": 1}`, KindMapping},
		{`[{"a": 1}]`, KindSequenceOfMapping},
		{`[1, 2]`, KindSequence},
		{`[{"a": 1}, 2]`, KindSequence},
		{`"x"`, KindScalar},
		{`42`, KindScalar},
		{`{}`, KindEmpty},
		{`[]`, KindEmpty},
		{`null`, KindEmpty},
		{`""`, KindEmpty},
	}
	for _, c := range cases {
		v := mustDecode(t, c.doc)
		if got := Classify(v).Kind; got != c.want {
			t.Fatalf("Classify(%s).Kind = %d, want %d", c.doc, got, c.want)
		}
	}
}
