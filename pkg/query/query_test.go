// ABOUTME: Tests for query types and labeled query decoding
// ABOUTME: Verifies label round trips and the type registry

package query

import (
	"errors"
	"slices"
	"testing"
)

type tagQuery struct {
	Tag string `json:"tag"`
}

func (tagQuery) QueryType() string { return "tag" }

func TestTextQueryType(t *testing.T) {
	if got := NewText("apple").QueryType(); got != TextType {
		t.Errorf("Expected %q, got %q", TextType, got)
	}
}

func TestLabelAndDecode(t *testing.T) {
	l, err := Label(NewText("green apple"))
	if err != nil {
		t.Fatalf("Failed to label: %v", err)
	}
	if l.QueryType != TextType {
		t.Errorf("Expected label %q, got %q", TextType, l.QueryType)
	}
	if l.Query["text"] != "green apple" {
		t.Errorf("Expected payload text, got %v", l.Query)
	}

	q, err := Decode(l)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if q != NewText("green apple") {
		t.Errorf("Expected Text query, got %#v", q)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode(Labeled{QueryType: "nope"})
	if !errors.Is(err, ErrUnknownQueryType) {
		t.Errorf("Expected ErrUnknownQueryType, got %v", err)
	}
}

func TestDecodeInvalidPayload(t *testing.T) {
	_, err := Decode(Labeled{QueryType: TextType, Query: map[string]any{"text": 12}})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery, got %v", err)
	}
}

func TestRegisterType(t *testing.T) {
	RegisterType("tag", JSONFactory[tagQuery]())
	if !slices.Contains(Types(), "tag") {
		t.Fatalf("Expected tag in %v", Types())
	}

	q, err := Decode(Labeled{QueryType: "tag", Query: map[string]any{"tag": "raw"}})
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if q != (tagQuery{Tag: "raw"}) {
		t.Errorf("Expected tagQuery, got %#v", q)
	}
}

func TestParseJSON(t *testing.T) {
	one, err := ParseJSON([]byte(`{"query_type": "text", "query": {"text": "apple"}}`))
	if err != nil {
		t.Fatalf("Failed to parse object: %v", err)
	}
	if len(one) != 1 || one[0] != NewText("apple") {
		t.Errorf("Expected one Text query, got %v", one)
	}

	many, err := ParseJSON([]byte(`[
		{"query_type": "text", "query": {"text": "apple"}},
		{"query_type": "text", "query": {"text": "bird"}}
	]`))
	if err != nil {
		t.Fatalf("Failed to parse array: %v", err)
	}
	if len(many) != 2 || many[1] != NewText("bird") {
		t.Errorf("Expected two Text queries in order, got %v", many)
	}

	if none, err := ParseJSON([]byte("  ")); err != nil || none != nil {
		t.Errorf("Expected nothing for blank input, got %v, %v", none, err)
	}

	if _, err := ParseJSON([]byte(`{"query_type": `)); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery for truncated input, got %v", err)
	}
}

func TestLabelNil(t *testing.T) {
	if _, err := Label(nil); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Expected ErrInvalidQuery, got %v", err)
	}
}
