// ABOUTME: Tests for the built-in full-text search handler
// ABOUTME: Verifies word matching over nested metadata and result shape

package catalog

import (
	"errors"
	"slices"
	"testing"

	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

func fruitCatalog() *Catalog {
	return FromItems([]Item{
		{Key: "a", Value: newLeaf("a", map[string]any{"fruit": "apple"})},
		{Key: "b", Value: newLeaf("b", map[string]any{"fruit": "banana"})},
	}, WithMetadata(map[string]any{"owner": "apple grower"}))
}

func TestFullTextSearch(t *testing.T) {
	c := fruitCatalog()

	got, err := c.Search(query.NewText("apple"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if keys := slices.Collect(got.Keys()); !slices.Equal(keys, []string{"a"}) {
		t.Fatalf("Expected [a], got %v", keys)
	}

	orig, _ := c.Get("a")
	kept, _ := got.Get("a")
	if kept != orig {
		t.Error("Expected the kept value to be shared, not copied")
	}
	if !got.Metadata().IsEmpty() {
		t.Errorf("Expected empty metadata on the result, got %v", got.Metadata().Map())
	}
	if _, ok := got.(*Catalog); !ok {
		t.Errorf("Expected a *Catalog result, got %T", got)
	}
}

func TestFullTextSearchCaseAndWords(t *testing.T) {
	c := FromItems([]Item{
		{Key: "x", Value: newLeaf("x", map[string]any{"title": "Green Apple Pie"})},
		{Key: "y", Value: newLeaf("y", map[string]any{"nested": map[string]any{"deep": map[string]any{"word": "Cherry"}}})},
		{Key: "z", Value: newLeaf("z", map[string]any{"tags": []any{"plum", 3, "PEAR"}})},
		{Key: "w", Value: newLeaf("w", map[string]any{"count": 12})},
	})

	tests := []struct {
		text string
		want []string
	}{
		{"APPLE", []string{"x"}},
		{"cherry pear", []string{"y", "z"}},
		{"  pie   plum ", []string{"x", "z"}},
		{"app", nil},
		{"12", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got, err := c.Search(query.NewText(tt.text))
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", tt.text, err)
		}
		if keys := slices.Collect(got.Keys()); !slices.Equal(keys, tt.want) {
			t.Errorf("Search(%q) = %v, want %v", tt.text, keys, tt.want)
		}
	}
}

func TestFullTextSearchNestedCatalogs(t *testing.T) {
	tiny := FromItems(nil, WithMetadata(map[string]any{"fruit": "apple", "animal": "bird"}))
	small := FromItems(nil, WithMetadata(map[string]any{"fruit": "banana", "animal": "cat"}))
	root := FromItems([]Item{{Key: "tiny", Value: tiny}, {Key: "small", Value: small}})

	got, err := root.Search(query.NewText("cat"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if keys := slices.Collect(got.Keys()); !slices.Equal(keys, []string{"small"}) {
		t.Errorf("Expected [small], got %v", keys)
	}

	// Results can be searched again
	again, err := got.Search(query.NewText("apple"))
	if err != nil {
		t.Fatalf("Second search failed: %v", err)
	}
	if again.Len() != 0 {
		t.Errorf("Expected no matches, got %d", again.Len())
	}
}

func TestFullTextSearchPointerQuery(t *testing.T) {
	got, err := FullTextSearch(&query.Text{Text: "banana"}, fruitCatalog())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if keys := slices.Collect(got.Keys()); !slices.Equal(keys, []string{"b"}) {
		t.Errorf("Expected [b], got %v", keys)
	}
}

func TestFullTextSearchWrongQuery(t *testing.T) {
	if _, err := FullTextSearch(prefixQuery{}, fruitCatalog()); !errors.Is(err, ErrUnsupportedQuery) {
		t.Errorf("Expected ErrUnsupportedQuery, got %v", err)
	}
}

func TestDefaultRegistryHasText(t *testing.T) {
	if !slices.Contains(DefaultRegistry.Shapes(), query.TextType) {
		t.Errorf("Expected %q in %v", query.TextType, DefaultRegistry.Shapes())
	}
}

func TestSearchDispatchesPointerQuery(t *testing.T) {
	got, err := fruitCatalog().Search(&query.Text{Text: "banana"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if keys := slices.Collect(got.Keys()); !slices.Equal(keys, []string{"b"}) {
		t.Errorf("Expected [b], got %v", keys)
	}
}

func TestFullTextSearchTypedMetadata(t *testing.T) {
	c := FromItems([]Item{
		{Key: "a", Value: newLeaf("a", map[string]any{"info": map[string][]string{"tags": {"apple"}}})},
		{Key: "b", Value: newLeaf("b", map[string]any{"deep": map[string]map[string]string{"x": {"y": "plum"}}})},
	})

	got, err := c.Search(query.NewText("apple plum"))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if keys := slices.Collect(got.Keys()); !slices.Equal(keys, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", keys)
	}
}
