// ABOUTME: Tests for path traversal
// ABOUTME: Verifies descent through nested collections and leaf errors

package catalog

import (
	"errors"
	"slices"
	"testing"
)

func nestedCatalog(t *testing.T) *Catalog {
	t.Helper()
	small := FromItems([]Item{
		{Key: "ones", Value: newLeaf("ones", nil)},
		{Key: "twos", Value: newLeaf("twos", nil)},
	})
	return FromItems([]Item{{Key: "small", Value: small}})
}

func TestSplit(t *testing.T) {
	if got := Split("/small//ones/"); !slices.Equal(got, []string{"small", "ones"}) {
		t.Errorf("Unexpected segments %v", got)
	}
	if got := Split(""); len(got) != 0 {
		t.Errorf("Expected no segments, got %v", got)
	}
}

func TestWalk(t *testing.T) {
	root := nestedCatalog(t)

	v, err := Walk(root, "small/twos")
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	if v.(*leaf).name != "twos" {
		t.Errorf("Expected twos, got %v", v)
	}

	self, err := Walk(root, "/")
	if err != nil || self != Value(root) {
		t.Errorf("Expected the root for an empty path, got %v, %v", self, err)
	}
}

func TestWalkErrors(t *testing.T) {
	root := nestedCatalog(t)

	if _, err := Walk(root, "small/threes"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
	if _, err := Walk(root, "small/ones/deeper"); !errors.Is(err, ErrNotCollection) {
		t.Errorf("Expected ErrNotCollection, got %v", err)
	}
	if _, err := WalkCollection(root, "small/ones"); !errors.Is(err, ErrNotCollection) {
		t.Errorf("Expected ErrNotCollection, got %v", err)
	}

	c, err := WalkCollection(root, "small")
	if err != nil || c.Len() != 2 {
		t.Errorf("Expected small with 2 entries, got %v, %v", c, err)
	}
}
