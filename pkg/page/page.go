// ABOUTME: Paged listings of catalog entries as JSON:API style resources
// ABOUTME: Pulls one page through lazy views so only that page is read

package page

import (
	"fmt"

	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
	"github.com/bluesky/catalog-server-from-scratch/pkg/datasource"
	"github.com/bluesky/catalog-server-from-scratch/pkg/interval"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

// DefaultLimit is the page size used when a request leaves Limit at 0
const DefaultLimit = 10

// EntryType tells collections and data sources apart
type EntryType string

const (
	TypeCatalog    EntryType = "catalog"
	TypeDataSource EntryType = "datasource"
)

// Field selects which attributes a resource carries
type Field string

const (
	FieldMetadata  Field = "metadata"
	FieldStructure Field = "structure"
	FieldCount     Field = "count"
)

// AllFields returns every attribute field
func AllFields() []Field {
	return []Field{FieldMetadata, FieldStructure, FieldCount}
}

// ParseField validates a field name
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldMetadata, FieldStructure, FieldCount:
		return f, nil
	default:
		return "", fmt.Errorf("page: unknown field %q", s)
	}
}

// Describer is implemented by data sources that can report their structure
type Describer interface {
	Describe() datasource.Structure
}

// Attributes of one resource; absent fields are omitted
type Attributes struct {
	Metadata  map[string]any        `json:"metadata,omitempty"`
	Count     *int                  `json:"count,omitempty"`
	Structure *datasource.Structure `json:"structure,omitempty"`
}

// Resource is one catalog entry
type Resource struct {
	ID         string         `json:"id"`
	Type       EntryType      `json:"type,omitempty"`
	Attributes Attributes     `json:"attributes"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Page is one page of resources with navigation links
type Page struct {
	Data   []Resource `json:"data"`
	Links  Links      `json:"links"`
	Offset int        `json:"-"`
	Total  int        `json:"-"`
}

// Request selects a page
type Request struct {
	Path    string
	Offset  int
	Limit   int
	Fields  []Field
	Queries []query.Query
}

// NewResource describes value under key with the requested fields
func NewResource(key string, value catalog.Value, fields []Field) Resource {
	r := Resource{ID: key, Meta: map[string]any{"class": fmt.Sprintf("%T", value)}}
	want := make(map[Field]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}

	if want[FieldMetadata] {
		r.Attributes.Metadata = value.Metadata().Map()
	}
	switch v := value.(type) {
	case catalog.Collection:
		r.Type = TypeCatalog
		if want[FieldCount] {
			n := v.Len()
			r.Attributes.Count = &n
		}
	default:
		r.Type = TypeDataSource
		if d, ok := value.(Describer); ok && want[FieldStructure] {
			s := d.Describe()
			r.Attributes.Structure = &s
		}
	}
	return r
}

// Entries resolves req.Path under root, applies req.Queries in order, and
// returns the requested page. Without fields only keys are read, which
// never touches the values.
func Entries(root catalog.Collection, req Request) (*Page, error) {
	c, err := catalog.WalkCollection(root, req.Path)
	if err != nil {
		return nil, err
	}
	for _, q := range req.Queries {
		if c, err = c.Search(q); err != nil {
			return nil, err
		}
	}

	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if req.Offset < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: page offset %d, limit %d", catalog.ErrUnsupportedSlice, req.Offset, limit)
	}
	window := interval.Range(req.Offset, req.Offset+limit)

	p := &Page{Data: []Resource{}, Offset: req.Offset, Total: c.Len()}
	if len(req.Fields) > 0 {
		items, err := c.ItemsIndexer().Slice(window)
		if err != nil {
			return nil, err
		}
		for key, value := range items.All() {
			p.Data = append(p.Data, NewResource(key, value, req.Fields))
		}
	} else {
		keys, err := c.KeysIndexer().Slice(window)
		if err != nil {
			return nil, err
		}
		for key := range keys.All() {
			p.Data = append(p.Data, Resource{ID: key})
		}
	}

	p.Links = NewLinks(req.Path, req.Offset, limit, p.Total)
	return p, nil
}

// Metadata describes the single entry at path with the requested fields
func Metadata(root catalog.Collection, path string, fields []Field) (Resource, error) {
	v, err := catalog.Walk(root, path)
	if err != nil {
		return Resource{}, err
	}
	segments := catalog.Split(path)
	key := ""
	if len(segments) > 0 {
		key = segments[len(segments)-1]
	}
	return NewResource(key, v, fields), nil
}
