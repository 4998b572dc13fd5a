// ABOUTME: Protobuf encoding of pages and resources
// ABOUTME: Carries listings as google.protobuf.Struct for protojson output

package page

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bluesky/catalog-server-from-scratch/pkg/metadata"
)

// ToProto encodes the resource with the same field names as its JSON form
func (r Resource) ToProto() (*structpb.Struct, error) {
	attrs := make(map[string]*structpb.Value)
	if r.Attributes.Metadata != nil {
		md, err := metadata.New(r.Attributes.Metadata).ToProto()
		if err != nil {
			return nil, fmt.Errorf("page: resource %q: %w", r.ID, err)
		}
		attrs["metadata"] = structpb.NewStructValue(md)
	}
	if r.Attributes.Count != nil {
		attrs["count"] = structpb.NewNumberValue(float64(*r.Attributes.Count))
	}
	if r.Attributes.Structure != nil {
		s, err := r.Attributes.Structure.ToProto()
		if err != nil {
			return nil, fmt.Errorf("page: resource %q: %w", r.ID, err)
		}
		attrs["structure"] = structpb.NewStructValue(s)
	}

	fields := map[string]*structpb.Value{
		"id":         structpb.NewStringValue(r.ID),
		"attributes": structpb.NewStructValue(&structpb.Struct{Fields: attrs}),
	}
	if r.Type != "" {
		fields["type"] = structpb.NewStringValue(string(r.Type))
	}
	if len(r.Meta) > 0 {
		meta, err := structpb.NewStruct(r.Meta)
		if err != nil {
			return nil, fmt.Errorf("page: resource %q meta: %w", r.ID, err)
		}
		fields["meta"] = structpb.NewStructValue(meta)
	}
	return &structpb.Struct{Fields: fields}, nil
}

// ToProto encodes the page as {"data": [...], "links": {...}}
func (p *Page) ToProto() (*structpb.Struct, error) {
	data := make([]*structpb.Value, 0, len(p.Data))
	for _, r := range p.Data {
		s, err := r.ToProto()
		if err != nil {
			return nil, err
		}
		data = append(data, structpb.NewStructValue(s))
	}

	links := map[string]*structpb.Value{
		"self":  structpb.NewStringValue(p.Links.Self),
		"first": structpb.NewStringValue(p.Links.First),
		"last":  structpb.NewStringValue(p.Links.Last),
	}
	if p.Links.Next != "" {
		links["next"] = structpb.NewStringValue(p.Links.Next)
	}
	if p.Links.Prev != "" {
		links["prev"] = structpb.NewStringValue(p.Links.Prev)
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"data":  structpb.NewListValue(&structpb.ListValue{Values: data}),
		"links": structpb.NewStructValue(&structpb.Struct{Fields: links}),
	}}, nil
}
