// ABOUTME: Protobuf encoding of array structure descriptions
// ABOUTME: Carries Structure as google.protobuf.Struct for transports

package datasource

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto encodes the structure as a protobuf Struct with the same field
// names as its JSON form.
func (s Structure) ToProto() (*structpb.Struct, error) {
	chunks := make([]any, len(s.Chunks))
	for d, c := range s.Chunks {
		chunks[d] = ints(c)
	}
	out, err := structpb.NewStruct(map[string]any{
		"dtype": map[string]any{
			"endianness": string(s.DType.Endianness),
			"kind":       string(s.DType.Kind),
			"itemsize":   s.DType.ItemSize,
		},
		"chunks": chunks,
		"shape":  ints(s.Shape),
	})
	if err != nil {
		return nil, fmt.Errorf("datasource: encode structure: %w", err)
	}
	return out, nil
}

// StructureFromProto decodes a Struct produced by ToProto
func StructureFromProto(p *structpb.Struct) (Structure, error) {
	m := p.AsMap()
	var s Structure

	dtype, ok := m["dtype"].(map[string]any)
	if !ok {
		return Structure{}, fmt.Errorf("%w: missing dtype", ErrInvalidShape)
	}
	endianness, _ := dtype["endianness"].(string)
	kind, _ := dtype["kind"].(string)
	itemsize, _ := dtype["itemsize"].(float64)
	s.DType = MachineDataType{Endianness: Endianness(endianness), Kind: Kind(kind), ItemSize: int(itemsize)}

	shape, err := toInts(m["shape"])
	if err != nil {
		return Structure{}, err
	}
	s.Shape = shape

	rawChunks, _ := m["chunks"].([]any)
	s.Chunks = make([][]int, len(rawChunks))
	for d, rc := range rawChunks {
		if s.Chunks[d], err = toInts(rc); err != nil {
			return Structure{}, err
		}
	}
	return s, nil
}

func ints(xs []int) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func toInts(v any) ([]int, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of integers, got %T", ErrInvalidShape, v)
	}
	out := make([]int, len(raw))
	for i, r := range raw {
		f, ok := r.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: expected a number, got %T", ErrInvalidShape, r)
		}
		out[i] = int(f)
	}
	return out, nil
}
