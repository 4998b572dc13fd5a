// ABOUTME: Conversion between metadata trees and protobuf Struct values
// ABOUTME: Lets transports carry metadata as google.protobuf.Struct

package metadata

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToProto converts the tree to a protobuf Struct. Leaves must be types
// structpb understands (strings, numbers, bools, nil).
func (m Metadata) ToProto() (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m.Map())
	if err != nil {
		return nil, fmt.Errorf("metadata: convert to struct: %w", err)
	}
	return s, nil
}

// FromProto builds Metadata from a protobuf Struct
func FromProto(s *structpb.Struct) Metadata {
	if s == nil {
		return Metadata{}
	}
	return New(s.AsMap())
}
