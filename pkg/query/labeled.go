// ABOUTME: Labeled query envelopes and the query type registry
// ABOUTME: Maps query_type labels to concrete query types for decoding

package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrUnknownQueryType indicates a label with no registered query type
	ErrUnknownQueryType = errors.New("query: unknown query type")

	// ErrInvalidQuery indicates a payload that does not decode as its type
	ErrInvalidQuery = errors.New("query: invalid query")
)

// Labeled associates a query payload with its type label, the form queries
// take when they cross a process boundary.
type Labeled struct {
	QueryType string         `json:"query_type"`
	Query     map[string]any `json:"query"`
}

// Factory decodes a JSON payload into a concrete query
type Factory func(payload []byte) (Query, error)

// JSONFactory returns a Factory that unmarshals payloads into T
func JSONFactory[T Query]() Factory {
	return func(payload []byte) (Query, error) {
		var q T
		if err := json.Unmarshal(payload, &q); err != nil {
			return nil, err
		}
		return q, nil
	}
}

var types = struct {
	sync.RWMutex
	m map[string]Factory
}{m: map[string]Factory{
	TextType: JSONFactory[Text](),
}}

// RegisterType makes a query type decodable under name. Registering an
// existing name replaces its factory.
func RegisterType(name string, f Factory) {
	types.Lock()
	defer types.Unlock()
	types.m[name] = f
}

// Types returns the registered type labels in sorted order
func Types() []string {
	types.RLock()
	defer types.RUnlock()
	return slices.Sorted(maps.Keys(types.m))
}

// Label wraps q in its labeled envelope
func Label(q Query) (Labeled, error) {
	if q == nil {
		return Labeled{}, fmt.Errorf("%w: nil query", ErrInvalidQuery)
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return Labeled{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Labeled{}, fmt.Errorf("%w: payload of %s is not an object", ErrInvalidQuery, q.QueryType())
	}
	return Labeled{QueryType: q.QueryType(), Query: payload}, nil
}

// Decode resolves the envelope's label and decodes its payload
func Decode(l Labeled) (Query, error) {
	types.RLock()
	f, ok := types.m[l.QueryType]
	types.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQueryType, l.QueryType)
	}

	payload := l.Query
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	q, err := f(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidQuery, l.QueryType, err)
	}
	return q, nil
}

// ParseJSON decodes either a single labeled query object or an array of
// them, preserving order.
func ParseJSON(data []byte) ([]Query, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var labeled []Labeled
	if data[0] == '[' {
		if err := json.Unmarshal(data, &labeled); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	} else {
		var one Labeled
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		labeled = append(labeled, one)
	}

	queries := make([]Query, 0, len(labeled))
	for _, l := range labeled {
		q, err := Decode(l)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}
