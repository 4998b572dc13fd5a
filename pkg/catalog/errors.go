// ABOUTME: Error taxonomy for catalog access and search
// ABOUTME: Maps every failure onto a gRPC status code for transports

package catalog

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bluesky/catalog-server-from-scratch/pkg/interval"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

var (
	// ErrKeyNotFound indicates a requested key is absent
	ErrKeyNotFound = errors.New("catalog: key not found")

	// ErrIndexOutOfRange indicates a positional index outside [0, Len())
	ErrIndexOutOfRange = errors.New("catalog: index out of range")

	// ErrInvalidIndexType indicates an index that is neither an int nor a slice
	ErrInvalidIndexType = errors.New("catalog: index must be an int or slice")

	// ErrUnsupportedQuery indicates no handler is registered for a query's shape
	ErrUnsupportedQuery = errors.New("catalog: unsupported query")

	// ErrNotCollection indicates a path that descends through a leaf value
	ErrNotCollection = errors.New("catalog: entry is not a collection")

	// ErrUnsupportedSlice indicates a negative slice bound
	ErrUnsupportedSlice = interval.ErrUnsupportedSlice
)

// Code returns the gRPC status code matching err
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrKeyNotFound):
		return codes.NotFound
	case errors.Is(err, ErrIndexOutOfRange):
		return codes.OutOfRange
	case errors.Is(err, ErrUnsupportedSlice), errors.Is(err, ErrUnsupportedQuery):
		return codes.Unimplemented
	case errors.Is(err, ErrInvalidIndexType),
		errors.Is(err, ErrNotCollection),
		errors.Is(err, query.ErrInvalidQuery),
		errors.Is(err, query.ErrUnknownQueryType):
		return codes.InvalidArgument
	default:
		return codes.Unknown
	}
}

// Status converts err to a gRPC status carrying its code and message
func Status(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	return status.New(Code(err), err.Error())
}
