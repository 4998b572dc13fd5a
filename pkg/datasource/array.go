// ABOUTME: Dense numeric array data source stored under catalog keys
// ABOUTME: Describes shape, chunking and dtype; serves whole arrays or single blocks

package datasource

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bluesky/catalog-server-from-scratch/pkg/metadata"
)

var (
	// ErrInvalidShape indicates data or chunks inconsistent with the shape
	ErrInvalidShape = errors.New("datasource: invalid shape")

	// ErrBlockOutOfRange indicates a block index outside the chunk grid
	ErrBlockOutOfRange = errors.New("datasource: block index out of range")

	// ErrIndexOutOfRange indicates an element index outside the array
	ErrIndexOutOfRange = errors.New("datasource: index out of range")
)

// Structure describes an array without reading it
type Structure struct {
	DType  MachineDataType `json:"dtype"`
	Chunks [][]int         `json:"chunks"` // chunk sizes along each dimension, e.g. [[3], [3]]
	Shape  []int           `json:"shape"`
}

// Blocks returns the number of chunks along each dimension
func (s Structure) Blocks() []int {
	n := make([]int, len(s.Chunks))
	for d, c := range s.Chunks {
		n[d] = len(c)
	}
	return n
}

// Array is an N-dimensional float64 array in row-major order
type Array struct {
	data   []float64
	shape  []int
	chunks [][]int
	md     metadata.Metadata
}

// ArrayOption configures an Array
type ArrayOption func(*Array)

// WithMetadata attaches a copy of md to the array
func WithMetadata(md map[string]any) ArrayOption {
	return func(a *Array) {
		a.md = metadata.New(md)
	}
}

// WithChunks sets the chunk sizes along each dimension. Sizes along a
// dimension must sum to its length.
func WithChunks(chunks ...[]int) ArrayOption {
	return func(a *Array) {
		a.chunks = make([][]int, len(chunks))
		for d, c := range chunks {
			a.chunks[d] = slices.Clone(c)
		}
	}
}

// NewArray wraps data laid out with the given shape. data is copied.
func NewArray(data []float64, shape []int, opts ...ArrayOption) (*Array, error) {
	a := &Array{data: slices.Clone(data), shape: slices.Clone(shape)}
	for _, opt := range opts {
		opt(a)
	}
	if a.chunks == nil {
		a.chunks = singleChunks(a.shape)
	}
	if err := ValidateLayout(a.shape, a.chunks); err != nil {
		return nil, err
	}
	if size := product(a.shape); size != len(a.data) {
		return nil, fmt.Errorf("%w: shape %v holds %d elements, got %d", ErrInvalidShape, a.shape, size, len(a.data))
	}
	return a, nil
}

// Full creates an array of the given shape with every element set to fill
func Full(shape []int, fill float64, opts ...ArrayOption) (*Array, error) {
	for _, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, shape)
		}
	}
	data := make([]float64, product(shape))
	for i := range data {
		data[i] = fill
	}
	return NewArray(data, shape, opts...)
}

// ValidateLayout checks that chunks tile shape exactly
func ValidateLayout(shape []int, chunks [][]int) error {
	for _, n := range shape {
		if n < 0 {
			return fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, shape)
		}
	}
	if chunks == nil {
		return nil
	}
	if len(chunks) != len(shape) {
		return fmt.Errorf("%w: %d chunk dimensions for %d array dimensions", ErrInvalidShape, len(chunks), len(shape))
	}
	for d, c := range chunks {
		sum := 0
		for _, size := range c {
			if size <= 0 && shape[d] > 0 {
				return fmt.Errorf("%w: non-positive chunk size along dimension %d", ErrInvalidShape, d)
			}
			sum += size
		}
		if sum != shape[d] {
			return fmt.Errorf("%w: chunks along dimension %d sum to %d, want %d", ErrInvalidShape, d, sum, shape[d])
		}
	}
	return nil
}

// Metadata returns the array's metadata
func (a *Array) Metadata() metadata.Metadata {
	return a.md
}

// Shape returns the array dimensions
func (a *Array) Shape() []int {
	return slices.Clone(a.shape)
}

// Describe returns the array's structure
func (a *Array) Describe() Structure {
	chunks := make([][]int, len(a.chunks))
	for d, c := range a.chunks {
		chunks[d] = slices.Clone(c)
	}
	return Structure{DType: Float64(), Chunks: chunks, Shape: a.Shape()}
}

// Read returns a copy of the whole array in row-major order
func (a *Array) Read() []float64 {
	return slices.Clone(a.data)
}

// At returns the element at the given multi-dimensional index
func (a *Array) At(index ...int) (float64, error) {
	if len(index) != len(a.shape) {
		return 0, fmt.Errorf("%w: %d indices for %d dimensions", ErrIndexOutOfRange, len(index), len(a.shape))
	}
	off := 0
	strides := rowMajorStrides(a.shape)
	for d, i := range index {
		if i < 0 || i >= a.shape[d] {
			return 0, fmt.Errorf("%w: %d along dimension %d of size %d", ErrIndexOutOfRange, i, d, a.shape[d])
		}
		off += i * strides[d]
	}
	return a.data[off], nil
}

// Block returns one chunk as its own array. block holds the chunk's
// position in the chunk grid along each dimension.
func (a *Array) Block(block ...int) (*Array, error) {
	if len(block) != len(a.shape) {
		return nil, fmt.Errorf("%w: %d block indices for %d dimensions", ErrBlockOutOfRange, len(block), len(a.shape))
	}

	start := make([]int, len(block))
	size := make([]int, len(block))
	for d, b := range block {
		if b < 0 || b >= len(a.chunks[d]) {
			return nil, fmt.Errorf("%w: block %v", ErrBlockOutOfRange, block)
		}
		for _, c := range a.chunks[d][:b] {
			start[d] += c
		}
		size[d] = a.chunks[d][b]
	}

	out := make([]float64, product(size))
	copyBlock(out, a.data, a.shape, start, size)
	return &Array{
		data:   out,
		shape:  size,
		chunks: singleChunks(size),
		md:     a.md,
	}, nil
}

func (a *Array) String() string {
	return fmt.Sprintf("Array(shape=%v, chunks=%v, dtype=%s)", a.shape, a.chunks, Float64())
}

// copyBlock copies the sub-array at start with the given size out of src.
// It recurses one dimension at a time and copies whole rows along the
// innermost one.
func copyBlock(dst, src []float64, shape, start, size []int) {
	if len(shape) == 0 {
		copy(dst, src)
		return
	}
	srcStrides := rowMajorStrides(shape)
	dstStrides := rowMajorStrides(size)
	last := len(shape) - 1

	var rec func(dim, srcOff, dstOff int)
	rec = func(dim, srcOff, dstOff int) {
		if dim == last {
			from := srcOff + start[dim]
			copy(dst[dstOff:dstOff+size[dim]], src[from:from+size[dim]])
			return
		}
		for i := 0; i < size[dim]; i++ {
			rec(dim+1, srcOff+(start[dim]+i)*srcStrides[dim], dstOff+i*dstStrides[dim])
		}
	}
	rec(0, 0, 0)
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for d := len(shape) - 1; d >= 0; d-- {
		strides[d] = acc
		acc *= shape[d]
	}
	return strides
}

func singleChunks(shape []int) [][]int {
	chunks := make([][]int, len(shape))
	for d, n := range shape {
		chunks[d] = []int{n}
	}
	return chunks
}

func product(shape []int) int {
	p := 1
	for _, n := range shape {
		p *= n
	}
	return p
}
