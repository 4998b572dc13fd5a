// ABOUTME: Machine data type descriptors for array data sources
// ABOUTME: Follows the numpy array interface kind and byte-order codes

package datasource

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidDType indicates a dtype string that cannot be parsed
var ErrInvalidDType = errors.New("datasource: invalid dtype")

// Endianness is the byte order of an array's elements
type Endianness string

const (
	BigEndian     Endianness = "big"
	LittleEndian  Endianness = "little"
	NotApplicable Endianness = "not_applicable"
)

// Kind is the numpy kind code of an element type
type Kind string

const (
	BitField             Kind = "t"
	Boolean              Kind = "b"
	Integer              Kind = "i"
	UnsignedInteger      Kind = "u"
	FloatingPoint        Kind = "f"
	ComplexFloatingPoint Kind = "c"
	Timedelta            Kind = "m"
	Datetime             Kind = "M"
	String               Kind = "S" // fixed-length sequence of char
	Unicode              Kind = "U"
	Other                Kind = "V" // generic fixed-size chunk of memory
)

var validKinds = map[Kind]bool{
	BitField: true, Boolean: true, Integer: true, UnsignedInteger: true,
	FloatingPoint: true, ComplexFloatingPoint: true, Timedelta: true,
	Datetime: true, String: true, Unicode: true, Other: true,
}

// MachineDataType describes how one array element is laid out in memory
type MachineDataType struct {
	Endianness Endianness `json:"endianness"`
	Kind       Kind       `json:"kind"`
	ItemSize   int        `json:"itemsize"`
}

// NativeEndianness is the byte order of the running machine
func NativeEndianness() Endianness {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return LittleEndian
	}
	return BigEndian
}

// Float64 is the dtype of the arrays this package builds
func Float64() MachineDataType {
	return MachineDataType{Endianness: NativeEndianness(), Kind: FloatingPoint, ItemSize: 8}
}

// String renders the dtype in numpy notation, e.g. "<f8"
func (d MachineDataType) String() string {
	var order string
	switch d.Endianness {
	case BigEndian:
		order = ">"
	case LittleEndian:
		order = "<"
	default:
		order = "|"
	}
	return order + string(d.Kind) + strconv.Itoa(d.ItemSize)
}

// ParseDType parses numpy notation such as "<f8", "|b1" or "=i4". "=" means
// native byte order.
func ParseDType(s string) (MachineDataType, error) {
	if len(s) < 3 {
		return MachineDataType{}, fmt.Errorf("%w: %q", ErrInvalidDType, s)
	}

	var d MachineDataType
	switch s[0] {
	case '>':
		d.Endianness = BigEndian
	case '<':
		d.Endianness = LittleEndian
	case '=':
		d.Endianness = NativeEndianness()
	case '|':
		d.Endianness = NotApplicable
	default:
		return MachineDataType{}, fmt.Errorf("%w: byte order %q", ErrInvalidDType, s[0])
	}

	d.Kind = Kind(s[1:2])
	if !validKinds[d.Kind] {
		return MachineDataType{}, fmt.Errorf("%w: kind %q", ErrInvalidDType, d.Kind)
	}

	size, err := strconv.Atoi(s[2:])
	if err != nil || size <= 0 {
		return MachineDataType{}, fmt.Errorf("%w: item size %q", ErrInvalidDType, s[2:])
	}
	d.ItemSize = size
	return d, nil
}
