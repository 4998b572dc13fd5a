// ABOUTME: Half-open interval arithmetic for lazy positional windows
// ABOUTME: Converts slice requests into intervals and composes nested windows

package interval

import (
	"errors"
	"fmt"
)

// ErrUnsupportedSlice is returned for slice requests with a negative bound.
// Negative (from-the-end) slicing is not implemented.
var ErrUnsupportedSlice = errors.New("interval: unsupported slice")

// Slice is a slice request such as view[start:stop]. A nil bound is absent.
type Slice struct {
	Start *int
	Stop  *int
}

// Range requests [start:stop]
func Range(start, stop int) Slice {
	return Slice{Start: &start, Stop: &stop}
}

// From requests [start:]
func From(start int) Slice {
	return Slice{Start: &start}
}

// To requests [:stop]
func To(stop int) Slice {
	return Slice{Stop: &stop}
}

// All requests [:]
func All() Slice {
	return Slice{}
}

func (s Slice) String() string {
	bound := func(p *int) string {
		if p == nil {
			return ""
		}
		return fmt.Sprint(*p)
	}
	return "[" + bound(s.Start) + ":" + bound(s.Stop) + "]"
}

// Interval is the half-open window [Start, Stop) over an ancestor's
// positional index space. Stop only applies when Bounded is set.
type Interval struct {
	Start   int
	Stop    int
	Bounded bool
}

// Unbounded returns [start, ∞)
func Unbounded(start int) Interval {
	return Interval{Start: start}
}

// New returns [start, stop)
func New(start, stop int) Interval {
	return Interval{Start: start, Stop: stop, Bounded: true}
}

func (iv Interval) String() string {
	if !iv.Bounded {
		return fmt.Sprintf("[%d, ∞)", iv.Start)
	}
	return fmt.Sprintf("[%d, %d)", iv.Start, iv.Stop)
}

// End returns the effective exclusive end of the window over an ancestor
// holding n entries.
func (iv Interval) End(n int) int {
	if iv.Bounded && iv.Stop < n {
		return iv.Stop
	}
	return n
}

// Len returns the number of positions the window covers over an ancestor
// holding n entries: n - Start, clamped to Stop - Start, never negative.
func (iv Interval) Len(n int) int {
	l := n - iv.Start
	if iv.Bounded && l > iv.Stop-iv.Start {
		l = iv.Stop - iv.Start
	}
	if l < 0 {
		return 0
	}
	return l
}

// Contains reports whether absolute position i falls inside the window
// over an ancestor holding n entries.
func (iv Interval) Contains(i, n int) bool {
	return i >= iv.Start && i < iv.End(n)
}

// SliceToInterval checks that a slice request is supported and converts it
// to an interval. An absent start becomes 0; an absent stop stays unbounded.
func SliceToInterval(s Slice) (Interval, error) {
	start := 0
	if s.Start != nil {
		if *s.Start < 0 {
			return Interval{}, fmt.Errorf("%w: negative start %d", ErrUnsupportedSlice, *s.Start)
		}
		start = *s.Start
	}
	if s.Stop == nil {
		return Unbounded(start), nil
	}
	if *s.Stop < 0 {
		return Interval{}, fmt.Errorf("%w: negative stop %d", ErrUnsupportedSlice, *s.Stop)
	}
	return New(start, *s.Stop), nil
}

// Compose folds inner, expressed in outer's own index space, into a single
// interval over outer's ancestor. inner.Stop is offset by outer.Start before
// being compared with outer.Stop, so that v[p:q][r:s] == v[p+r:min(q, p+s)].
func Compose(outer, inner Interval) Interval {
	start := outer.Start + inner.Start
	switch {
	case !outer.Bounded && !inner.Bounded:
		return Unbounded(start)
	case !inner.Bounded:
		return New(start, outer.Stop)
	case !outer.Bounded:
		return New(start, inner.Stop+outer.Start)
	default:
		return New(start, min(outer.Stop, inner.Stop+outer.Start))
	}
}
