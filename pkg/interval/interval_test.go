// ABOUTME: Tests for interval arithmetic
// ABOUTME: Verifies slice conversion, composition and window lengths

package interval

import (
	"errors"
	"testing"
)

func TestSliceToInterval(t *testing.T) {
	tests := []struct {
		name string
		in   Slice
		want Interval
	}{
		{"all", All(), Unbounded(0)},
		{"from", From(3), Unbounded(3)},
		{"to", To(4), New(0, 4)},
		{"range", Range(1, 3), New(1, 3)},
		{"empty range", Range(2, 2), New(2, 2)},
		{"stop before start", Range(5, 1), New(5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SliceToInterval(tt.in)
			if err != nil {
				t.Fatalf("SliceToInterval(%s) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("SliceToInterval(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSliceToIntervalNegative(t *testing.T) {
	for _, s := range []Slice{From(-1), To(-2), Range(-1, 3), Range(0, -1)} {
		if _, err := SliceToInterval(s); !errors.Is(err, ErrUnsupportedSlice) {
			t.Errorf("SliceToInterval(%s): expected ErrUnsupportedSlice, got %v", s, err)
		}
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name         string
		outer, inner Interval
		want         Interval
	}{
		{"both unbounded", Unbounded(2), Unbounded(3), Unbounded(5)},
		{"outer bounded", New(2, 8), Unbounded(1), New(3, 8)},
		{"inner bounded", Unbounded(2), New(1, 4), New(3, 6)},
		{"inner tighter", New(2, 8), New(1, 3), New(3, 5)},
		{"outer tighter", New(2, 4), New(1, 10), New(3, 4)},
		{"zero offsets", Unbounded(0), New(0, 0), New(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.outer, tt.inner); got != tt.want {
				t.Errorf("Compose(%s, %s) = %s, want %s", tt.outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		iv   Interval
		n    int
		want int
	}{
		{Unbounded(0), 4, 4},
		{Unbounded(3), 4, 1},
		{Unbounded(6), 4, 0},
		{New(1, 3), 4, 2},
		{New(1, 10), 4, 3},
		{New(3, 1), 4, 0},
		{New(0, 0), 4, 0},
	}

	for _, tt := range tests {
		if got := tt.iv.Len(tt.n); got != tt.want {
			t.Errorf("%s.Len(%d) = %d, want %d", tt.iv, tt.n, got, tt.want)
		}
	}
}

// Composing then measuring must agree with measuring a window of a window.
func TestComposeLaw(t *testing.T) {
	const n = 7
	for p := 0; p <= n; p++ {
		for q := p; q <= n; q++ {
			outer := New(p, q)
			for r := 0; r <= q-p; r++ {
				for s := r; s <= q-p; s++ {
					got := Compose(outer, New(r, s))
					want := New(p+r, min(q, p+s))
					if got != want {
						t.Fatalf("Compose(%s, [%d, %d)) = %s, want %s", outer, r, s, got, want)
					}
					if got.Len(n) != s-r {
						t.Fatalf("Len of %s = %d, want %d", got, got.Len(n), s-r)
					}
				}
			}
		}
	}
}

func TestContains(t *testing.T) {
	iv := New(1, 3)
	for i, want := range []bool{false, true, true, false, false} {
		if got := iv.Contains(i, 4); got != want {
			t.Errorf("%s.Contains(%d, 4) = %v, want %v", iv, i, got, want)
		}
	}
}
