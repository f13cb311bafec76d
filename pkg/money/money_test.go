package money

import (
	"math"
	"testing"
)

func TestToCentsRoundsHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.004, 0},
		{0.005, 1},
		{1.005, 101},
		{10.994, 1099},
		{10.995, 1100},
		{100, 10000},
		{19.99, 1999},
	}
	for _, tc := range cases {
		if got := ToCents(tc.in); got != tc.want {
			t.Fatalf("ToCents(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToCentsNonFinite(t *testing.T) {
	if got := ToCents(math.NaN()); got != 0 {
		t.Fatalf("ToCents(NaN) = %d, want 0", got)
	}
	if got := ToCents(math.Inf(1)); got != 0 {
		t.Fatalf("ToCents(+Inf) = %d, want 0", got)
	}
}

func TestFromCentsRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 1999, 123456} {
		if got := ToCents(FromCents(cents)); got != cents {
			t.Fatalf("round trip of %d cents produced %d", cents, got)
		}
	}
}

func TestNormalizeRate(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.20, 0.20},
		{20, 0.20},
		{1, 1},
		{100, 1},
		{150, 1},
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := NormalizeRate(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("NormalizeRate(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestShare(t *testing.T) {
	if got := Share(10000, 0.15); got != 1500 {
		t.Fatalf("Share(10000, 0.15) = %d, want 1500", got)
	}
	if got := Share(999, 0.05); got != 50 {
		t.Fatalf("Share(999, 0.05) = %d, want 50", got)
	}
}
