package interval

import (
	"math"
	"reflect"
	"testing"
)

func TestIntervalContains(t *testing.T) {
	iv := Span(2, 5)

	cases := []struct {
		t    float64
		want bool
	}{
		{1.9, false},
		{2, true},
		{3.5, true},
		{5, false}, // half-open end
		{5.1, false},
	}
	for _, c := range cases {
		if got := iv.Contains(c.t); got != c.want {
			t.Errorf("Contains(%g) = %v, want %v", c.t, got, c.want)
		}
	}

	if !Always().Contains(1e12) {
		t.Error("Always should contain arbitrarily large times")
	}
	if Span(3, 3).Contains(3) {
		t.Error("empty interval should contain nothing")
	}
}

func TestIntervalOverlapsAndIntersect(t *testing.T) {
	a := Span(0, 5)
	b := Span(5, 10)
	if a.Overlaps(b) {
		t.Error("half-open intervals touching at 5 should not overlap")
	}

	c := Span(3, 7)
	if !a.Overlaps(c) {
		t.Error("[0,5) and [3,7) should overlap")
	}
	if got := a.Intersect(c); got != Span(3, 5) {
		t.Errorf("Intersect = %+v, want [3,5)", got)
	}
	if got := a.Intersect(b); !got.Empty() {
		t.Errorf("Intersect of touching intervals = %+v, want empty", got)
	}
}

func TestIntervalDuration(t *testing.T) {
	if got := Span(2, 7).Duration(); got != 5 {
		t.Errorf("Duration = %g, want 5", got)
	}
	if got := Span(7, 2).Duration(); got != 0 {
		t.Errorf("Duration of empty interval = %g, want 0", got)
	}
	if !math.IsInf(Always().Duration(), 1) {
		t.Error("unbounded interval should have infinite duration")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]Interval{
		Span(8, 9),
		Span(0, 3),
		Span(5, 5), // empty, dropped
		Span(2, 4), // overlaps [0,3)
		Span(4, 6), // touches [0,4), merged
	})
	want := Set{Span(0, 6), Span(8, 9)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}

	if Normalize(nil) != nil {
		t.Error("Normalize(nil) should be nil")
	}
}

func TestSetAtAndCovers(t *testing.T) {
	s := Set{Span(0, 3), Span(5, 8)}

	iv, ok := s.At(6)
	if !ok || iv != Span(5, 8) {
		t.Errorf("At(6) = %+v, %v, want [5,8), true", iv, ok)
	}
	if _, ok := s.At(4); ok {
		t.Error("At(4) should report no interval")
	}
	if _, ok := s.At(3); ok {
		t.Error("At(3) should miss the half-open end of [0,3)")
	}

	if !s.Covers(Span(5.5, 7)) {
		t.Error("[5.5,7) lies inside [5,8)")
	}
	if s.Covers(Span(2, 6)) {
		t.Error("[2,6) spans the gap, must not be covered")
	}
	if !s.Covers(Span(4, 4)) {
		t.Error("empty query is trivially covered")
	}
}

func TestNextStart(t *testing.T) {
	s := Set{Span(2, 4), Span(7, 9)}
	if start, ok := s.NextStart(5); !ok || start != 7 {
		t.Errorf("NextStart(5) = %g, %v, want 7, true", start, ok)
	}
	if start, ok := s.NextStart(2); !ok || start != 2 {
		t.Errorf("NextStart(2) = %g, %v, want 2, true", start, ok)
	}
	if _, ok := s.NextStart(10); ok {
		t.Error("NextStart past the set should report false")
	}
}

func TestIntersectSets(t *testing.T) {
	a := Set{Span(0, 5), Span(10, 20)}
	b := Set{Span(3, 12), Span(15, 30)}

	want := Set{Span(3, 5), Span(10, 12), Span(15, 20)}
	if got := Intersect(a, b); !reflect.DeepEqual(got, want) {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
	// Commutativity keeps environment folds order independent.
	if got := Intersect(b, a); !reflect.DeepEqual(got, want) {
		t.Errorf("Intersect reversed = %+v, want %+v", got, want)
	}

	if got := Intersect(a, nil); !got.Empty() {
		t.Errorf("Intersect with empty = %+v, want empty", got)
	}
}

func TestUnionSets(t *testing.T) {
	a := Set{Span(0, 3)}
	b := Set{Span(2, 5), Span(8, 9)}
	want := Set{Span(0, 5), Span(8, 9)}
	if got := Union(a, b); !reflect.DeepEqual(got, want) {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

func TestComplement(t *testing.T) {
	horizon := Span(0, 20)
	s := Set{Span(2, 4), Span(10, 12)}
	want := Set{Span(0, 2), Span(4, 10), Span(12, 20)}
	if got := Complement(s, horizon); !reflect.DeepEqual(got, want) {
		t.Errorf("Complement = %+v, want %+v", got, want)
	}

	if got := Complement(nil, horizon); !reflect.DeepEqual(got, Set{horizon}) {
		t.Errorf("Complement of empty = %+v, want full horizon", got)
	}

	// Blocked set covering the full horizon leaves nothing.
	if got := Complement(Set{Span(-5, 25)}, horizon); !got.Empty() {
		t.Errorf("Complement under full cover = %+v, want empty", got)
	}

	// Unbounded horizon keeps an unbounded tail.
	got := Complement(Set{Span(3, 6)}, Always())
	want = Set{Span(0, 3), Span(6, Forever)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Complement over Always = %+v, want %+v", got, want)
	}
}

func TestClip(t *testing.T) {
	s := Set{Span(0, 5), Span(8, Forever)}
	want := Set{Span(2, 5), Span(8, 10)}
	if got := s.Clip(Span(2, 10)); !reflect.DeepEqual(got, want) {
		t.Errorf("Clip = %+v, want %+v", got, want)
	}
}
