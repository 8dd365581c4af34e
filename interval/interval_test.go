package interval

import (
	"fmt"
	"testing"
)

func TestIntervalSet_Add(t *testing.T) {
	tests := []struct {
		ranges [][]int
		want   string
	}{
		{
			ranges: [][]int{{5, 9}},
			want:   "{5..9}",
		},
		{
			ranges: [][]int{{5, 9}, {1, 2}},
			want:   "{1..2, 5..9}",
		},
		{
			// Adjacent ranges collapse into one.
			ranges: [][]int{{5, 9}, {10, 12}},
			want:   "{5..12}",
		},
		{
			ranges: [][]int{{5, 9}, {1, 4}},
			want:   "{1..9}",
		},
		{
			// An overlapping range swallows its neighbors.
			ranges: [][]int{{1, 2}, {5, 6}, {9, 10}, {3, 8}},
			want:   "{1..10}",
		},
		{
			ranges: [][]int{{1, 10}, {3, 5}},
			want:   "{1..10}",
		},
		{
			ranges: [][]int{{7, 7}, {3, 3}, {5, 5}},
			want:   "{3, 5, 7}",
		},
		{
			// An inverted range is a no-op.
			ranges: [][]int{{5, 3}},
			want:   "{}",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			s := NewIntervalSet()
			for _, r := range tt.ranges {
				s.AddRange(r[0], r[1])
			}
			if s.String() != tt.want {
				t.Fatalf("unexpected set; want: %v, got: %v", tt.want, s)
			}
		})
	}
}

func TestIntervalSet_Contains(t *testing.T) {
	s := NewIntervalSet()
	s.AddRange(3, 5)
	s.AddRange(10, 20)
	for _, v := range []int{3, 4, 5, 10, 15, 20} {
		if !s.Contains(v) {
			t.Fatalf("%v must be contained in %v", v, s)
		}
	}
	for _, v := range []int{2, 6, 9, 21, -1} {
		if s.Contains(v) {
			t.Fatalf("%v must not be contained in %v", v, s)
		}
	}
}

func TestIntervalSet_Complement(t *testing.T) {
	tests := []struct {
		ranges   [][]int
		min, max int
		want     string
	}{
		{
			ranges: [][]int{{3, 5}},
			min:    0, max: 10,
			want: "{0..2, 6..10}",
		},
		{
			ranges: [][]int{{0, 10}},
			min:    0, max: 10,
			want: "{}",
		},
		{
			ranges: [][]int{},
			min:    0, max: 3,
			want: "{0..3}",
		},
		{
			// Elements outside the universe are ignored.
			ranges: [][]int{{0, 2}, {8, 20}},
			min:    5, max: 10,
			want: "{5..7}",
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			s := NewIntervalSet()
			for _, r := range tt.ranges {
				s.AddRange(r[0], r[1])
			}
			c := s.Complement(tt.min, tt.max)
			if c.String() != tt.want {
				t.Fatalf("unexpected complement; want: %v, got: %v", tt.want, c)
			}
		})
	}
}

func TestIntervalSet_ComplementRoundTrip(t *testing.T) {
	s := NewIntervalSet()
	s.AddRange(2, 4)
	s.AddOne(9)
	s.AddRange(20, 30)

	cc := s.Complement(0, 100).Complement(0, 100)
	if !s.Equal(cc) {
		t.Fatalf("double complement must restore the set; want: %v, got: %v", s, cc)
	}

	if x := s.And(s.Complement(0, 100)); !x.IsEmpty() {
		t.Fatalf("a set intersected with its complement must be empty; got: %v", x)
	}
}

func TestIntervalSet_SetOperations(t *testing.T) {
	a := NewIntervalSet()
	a.AddRange(1, 5)
	a.AddRange(10, 15)
	b := NewIntervalSet()
	b.AddRange(4, 11)

	if got := a.Or(b).String(); got != "{1..15}" {
		t.Fatalf("unexpected union; want: {1..15}, got: %v", got)
	}
	if got := a.And(b).String(); got != "{4..5, 10..11}" {
		t.Fatalf("unexpected intersection; want: {4..5, 10..11}, got: %v", got)
	}
	if got := a.Subtract(b).String(); got != "{1..3, 12..15}" {
		t.Fatalf("unexpected difference; want: {1..3, 12..15}, got: %v", got)
	}

	// x ∈ a∪b ⇔ x ∈ a or x ∈ b over a window covering both sets.
	u := a.Or(b)
	for x := 0; x <= 20; x++ {
		if u.Contains(x) != (a.Contains(x) || b.Contains(x)) {
			t.Fatalf("union membership mismatch at %v", x)
		}
	}
}

func TestIntervalSet_SizeAndMin(t *testing.T) {
	s := NewIntervalSet()
	if _, ok := s.MinElement(); ok {
		t.Fatalf("an empty set must not have a minimum element")
	}
	s.AddRange(7, 9)
	s.AddOne(3)
	if got := s.Size(); got != 4 {
		t.Fatalf("unexpected size; want: 4, got: %v", got)
	}
	min, ok := s.MinElement()
	if !ok || min != 3 {
		t.Fatalf("unexpected minimum element; want: 3, got: %v", min)
	}
	max, ok := s.MaxElement()
	if !ok || max != 9 {
		t.Fatalf("unexpected maximum element; want: 9, got: %v", max)
	}
}

func TestIntervalSet_ReadOnly(t *testing.T) {
	s := NewIntervalSet()
	s.AddOne(1)
	s.SetReadOnly()
	defer func() {
		if recover() == nil {
			t.Fatalf("mutating a read-only set must panic")
		}
	}()
	s.AddOne(2)
}
