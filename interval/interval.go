package interval

import (
	"fmt"
	"strings"
)

// An Interval is a closed range of integers. Start and Stop are both
// inclusive, so the interval {a..a} contains exactly one element.
type Interval struct {
	Start int
	Stop  int
}

func NewInterval(start, stop int) Interval {
	return Interval{
		Start: start,
		Stop:  stop,
	}
}

func (i Interval) Contains(v int) bool {
	return v >= i.Start && v <= i.Stop
}

// Length returns the number of elements in the interval. An inverted
// interval has length 0.
func (i Interval) Length() int {
	if i.Stop < i.Start {
		return 0
	}
	return i.Stop - i.Start + 1
}

func (i Interval) String() string {
	if i.Start == i.Stop {
		return fmt.Sprintf("%v", i.Start)
	}
	return fmt.Sprintf("%v..%v", i.Start, i.Stop)
}

// An IntervalSet is an ordered set of integers represented as a list of
// closed intervals. The list is kept sorted by Start, and neighboring
// intervals are neither overlapping nor adjacent; every mutation
// re-establishes that form.
type IntervalSet struct {
	intervals []Interval
	readOnly  bool
}

func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// NewIntervalSetOf returns a set containing the single element v.
func NewIntervalSetOf(v int) *IntervalSet {
	s := NewIntervalSet()
	s.AddOne(v)
	return s
}

// NewIntervalSetOfRange returns a set containing the elements of {start..stop}.
func NewIntervalSetOfRange(start, stop int) *IntervalSet {
	s := NewIntervalSet()
	s.AddRange(start, stop)
	return s
}

// SetReadOnly freezes the set. Further mutations panic.
func (s *IntervalSet) SetReadOnly() {
	s.readOnly = true
}

func (s *IntervalSet) checkWritable() {
	if s.readOnly {
		panic("interval: mutation of a read-only interval set")
	}
}

func (s *IntervalSet) AddOne(v int) {
	s.AddRange(v, v)
}

func (s *IntervalSet) AddRange(start, stop int) {
	s.checkWritable()
	if stop < start {
		return
	}

	// Find the insertion point, then widen the new interval over every
	// existing interval it overlaps or touches.
	pos := 0
	for pos < len(s.intervals) && s.intervals[pos].Start < start {
		pos++
	}

	merged := NewInterval(start, stop)

	// Swallow a predecessor that reaches the new interval.
	if pos > 0 && s.intervals[pos-1].Stop+1 >= start {
		pos--
		if s.intervals[pos].Start < merged.Start {
			merged.Start = s.intervals[pos].Start
		}
		if s.intervals[pos].Stop > merged.Stop {
			merged.Stop = s.intervals[pos].Stop
		}
		s.intervals = append(s.intervals[:pos], s.intervals[pos+1:]...)
	}

	// Swallow successors the new interval reaches.
	for pos < len(s.intervals) && s.intervals[pos].Start <= merged.Stop+1 {
		if s.intervals[pos].Stop > merged.Stop {
			merged.Stop = s.intervals[pos].Stop
		}
		s.intervals = append(s.intervals[:pos], s.intervals[pos+1:]...)
	}

	s.intervals = append(s.intervals, Interval{})
	copy(s.intervals[pos+1:], s.intervals[pos:])
	s.intervals[pos] = merged
}

func (s *IntervalSet) AddSet(other *IntervalSet) {
	if other == nil {
		return
	}
	for _, i := range other.intervals {
		s.AddRange(i.Start, i.Stop)
	}
}

func (s *IntervalSet) Contains(v int) bool {
	// Binary search over the sorted interval list.
	lo, hi := 0, len(s.intervals)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		i := s.intervals[mid]
		switch {
		case v < i.Start:
			hi = mid - 1
		case v > i.Stop:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

func (s *IntervalSet) IsEmpty() bool {
	return len(s.intervals) == 0
}

// Size returns the number of elements across all intervals.
func (s *IntervalSet) Size() int {
	n := 0
	for _, i := range s.intervals {
		n += i.Length()
	}
	return n
}

// MinElement returns the smallest element. The second value reports
// whether the set was non-empty.
func (s *IntervalSet) MinElement() (int, bool) {
	if len(s.intervals) == 0 {
		return 0, false
	}
	return s.intervals[0].Start, true
}

// MaxElement returns the largest element. The second value reports
// whether the set was non-empty.
func (s *IntervalSet) MaxElement() (int, bool) {
	if len(s.intervals) == 0 {
		return 0, false
	}
	return s.intervals[len(s.intervals)-1].Stop, true
}

// Intervals returns the underlying interval list. The caller must not
// mutate it.
func (s *IntervalSet) Intervals() []Interval {
	return s.intervals
}

// Complement returns the elements of {min..max} not contained in s.
func (s *IntervalSet) Complement(min, max int) *IntervalSet {
	c := NewIntervalSet()
	next := min
	for _, i := range s.intervals {
		if i.Stop < min {
			continue
		}
		if i.Start > max {
			break
		}
		if i.Start > next {
			c.AddRange(next, i.Start-1)
		}
		if i.Stop+1 > next {
			next = i.Stop + 1
		}
	}
	if next <= max {
		c.AddRange(next, max)
	}
	return c
}

// Or returns the union of s and other as a new set.
func (s *IntervalSet) Or(other *IntervalSet) *IntervalSet {
	u := NewIntervalSet()
	u.AddSet(s)
	u.AddSet(other)
	return u
}

// And returns the intersection of s and other as a new set.
func (s *IntervalSet) And(other *IntervalSet) *IntervalSet {
	r := NewIntervalSet()
	if other == nil {
		return r
	}
	x, y := 0, 0
	for x < len(s.intervals) && y < len(other.intervals) {
		a := s.intervals[x]
		b := other.intervals[y]
		start := a.Start
		if b.Start > start {
			start = b.Start
		}
		stop := a.Stop
		if b.Stop < stop {
			stop = b.Stop
		}
		if start <= stop {
			r.AddRange(start, stop)
		}
		if a.Stop < b.Stop {
			x++
		} else {
			y++
		}
	}
	return r
}

// Subtract returns the elements of s not contained in other as a new set.
func (s *IntervalSet) Subtract(other *IntervalSet) *IntervalSet {
	r := NewIntervalSet()
	if other == nil || other.IsEmpty() {
		r.AddSet(s)
		return r
	}
	for _, a := range s.intervals {
		start := a.Start
		for _, b := range other.intervals {
			if b.Stop < start {
				continue
			}
			if b.Start > a.Stop {
				break
			}
			if b.Start > start {
				r.AddRange(start, b.Start-1)
			}
			if b.Stop+1 > start {
				start = b.Stop + 1
			}
		}
		if start <= a.Stop {
			r.AddRange(start, a.Stop)
		}
	}
	return r
}

func (s *IntervalSet) Equal(other *IntervalSet) bool {
	if other == nil || len(s.intervals) != len(other.intervals) {
		return false
	}
	for i, a := range s.intervals {
		if a != other.intervals[i] {
			return false
		}
	}
	return true
}

func (s *IntervalSet) String() string {
	return s.Format(nil)
}

// Format renders the set like {a..b, c}. When name is non-nil, it maps
// each element to a display name instead of a number.
func (s *IntervalSet) Format(name func(v int) string) string {
	if len(s.intervals) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{")
	for n, i := range s.intervals {
		if n > 0 {
			b.WriteString(", ")
		}
		if name != nil {
			for v := i.Start; v <= i.Stop; v++ {
				if v > i.Start {
					b.WriteString(", ")
				}
				b.WriteString(name(v))
			}
			continue
		}
		b.WriteString(i.String())
	}
	b.WriteString("}")
	return b.String()
}
