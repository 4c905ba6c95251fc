// Package interval implements sets of disjoint half-open integer intervals.
//
// A Set is a value: every operation returns a new Set and leaves its receiver
// untouched, so a Set can be shared freely between readers.
package interval

import (
	"fmt"
	"sort"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len is the number of integers in the interval, zero when empty.
func (i Interval) Len() int {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

func (i Interval) Empty() bool { return i.End <= i.Start }

func (i Interval) Contains(x int) bool { return i.Start <= x && x < i.End }

func (i Interval) String() string { return fmt.Sprintf("[%d,%d)", i.Start, i.End) }

// Set is a sorted collection of disjoint, non-empty, non-adjacent intervals.
type Set struct {
	ivs []Interval
}

// Span returns the set holding the single interval [start, end).
func Span(start, end int) Set {
	if end <= start {
		return Set{}
	}
	return Set{ivs: []Interval{{Start: start, End: end}}}
}

// NewSet normalizes ivs into a Set: empties are dropped, overlapping and
// adjacent intervals are merged.
func NewSet(ivs ...Interval) Set {
	work := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if !iv.Empty() {
			work = append(work, iv)
		}
	}
	sort.Slice(work, func(i, j int) bool { return work[i].Start < work[j].Start })
	out := work[:0]
	for _, iv := range work {
		if n := len(out); n > 0 && iv.Start <= out[n-1].End {
			if iv.End > out[n-1].End {
				out[n-1].End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return Set{ivs: out}
}

// Chop returns s with [start, end) removed.
func (s Set) Chop(start, end int) Set {
	if end <= start {
		return s.Clone()
	}
	out := make([]Interval, 0, len(s.ivs)+1)
	for _, iv := range s.ivs {
		if iv.End <= start || iv.Start >= end {
			out = append(out, iv)
			continue
		}
		if iv.Start < start {
			out = append(out, Interval{Start: iv.Start, End: start})
		}
		if end < iv.End {
			out = append(out, Interval{Start: end, End: iv.End})
		}
	}
	return Set{ivs: out}
}

// Trim removes [0, pre) and [length-post, length) so that every remaining
// x has pre integers before it and post integers after it inside [0, length).
func (s Set) Trim(pre, post, length int) Set {
	out := s.Chop(0, pre)
	if post > 0 {
		out = out.Chop(length-post, length)
	}
	return out
}

// Clone returns a copy sharing no storage with s.
func (s Set) Clone() Set {
	if len(s.ivs) == 0 {
		return Set{}
	}
	out := make([]Interval, len(s.ivs))
	copy(out, s.ivs)
	return Set{ivs: out}
}

// Intervals returns a copy of the intervals in ascending order.
func (s Set) Intervals() []Interval {
	return s.Clone().ivs
}

// Count is the number of intervals.
func (s Set) Count() int { return len(s.ivs) }

// Size is the number of integers covered.
func (s Set) Size() int {
	n := 0
	for _, iv := range s.ivs {
		n += iv.Len()
	}
	return n
}

func (s Set) Empty() bool { return len(s.ivs) == 0 }

// Contains reports whether x lies in any interval.
func (s Set) Contains(x int) bool {
	i := sort.Search(len(s.ivs), func(i int) bool { return s.ivs[i].End > x })
	return i < len(s.ivs) && s.ivs[i].Start <= x
}

func (s Set) String() string { return fmt.Sprint(s.ivs) }
