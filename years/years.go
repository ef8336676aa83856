// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package years implements a set of calendar years and its compact textual
// form, as used in copyright lines ("2007, 2009-2011").
package years

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Set is a set of positive years. The zero value is an empty set ready to be read;
// use [Of] or [Set.Add] on a non-nil set to populate it.
type Set map[int]struct{}

// Of returns a set holding the given years.
func Of(ys ...int) Set {
	s := make(Set, len(ys))
	for _, y := range ys {
		s[y] = struct{}{}
	}
	return s
}

// Add adds y to the set.
func (s Set) Add(y int) { s[y] = struct{}{} }

// Contains reports whether y is in the set.
func (s Set) Contains(y int) bool {
	_, ok := s[y]
	return ok
}

// Union adds all years of other to s.
func (s Set) Union(other Set) {
	for y := range other {
		s[y] = struct{}{}
	}
}

// Clone returns a copy of s.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	maps.Copy(c, s)
	return c
}

// Equal reports whether s and other hold the same years.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for y := range s {
		if !other.Contains(y) {
			return false
		}
	}
	return true
}

// Sorted returns the years in ascending order.
func (s Set) Sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

// Min returns the smallest year in the set, or 0 if the set is empty.
func (s Set) Min() int {
	if len(s) == 0 {
		return 0
	}
	return slices.Min(slices.Collect(maps.Keys(s)))
}

// Max returns the largest year in the set, or 0 if the set is empty.
func (s Set) Max() int {
	if len(s) == 0 {
		return 0
	}
	return slices.Max(slices.Collect(maps.Keys(s)))
}

// String implements [fmt.Stringer] using [Format].
func (s Set) String() string { return Format(s) }

// Format renders the set as comma separated intervals. Runs of consecutive
// years collapse into "start-end":
//
//	{2007, 2009, 2010, 2011} -> "2007, 2009-2011"
func Format(s Set) string {
	type interval struct{ start, end int }
	var intervals []interval
	for _, y := range s.Sorted() {
		if n := len(intervals); n == 0 || y > intervals[n-1].end+1 {
			intervals = append(intervals, interval{start: y})
		}
		intervals[len(intervals)-1].end = y
	}

	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		if iv.start == iv.end {
			parts = append(parts, strconv.Itoa(iv.start))
			continue
		}
		parts = append(parts, strconv.Itoa(iv.start)+"-"+strconv.Itoa(iv.end))
	}
	return strings.Join(parts, ", ")
}

// ParseError is returned by [Parse] when a token is not a year or a range of
// years.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid year %q", e.Token)
	}
	return fmt.Sprintf("invalid year %q: %v", e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MaxSpan is the largest number of years a single "a-b" range may cover.
const MaxSpan = 1000

// ErrOutOfRange is wrapped by a [ParseError] for years below 1 and for ranges
// longer than [MaxSpan].
var ErrOutOfRange = errors.New("out of range")

// Parse parses the form produced by [Format] for sets of positive years.
// Tokens are separated by commas and may be surrounded by spaces; "a-b"
// expands to every year from a to b inclusive.
func Parse(text string) (Set, error) {
	s := make(Set)
	for tok := range strings.SplitSeq(text, ",") {
		tok = strings.TrimSpace(tok)
		left, right, isRange := strings.Cut(tok, "-")
		if !isRange {
			y, err := parseYear(tok)
			if err != nil {
				return nil, &ParseError{Token: tok, Err: err}
			}
			s.Add(y)
			continue
		}
		start, err := parseYear(strings.TrimSpace(left))
		if err != nil {
			return nil, &ParseError{Token: tok, Err: err}
		}
		end, err := parseYear(strings.TrimSpace(right))
		if err != nil {
			return nil, &ParseError{Token: tok, Err: err}
		}
		if end < start {
			return nil, &ParseError{Token: tok}
		}
		if end-start >= MaxSpan {
			return nil, &ParseError{Token: tok, Err: ErrOutOfRange}
		}
		for y := start; y <= end; y++ {
			s.Add(y)
		}
	}
	return s, nil
}

func parseYear(tok string) (int, error) {
	y, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	if y < 1 {
		return 0, ErrOutOfRange
	}
	return y, nil
}
