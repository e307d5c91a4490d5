// Package timeline defines the closed, ordered set of years the experience
// can show.
package timeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Year identifies one snapshot of the ocean.
type Year int

func (y Year) String() string {
	return strconv.Itoa(int(y))
}

var ErrUnknownYear = errors.New("timeline: unknown year")

// Timeline is an immutable ordered set of years.
type Timeline struct {
	years []Year
}

// Default is the full desktop sequence.
func Default() Timeline {
	return MustNew(2000, 2010, 2020, 2050)
}

// Gaze is the shorter sequence used by the hands-free build.
func Gaze() Timeline {
	return MustNew(2000, 2020, 2050)
}

// New builds a timeline. Years must be unique and there must be at least one.
func New(years ...Year) (Timeline, error) {
	if len(years) == 0 {
		return Timeline{}, errors.New("timeline: no years")
	}
	seen := make(map[Year]struct{}, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			return Timeline{}, fmt.Errorf("timeline: duplicate year %d", y)
		}
		seen[y] = struct{}{}
	}
	return Timeline{years: append([]Year(nil), years...)}, nil
}

func MustNew(years ...Year) Timeline {
	tl, err := New(years...)
	if err != nil {
		panic(err)
	}
	return tl
}

// Years returns a copy of the ordered years.
func (tl Timeline) Years() []Year {
	return append([]Year(nil), tl.years...)
}

func (tl Timeline) Len() int {
	return len(tl.years)
}

// First returns the initial year.
func (tl Timeline) First() Year {
	if len(tl.years) == 0 {
		return 0
	}
	return tl.years[0]
}

// Index returns the position of y, or -1.
func (tl Timeline) Index(y Year) int {
	for i, v := range tl.years {
		if v == y {
			return i
		}
	}
	return -1
}

func (tl Timeline) Contains(y Year) bool {
	return tl.Index(y) >= 0
}

// At returns the year at position i.
func (tl Timeline) At(i int) (Year, bool) {
	if i < 0 || i >= len(tl.years) {
		return 0, false
	}
	return tl.years[i], true
}

// Next returns the year after y, wrapping from the last back to the first.
func (tl Timeline) Next(y Year) (Year, error) {
	i := tl.Index(y)
	if i < 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownYear, y)
	}
	return tl.years[(i+1)%len(tl.years)], nil
}

// Prev returns the year before y, wrapping from the first to the last.
func (tl Timeline) Prev(y Year) (Year, error) {
	i := tl.Index(y)
	if i < 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnknownYear, y)
	}
	return tl.years[(i-1+len(tl.years))%len(tl.years)], nil
}

// Parse reads a year and checks membership.
func (tl Timeline) Parse(s string) (Year, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownYear, s)
	}
	y := Year(n)
	if !tl.Contains(y) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownYear, y)
	}
	return y, nil
}
