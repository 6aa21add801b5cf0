// Package span holds the byte-range type shared by every layer of the
// virtual shadow document engine: extraction, the component index, shadow
// synthesis and the mapping algebra, and the feature translation layer all
// pass ranges around as plain (start, end) byte offsets into some buffer.
package span

import "fmt"

// Range is a half-open byte range [Start, End) into some buffer. The buffer
// it refers to (HTML source, shadow text) is implied by context, not carried
// on the value itself.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int { return r.End - r.Start }

// IsEmpty reports whether the range covers zero bytes.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// Contains reports whether offset o falls within [Start, End).
func (r Range) Contains(o int) bool { return o >= r.Start && o < r.End }

// ContainsClosed reports whether offset o falls within [Start, End], i.e.
// treats End as inclusive. Used for check-ranges where a cursor sitting
// exactly at the closing delimiter should still count as "inside".
func (r Range) ContainsClosed(o int) bool { return o >= r.Start && o <= r.End }

// ContainsRange reports whether r fully contains other.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Shift returns r translated by delta bytes.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// Expand returns r grown by before bytes on the left and after bytes on the
// right (used for the interpolation check-range's ±2 nudge past ${ / }).
func (r Range) Expand(before, after int) Range {
	return Range{Start: r.Start - before, End: r.End + after}
}

// Clamp confines offset o to [r.Start, r.End].
func (r Range) Clamp(o int) int {
	if o < r.Start {
		return r.Start
	}
	if o > r.End {
		return r.End
	}
	return o
}

// ClampRange confines other into r, preserving other.Start <= other.End.
func (r Range) ClampRange(other Range) Range {
	start := r.Clamp(other.Start)
	end := r.Clamp(other.End)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Before reports whether r ends at or before other starts, i.e. the two
// ranges are disjoint with r entirely to the left.
func (r Range) Before(other Range) bool {
	return r.End <= other.Start
}
