package shadow

import (
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// Forward maps an HTML byte offset o, assumed to lie inside m's expression
// span, to its corresponding offset in the shadow text, per spec §4.C's
// forward mapping algebra.
func Forward(m *Mapping, o int) int {
	rel := o - m.Expression.HTMLSpan.Start

	delta := 0
	for _, t := range m.Transformations {
		if t.HTMLRange.Start-m.Expression.HTMLSpan.Start < rel {
			delta += t.OffsetDelta
		}
	}

	shadowOffset := m.ShadowValueRange.Start + rel + delta
	shadowOffset = m.ShadowValueRange.Clamp(shadowOffset)

	// Nudge rule: an interpolation cursor sitting exactly at the start of
	// its (possibly empty) span is pushed one byte forward when that
	// keeps it inside the value range, aligning the empty-interpolation
	// case with the non-empty one.
	if m.Expression.Kind == htmlext.Interpolation && o == m.Expression.HTMLSpan.Start {
		if nudged := shadowOffset + 1; nudged <= m.ShadowValueRange.End {
			shadowOffset = nudged
		}
	}

	return shadowOffset
}

// Inverse maps a shadow span [vs, ve] that lies inside m back to an HTML
// range, per spec §4.C's inverse mapping algebra.
func Inverse(m *Mapping, vs, ve int) span.Range {
	// If vs falls strictly inside a transformation, that whole
	// transformation's HTML range is the natural token range — preferred
	// for references/hover highlighting regardless of where ve lands.
	for _, t := range m.Transformations {
		if vs >= t.ShadowRange.Start && vs < t.ShadowRange.End {
			return t.HTMLRange
		}
	}

	deltaStart := deltaFor(m, vs)
	deltaEnd := deltaFor(m, ve)

	base := m.Expression.HTMLSpan.Start
	vbase := m.ShadowValueRange.Start

	hs := base + (vs - vbase) - deltaStart
	he := base + (ve - vbase) - deltaEnd

	result := span.Range{Start: hs, End: he}
	if result.End < result.Start {
		result.End = result.Start
	}
	return m.Expression.HTMLSpan.ClampRange(result)
}

// deltaFor sums the OffsetDelta of every transformation whose shadow range
// has fully ended at or before offset o.
func deltaFor(m *Mapping, o int) int {
	delta := 0
	for _, t := range m.Transformations {
		if t.ShadowRange.End <= o {
			delta += t.OffsetDelta
		}
	}
	return delta
}
