// Package shadow is the Shadow Synthesiser + Mapping Algebra (spec §4.C):
// for each view it builds a deterministic shadow TypeScript-surface buffer
// plus a reversible offset mapping between HTML bytes and shadow bytes,
// robust under the identifier rewrites the synthesiser performs.
package shadow

import (
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// Transformation is a single rewritten identifier inside one expression's
// placeholder. ShadowRange is longer than HTMLRange by OffsetDelta bytes:
// for the "_this." member prefix, OffsetDelta is always 6.
type Transformation struct {
	HTMLRange   span.Range
	ShadowRange span.Range
	OffsetDelta int
}

// ThisPrefixDelta is the byte length of the "_this." prefix every rewritten
// identifier gains.
const ThisPrefixDelta = len("_this.")

// Mapping links one extracted Expression to its place in the shadow text.
type Mapping struct {
	Expression       htmlext.Expression
	ShadowBlockRange span.Range
	ShadowValueRange span.Range
	Transformations  []Transformation
}

// CheckRange returns the HTML range a cursor must fall inside for this
// mapping to be "active" (spec §4.D): the expression's own span for a
// binding, or that span expanded by ±2 bytes for an interpolation, to
// reach across the ${ and } delimiters.
func (m Mapping) CheckRange() span.Range {
	if m.Expression.Kind == htmlext.Interpolation {
		return m.Expression.HTMLSpan.Expand(2, 2)
	}
	return m.Expression.HTMLSpan
}

// ViewMappings is the full synthesis result for one view.
type ViewMappings struct {
	ShadowURI          string
	ShadowVersion       int
	ShadowText          string
	ViewModelClassName  string
	ViewModelFsPath     string
	Mappings            []Mapping
	ElementTagRanges    []htmlext.TagRange
}

// ActiveMapping returns the mapping whose check-range contains HTML offset
// o, if any. ContainsClosed (not Contains) is deliberate: a cursor sitting
// exactly at the check-range's closing byte must still count as inside,
// the whole point of the ±2 expansion reaching across the ${ / } delimiter.
func (vm *ViewMappings) ActiveMapping(o int) (*Mapping, bool) {
	for i := range vm.Mappings {
		if vm.Mappings[i].CheckRange().ContainsClosed(o) {
			return &vm.Mappings[i], true
		}
	}
	return nil, false
}
