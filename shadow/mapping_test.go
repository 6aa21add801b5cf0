package shadow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// buildMapping constructs a Mapping by hand for algebra-level tests that
// don't need a full Synthesise pass: one expression spanning htmlSpan, one
// member identifier rewritten to "_this.<name>" starting relOffset bytes
// into the expression, living inside a value range of valueLen bytes.
func buildMapping(kind htmlext.ExpressionKind, htmlStart, htmlEnd, relOffset, identLen, valueStart, valueLen int) Mapping {
	htmlSpan := span.Range{Start: htmlStart, End: htmlEnd}
	valueRange := span.Range{Start: valueStart, End: valueStart + valueLen}

	var transforms []Transformation
	if identLen > 0 {
		transforms = []Transformation{{
			HTMLRange:   span.Range{Start: htmlStart + relOffset, End: htmlStart + relOffset + identLen},
			ShadowRange: span.Range{Start: valueStart + relOffset, End: valueStart + relOffset + identLen + ThisPrefixDelta},
			OffsetDelta: ThisPrefixDelta,
		}}
	}

	return Mapping{
		Expression:       htmlext.Expression{Kind: kind, HTMLSpan: htmlSpan},
		ShadowBlockRange: span.Range{Start: valueStart - 20, End: valueStart + valueLen + 3},
		ShadowValueRange: valueRange,
		Transformations:  transforms,
	}
}

func TestForwardInverseRoundTripInsideTransformation(t *testing.T) {
	// expression "message" at HTML [5,12), single member identifier
	// covering the whole expression, rewritten to "_this.message".
	m := buildMapping(htmlext.Interpolation, 5, 12, 0, 7, 100, 13)

	for o := 5; o < 12; o++ {
		shadowOffset := Forward(&m, o)
		require.True(t, m.ShadowValueRange.ContainsClosed(shadowOffset), "offset %d mapped out of value range: %d", o, shadowOffset)
		back := Inverse(&m, shadowOffset, shadowOffset)
		require.True(t, back.Contains(o), "offset %d round-tripped to %s", o, back)
	}
}

func TestInversePrefersTransformationRange(t *testing.T) {
	m := buildMapping(htmlext.Interpolation, 5, 12, 0, 7, 100, 13)

	tr := m.Transformations[0]
	got := Inverse(&m, tr.ShadowRange.Start, tr.ShadowRange.End)
	require.Equal(t, tr.HTMLRange, got)
}

func TestInverseClampedToExpressionSpan(t *testing.T) {
	m := buildMapping(htmlext.Binding, 19, 19, 0, 0, 50, 0)

	got := Inverse(&m, 50, 50)
	require.True(t, m.Expression.HTMLSpan.ContainsRange(got) || got == m.Expression.HTMLSpan)
}

func TestNudgeRuleOnlyAppliesToInterpolationAtStart(t *testing.T) {
	interp := buildMapping(htmlext.Interpolation, 5, 12, 0, 7, 100, 13)
	binding := buildMapping(htmlext.Binding, 19, 19, 0, 0, 50, 0)

	interpFwd := Forward(&interp, interp.Expression.HTMLSpan.Start)
	bindingFwd := Forward(&binding, binding.Expression.HTMLSpan.Start)

	// Interpolation at its span start nudges past the opening boundary;
	// binding (no nudge rule) lands exactly at the value range start.
	require.Equal(t, binding.ShadowValueRange.Start, bindingFwd)
	require.Equal(t, interp.ShadowValueRange.Start+1, interpFwd)
}

func TestTransformationShadowRangeContainedInValueRange(t *testing.T) {
	m := buildMapping(htmlext.Interpolation, 5, 20, 3, 4, 200, 15)
	for _, tr := range m.Transformations {
		require.True(t, m.ShadowValueRange.ContainsRange(tr.ShadowRange))
	}
}

func TestMappingsOrderedByHTMLStart(t *testing.T) {
	in := ViewInput{
		URI:                "a.html",
		HTMLText:           `<p>${a}</p><p>${b}</p>`,
		ViewModelFsPath:    "a.ts",
		ViewModelClassName: "A",
	}
	vm, err := Synthesise(context.Background(), in, compindex.New(), &fakeHost{}, NewMemberCache(), 0)
	require.NoError(t, err)
	require.Len(t, vm.Mappings, 2)
	for i := 1; i < len(vm.Mappings); i++ {
		require.True(t, vm.Mappings[i-1].Expression.HTMLSpan.Before(vm.Mappings[i].Expression.HTMLSpan) ||
			vm.Mappings[i-1].Expression.HTMLSpan.Start <= vm.Mappings[i].Expression.HTMLSpan.Start)
	}
}
