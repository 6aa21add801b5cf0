package htmlext

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/span"
)

func TestExtractInterpolation(t *testing.T) {
	// S1 from spec.md: <p>${message}</p>, offset 5 sits inside 'message'.
	html := `<p>${message}</p>`
	res := Extract(html)

	require.Len(t, res.Expressions, 1)
	e := res.Expressions[0]
	require.Equal(t, Interpolation, e.Kind)
	require.Equal(t, "message", e.Text)
	require.Equal(t, span.Range{Start: 5, End: 12}, e.HTMLSpan)
	require.True(t, e.HTMLSpan.Contains(5))
}

func TestExtractEmptyInterpolation(t *testing.T) {
	res := Extract(`<p>${}</p>`)
	require.Len(t, res.Expressions, 1)
	require.Equal(t, "", res.Expressions[0].Text)
	require.True(t, res.Expressions[0].HTMLSpan.IsEmpty())
}

func TestExtractUnclosedInterpolationIgnored(t *testing.T) {
	res := Extract(`<p>${oops</p>`)
	require.Empty(t, res.Expressions)
}

func TestExtractBindingEmptyValue(t *testing.T) {
	// S2 from spec.md
	res := Extract(`<input value.bind="">`)
	require.Len(t, res.Expressions, 1)
	e := res.Expressions[0]
	require.Equal(t, Binding, e.Kind)
	require.Equal(t, "bind", e.Command)
	require.True(t, e.HTMLSpan.IsEmpty())
	require.Equal(t, 19, e.HTMLSpan.Start)
}

func TestExtractBindingWithValue(t *testing.T) {
	res := Extract(`<my-input count.bind="name">`)
	require.Len(t, res.Expressions, 1)
	e := res.Expressions[0]
	require.Equal(t, "count.bind", e.AttributeName)
	require.Equal(t, "my-input", e.ElementTag)
	require.Equal(t, "name", e.Text)
}

func TestExtractNonAureliaAttributeIgnored(t *testing.T) {
	res := Extract(`<input type="text" value.bind="x">`)
	require.Len(t, res.Expressions, 1)
	require.Equal(t, "value.bind", res.Expressions[0].AttributeName)
}

func TestExtractUnquotedAttributeSkipped(t *testing.T) {
	res := Extract(`<input value.bind=x>`)
	require.Empty(t, res.Expressions)
}

func TestExtractTemplateController(t *testing.T) {
	res := Extract(`<div if.bind="show"></div>`)
	require.Len(t, res.Expressions, 1)
	require.Equal(t, "bind", res.Expressions[0].Command)
}

func TestExtractBareTemplateController(t *testing.T) {
	res := Extract(`<div repeat.for="item of items"></div>`)
	require.Len(t, res.Expressions, 1)
	require.Equal(t, "for", res.Expressions[0].Command)
	require.Equal(t, "item of items", res.Expressions[0].Text)
}

func TestExtractPipeExpression(t *testing.T) {
	// S3 from spec.md
	res := Extract(`<p>${name | upper : 2}</p>`)
	require.Len(t, res.Expressions, 1)
	require.Equal(t, "name | upper : 2", res.Expressions[0].Text)
}

func TestExtractTagRangesStartAndEnd(t *testing.T) {
	res := Extract(`<my-input></my-input>`)
	require.Len(t, res.Tags, 1)
	tag := res.Tags[0]
	require.Equal(t, "my-input", tag.Name)
	require.NotNil(t, tag.EndTagRange)
	require.Equal(t, span.Range{Start: 1, End: 9}, tag.StartTagRange)
	require.Equal(t, span.Range{Start: 12, End: 20}, *tag.EndTagRange)
}

func TestExtractVoidElementNoEndTag(t *testing.T) {
	res := Extract(`<img src="x.png">`)
	require.Len(t, res.Tags, 1)
	require.Nil(t, res.Tags[0].EndTagRange)
}

func TestExtractOrderedByStart(t *testing.T) {
	res := Extract(`<p value.bind="a">${b}</p>`)
	require.Len(t, res.Expressions, 2)
	require.True(t, res.Expressions[0].HTMLSpan.Start < res.Expressions[1].HTMLSpan.Start)
}

func TestIsAureliaAttribute(t *testing.T) {
	cases := map[string]bool{
		"value.bind":   true,
		"click.trigger": true,
		"repeat.for":   true,
		"if":           true,
		"ref":          true,
		"element.ref":  true,
		"custom.thing":  true,
		"type":         false,
		"class":        false,
		"id":           false,
	}
	for name, want := range cases {
		if got := IsAureliaAttribute(name); got != want {
			t.Errorf("IsAureliaAttribute(%q) = %v, want %v", name, got, want)
		}
	}
}
