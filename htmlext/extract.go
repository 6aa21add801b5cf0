// Package htmlext is the HTML Expression Extractor (spec §4.A): given an
// HTML source it deterministically finds every framework expression
// (interpolation or attribute binding) with exact byte offsets, plus the
// byte ranges of every element's start/end tag. Output is pure — the same
// input text always yields the same result — and the extractor never fails;
// a document the parser can't make sense of simply yields fewer results.
//
// The tokenizer is golang.org/x/net/html, the same one the teacher's
// chtml/parse.go builds its own recursive-descent parser on top of. We stay
// at the tokenizer level rather than building a full DOM: the extractor
// only needs flat, ordered spans, not a tree.
package htmlext

import (
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/aurelia-tools/aurelia-ls/span"
)

// ExpressionKind distinguishes an interpolation from an attribute binding.
type ExpressionKind int

const (
	Interpolation ExpressionKind = iota
	Binding
)

func (k ExpressionKind) String() string {
	if k == Interpolation {
		return "interpolation"
	}
	return "binding"
}

// Expression is one framework expression found in an HTML source, with its
// exact byte span in the original text. For a Binding, Command is the
// suffix after the attribute's command dot (see Command); for an
// Interpolation it is empty.
type Expression struct {
	Kind          ExpressionKind
	Command       string
	Text          string
	HTMLSpan      span.Range
	AttributeName string
	// AttributeNameSpan is the byte range of the full attribute name,
	// command included (e.g. "foo.bind" in foo.bind="..."), zero for an
	// Interpolation.
	AttributeNameSpan span.Range
	ElementTag        string
}

// TagRange is the byte span of one element's start tag, and of its end tag
// if one was found and paired with the start tag.
type TagRange struct {
	Name          string
	StartTagRange span.Range
	EndTagRange   *span.Range
}

// Result is the output of Extract.
type Result struct {
	Expressions []Expression
	Tags        []TagRange
}

type openTag struct {
	name  string
	index int // index into Result.Tags
}

// Extract scans htmlText and returns every expression and tag range it can
// find. It never returns an error: a parser that can't produce any tokens
// at all yields an empty Result, per spec §4.A.
func Extract(htmlText string) Result {
	z := html.NewTokenizer(strings.NewReader(htmlText))

	res := Result{}
	var stack []openTag
	pos := 0

	for {
		tt := z.Next()
		raw := z.Raw()
		start := pos
		pos += len(raw)

		switch tt {
		case html.ErrorToken:
			sortExpressions(res.Expressions)
			return res

		case html.TextToken:
			extractInterpolations(raw, start, &res.Expressions)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tagName := string(name)
			tagRange := tagNameRange(raw, start, false)

			res.Tags = append(res.Tags, TagRange{
				Name:          tagName,
				StartTagRange: tagRange,
			})
			idx := len(res.Tags) - 1

			extractAttrBindings(z, raw, start, tagName, &res.Expressions)

			if tt == html.StartTagToken && !IsVoidElement(tagName) {
				stack = append(stack, openTag{name: tagName, index: idx})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tagName := string(name)
			tagRange := tagNameRange(raw, start, true)

			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == tagName {
					end := tagRange
					res.Tags[stack[i].index].EndTagRange = &end
					stack = stack[:i]
					break
				}
			}
		}
	}
}

func sortExpressions(exprs []Expression) {
	sort.SliceStable(exprs, func(i, j int) bool {
		return exprs[i].HTMLSpan.Start < exprs[j].HTMLSpan.Start
	})
}
