package htmlext

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/aurelia-tools/aurelia-ls/span"
)

// extractInterpolations scans a text-node's raw source bytes for ${...}
// patterns, greedy to the first "}", allowing an empty body. raw is the
// literal source text (not HTML-unescaped: offsets must line up with the
// original buffer), start is raw's offset within the full document.
func extractInterpolations(raw []byte, start int, out *[]Expression) {
	s := string(raw)
	i := 0
	for {
		open := strings.Index(s[i:], "${")
		if open == -1 {
			return
		}
		open += i
		bodyStart := open + 2
		close := strings.IndexByte(s[bodyStart:], '}')
		if close == -1 {
			// Unclosed interpolation: ignored past end of text.
			return
		}
		close += bodyStart

		*out = append(*out, Expression{
			Kind: Interpolation,
			Text: s[bodyStart:close],
			HTMLSpan: span.Range{
				Start: start + bodyStart,
				End:   start + close,
			},
		})
		i = close + 1
	}
}

// tagNameRange finds the byte range of the tag name within a raw start or
// end tag token, e.g. the "div" in "<div " or "</div>".
func tagNameRange(raw []byte, start int, isEndTag bool) span.Range {
	pos := 0
	if pos < len(raw) && raw[pos] == '<' {
		pos++
	}
	if isEndTag && pos < len(raw) && raw[pos] == '/' {
		pos++
	}
	nameStart := pos
	for pos < len(raw) && !isAttrSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
		pos++
	}
	return span.Range{Start: start + nameStart, End: start + pos}
}

// extractAttrBindings emits a Binding expression for every Aurelia
// attribute on the current start/self-closing tag token. z must still be
// positioned at the tag whose raw bytes are raw; its Token() attribute
// order matches the order the raw bytes scan will walk in.
func extractAttrBindings(z *html.Tokenizer, raw []byte, start int, tagName string, out *[]Expression) {
	tok := z.Token()
	spans := scanAttributeValueSpans(raw, start, tok.Attr)

	for _, a := range tok.Attr {
		if !IsAureliaAttribute(a.Key) {
			continue
		}
		as, ok := spans[a.Key]
		if !ok {
			// Quoting was malformed enough that we couldn't locate a
			// value span at all; skip per the "unmappable" edge case.
			continue
		}

		expr := Expression{
			Kind:              Binding,
			Command:           Command(a.Key),
			AttributeName:     a.Key,
			AttributeNameSpan: as.nameRng,
			ElementTag:        tagName,
			HTMLSpan:          as.rng,
		}
		if as.hasValue {
			expr.Text = a.Val
		} else {
			expr.Text = "true"
		}
		*out = append(*out, expr)
	}
}

// attrSpan is the located value span for one attribute occurrence, plus the
// span of the attribute's own name.
type attrSpan struct {
	rng      span.Range
	nameRng  span.Range
	hasValue bool
}

// scanAttributeValueSpans walks the raw bytes of a start tag once, in
// document order, pairing each attribute name with the byte range of its
// value (the bytes strictly inside the surrounding quotes). Attributes
// with no "=" at all get an empty, zero-width span at their own position
// (their value is the synthetic boolean true). Attributes whose value is
// present but not quoted are skipped entirely — they're dropped from the
// returned map — since spec §4.A treats unquoted values as unmappable.
//
// attrs gives the expected attribute keys in document order (as parsed by
// the tokenizer's own Token(), which already discards duplicate names the
// way a browser would); we don't re-parse names ourselves, only values.
func scanAttributeValueSpans(raw []byte, baseOffset int, attrs []html.Attribute) map[string]attrSpan {
	result := make(map[string]attrSpan, len(attrs))
	pos := 0

	if pos < len(raw) && raw[pos] == '<' {
		pos++
	}
	for pos < len(raw) && !isAttrSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
		pos++
	}

	for _, a := range attrs {
		for pos < len(raw) && isAttrSpace(raw[pos]) {
			pos++
		}
		if pos >= len(raw) || raw[pos] == '>' || raw[pos] == '/' {
			break
		}

		nameStart := pos
		for pos < len(raw) && raw[pos] != '=' && !isAttrSpace(raw[pos]) && raw[pos] != '>' && raw[pos] != '/' {
			pos++
		}
		nameRng := span.Range{Start: baseOffset + nameStart, End: baseOffset + pos}

		for pos < len(raw) && isAttrSpace(raw[pos]) {
			pos++
		}

		if pos >= len(raw) || raw[pos] != '=' {
			// No value at all: boolean attribute, empty span at this spot.
			result[a.Key] = attrSpan{rng: span.Range{Start: baseOffset + pos, End: baseOffset + pos}, nameRng: nameRng}
			continue
		}
		pos++ // skip '='

		for pos < len(raw) && isAttrSpace(raw[pos]) {
			pos++
		}
		if pos >= len(raw) {
			break
		}

		if raw[pos] == '"' || raw[pos] == '\'' {
			quote := raw[pos]
			pos++
			valueStart := pos
			for pos < len(raw) && raw[pos] != quote {
				pos++
			}
			valueEnd := pos
			if pos < len(raw) {
				pos++ // skip closing quote
			}
			result[a.Key] = attrSpan{rng: span.Range{Start: baseOffset + valueStart, End: baseOffset + valueEnd}, nameRng: nameRng, hasValue: true}
		} else {
			// Unquoted value: skip, per spec's "attributes without
			// matching quotes are skipped" edge case.
			for pos < len(raw) && !isAttrSpace(raw[pos]) && raw[pos] != '>' {
				pos++
			}
		}
	}

	return result
}

func isAttrSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
