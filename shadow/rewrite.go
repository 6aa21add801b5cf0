package shadow

import (
	"regexp"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/span"
)

// identifierPattern matches identifier-like tokens, including a leading
// "$" so a token like "$this" is never mis-split into "$" + "this".
var identifierPattern = regexp.MustCompile(`[A-Za-z_$][A-Za-z0-9_$]*`)

// reservedWords are left verbatim even when they happen to match a
// view-model member name.
var reservedWords = map[string]struct{}{
	"this": {}, "true": {}, "false": {}, "null": {}, "undefined": {},
}

// localTransformation is a Transformation before its shadow-space offsets
// have been anchored to their final position in the full shadow text.
type localTransformation struct {
	htmlRange         span.Range // absolute, in the original HTML
	localShadowStart  int        // relative to the start of the rewritten body
	localShadowEnd    int
}

// splitPipe separates an expression's base (before the first "|") from its
// pipe suffix (from the first "|" onward, copied verbatim). Binding
// commands that encode converter arguments rely on the suffix surviving
// untouched.
func splitPipe(text string) (base, suffix string) {
	if i := strings.IndexByte(text, '|'); i >= 0 {
		return text[:i], text[i:]
	}
	return text, ""
}

// pipedConverterNames returns the value-converter names invoked by the
// expression's pipe suffix (one name per "|", since multiple pipes chain:
// "a | b | c" invokes both b and c).
func pipedConverterNames(text string) []string {
	_, suffix := splitPipe(text)
	if suffix == "" {
		return nil
	}
	var names []string
	for _, segment := range strings.Split(suffix, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if i := strings.IndexAny(segment, " \t:"); i >= 0 {
			segment = segment[:i]
		}
		if segment != "" {
			names = append(names, segment)
		}
	}
	return names
}

// rewriteBase rewrites every known-member identifier in base into
// "_this.<name>", leaving reserved words, unknown identifiers, and
// property-access targets (an identifier immediately following ".")
// untouched. htmlBase is the absolute HTML offset base corresponds to
// (i.e. the expression's HTMLSpan.Start). Returns the rewritten text and
// the list of transformations performed, with shadow offsets relative to
// the start of the returned text.
//
// Rewriting only ever touches identifiers, never attempts to parse the
// expression grammar itself — this is deliberate (spec §9 "Design
// Notes"): it keeps the mapping linear in the source and every
// transformation individually reversible.
func rewriteBase(base string, htmlBase int, isMember func(string) bool) (string, []localTransformation) {
	if base == "" {
		return "_this", nil
	}

	var out strings.Builder
	var transforms []localTransformation
	cursor := 0

	for _, m := range identifierPattern.FindAllStringIndex(base, -1) {
		start, end := m[0], m[1]
		word := base[start:end]

		precededByDot := start > 0 && base[start-1] == '.'
		_, reserved := reservedWords[word]

		if precededByDot || reserved || !isMember(word) {
			continue
		}

		out.WriteString(base[cursor:start])
		shadowStart := out.Len()
		out.WriteString("_this.")
		out.WriteString(word)
		shadowEnd := out.Len()
		cursor = end

		transforms = append(transforms, localTransformation{
			htmlRange:        span.Range{Start: htmlBase + start, End: htmlBase + end},
			localShadowStart: shadowStart,
			localShadowEnd:   shadowEnd,
		})
	}
	out.WriteString(base[cursor:])

	return out.String(), transforms
}
