package compindex

import (
	"regexp"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/span"
)

// The framework's view-model sources are TypeScript-like; we don't carry a
// full TS parser (none of the example pack's complete repos ships one —
// see DESIGN.md), so discovery works the way a quick, tolerant
// decorator-and-class scanner would: a handful of regexes over the raw
// source text, in the spirit of chtml/interpol.go's own hand-rolled lexer
// rather than a structural parse.

// reClassDecl finds a class declaration together with any decorator calls
// immediately preceding it (across newlines, hence (?s) for the gap).
var reClassDecl = regexp.MustCompile(`(?s)((?:@[A-Za-z_$][\w$]*\s*(?:\([^)]*\))?\s*)*)(?:export\s+)?(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`)

// reDecoratorCall captures one decorator's name and its parenthesized
// argument text (if any).
var reDecoratorCall = regexp.MustCompile(`@([A-Za-z_$][\w$]*)(?:\(([^)]*)\))?`)

// reStringLiteral matches a single- or double-quoted string literal,
// capturing its contents.
var reStringLiteral = regexp.MustCompile(`^\s*['"]([^'"]*)['"]\s*$`)

// reNameProperty finds a `name: '...'` (or "...") entry inside an object
// literal decorator argument.
var reNameProperty = regexp.MustCompile(`\bname\s*:\s*['"]([^'"]*)['"]`)

// reAttributeProperty finds an `attribute: '...'` entry inside a @bindable
// object literal argument.
var reAttributeProperty = regexp.MustCompile(`\battribute\s*:\s*['"]([^'"]*)['"]`)

// reBindableProp finds a @bindable decorator (bare or called) immediately
// preceding a class property declaration.
var reBindableProp = regexp.MustCompile(`(?s)@bindable(?:\(([^)]*)\))?\s*\n?\s*(?:(?:public|private|protected|readonly)\s+)*([A-Za-z_$][\w$]*)\s*[?!]?\s*[:=;(]`)

// classDecl is one discovered class declaration in a source file.
type classDecl struct {
	decoratorText string
	name          string
	nameRange     span.Range // byte range of the class identifier itself
	bodyStart     int        // byte offset just after the opening "{" of the class body
	bodyEnd       int        // byte offset of the matching closing "}", or len(source)
}

// findClasses locates every class declaration in source along with the
// span of its body, so bindable scanning can be scoped per-class.
func findClasses(source string) []classDecl {
	matches := reClassDecl.FindAllStringSubmatchIndex(source, -1)
	var out []classDecl
	for _, m := range matches {
		decorators := source[m[2]:m[3]]
		name := source[m[4]:m[5]]

		// Find the opening "{" of the class body starting after the name,
		// then the matching "}" via simple brace counting.
		open := strings.IndexByte(source[m[5]:], '{')
		if open == -1 {
			continue
		}
		bodyStart := m[5] + open + 1
		bodyEnd := matchClosingBrace(source, bodyStart)

		out = append(out, classDecl{
			decoratorText: decorators,
			name:          name,
			nameRange:     span.Range{Start: m[4], End: m[5]},
			bodyStart:     bodyStart,
			bodyEnd:       bodyEnd,
		})
	}
	return out
}

// matchClosingBrace returns the offset of the "}" matching the "{" assumed
// to have just been consumed at bodyStart-1, tolerating nested braces and
// string/template literals well enough for typical view-model sources.
func matchClosingBrace(source string, bodyStart int) int {
	depth := 1
	i := bodyStart
	for i < len(source) {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'', '`':
			quote := source[i]
			i++
			for i < len(source) && source[i] != quote {
				if source[i] == '\\' {
					i++
				}
				i++
			}
		}
		i++
	}
	return len(source)
}

// decoratorArg extracts the name/kind a single framework decorator
// (customElement, customAttribute, valueConverter) implies, given its raw
// argument text (possibly empty). ok is false when no matching decorator
// was present in decoratorText.
func decoratorArg(decoratorText, decoratorName string) (arg string, ok bool) {
	for _, m := range reDecoratorCall.FindAllStringSubmatch(decoratorText, -1) {
		if m[1] == decoratorName {
			return m[2], true
		}
	}
	return "", false
}

// resolveExplicitName interprets a decorator argument as either a string
// literal or an object literal with a name: '...' property. Returns
// ("", false) when the argument doesn't resolve to an explicit name (e.g.
// it was empty, or an object literal without a name property).
func resolveExplicitName(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", false
	}
	if m := reStringLiteral.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if m := reNameProperty.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	return "", false
}

// bindablesOf scans a class body for @bindable property declarations.
func bindablesOf(source string, c classDecl) []Bindable {
	body := source[c.bodyStart:c.bodyEnd]
	var out []Bindable
	for _, m := range reBindableProp.FindAllStringSubmatchIndex(body, -1) {
		argText := submatchString(body, m, 1)
		propName := submatchString(body, m, 2)
		b := Bindable{
			PropertyName:  propName,
			PropertyRange: span.Range{Start: c.bodyStart + m[4], End: c.bodyStart + m[5]},
		}
		if attr, ok := resolveExplicitAttribute(argText); ok {
			b.AttributeName = attr
		}
		out = append(out, b)
	}
	return out
}

// submatchString returns regex submatch group n's text from s, or "" if the
// group didn't participate in the match (its indices are -1).
func submatchString(s string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return s[lo:hi]
}

// resolveExplicitAttribute interprets a @bindable(...) argument as either
// a bare string literal attribute name, or an object literal's
// attribute: '...' property.
func resolveExplicitAttribute(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", false
	}
	if m := reStringLiteral.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if m := reAttributeProperty.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	return "", false
}
