package testhost

import (
	"regexp"
	"strings"
)

// reThisDecl matches the shadow preamble's "declare const _this: ClassName;"
// line the synthesiser always emits (shadow/synth.go writePreamble).
var reThisDecl = regexp.MustCompile(`declare const _this:\s*([A-Za-z_$][\w$]*)\s*;`)

// reExprBlock matches one synthesised expression statement, capturing its
// ordinal and its parenthesised body.
var reExprBlock = regexp.MustCompile(`(?s)const ___expr_(\d+) = \((.*?)\); // Origin: (\w+)`)

// classNameDeclaredIn extracts the view-model class name a shadow buffer's
// "_this" resolves to.
func classNameDeclaredIn(text string) (string, bool) {
	m := reThisDecl.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// exprBlock is one located "const ___expr_N = (body); // Origin: kind"
// statement within a shadow buffer.
type exprBlock struct {
	ordinal    int
	bodyStart  int // byte offset of body's first byte within text
	bodyEnd    int // byte offset just past body's last byte
	body       string
	origin     string
}

// exprBlocksIn locates every synthesised expression statement in text.
func exprBlocksIn(text string) []exprBlock {
	matches := reExprBlock.FindAllStringSubmatchIndex(text, -1)
	out := make([]exprBlock, 0, len(matches))
	for _, m := range matches {
		out = append(out, exprBlock{
			bodyStart: m[4],
			bodyEnd:   m[5],
			body:      text[m[4]:m[5]],
			origin:    text[m[6]:m[7]],
		})
	}
	return out
}

// exprBlockAt returns the expression block containing offset o, if any.
func exprBlockAt(text string, o int) (exprBlock, bool) {
	for _, b := range exprBlocksIn(text) {
		if o >= b.bodyStart && o <= b.bodyEnd {
			return b, true
		}
	}
	return exprBlock{}, false
}

// isIdentByte reports whether b can appear inside a bare identifier.
func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// identifierAt returns the identifier touching offset o in text (the word
// the cursor sits inside or immediately after), and its [start,end) range.
func identifierAt(text string, o int) (string, int, int) {
	if o < 0 || o > len(text) {
		return "", o, o
	}
	start := o
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	end := o
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	return text[start:end], start, end
}

// memberAccessAt reports whether the identifier at [start,end) in text is
// immediately preceded by "_this." — i.e. it's a rewritten member access
// rather than some other bare identifier (a keyword, a converter name).
func memberAccessAt(text string, start int) bool {
	const prefix = "_this."
	if start < len(prefix) {
		return false
	}
	return text[start-len(prefix):start] == prefix
}

// precedingDot reports whether the byte immediately before pos is ".".
func precedingDot(text string, pos int) bool {
	return pos > 0 && text[pos-1] == '.'
}

func trimmed(s string) string { return strings.TrimSpace(s) }
