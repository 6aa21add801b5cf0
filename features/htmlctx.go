package features

// htmlContext is the lightweight fragment-parse result spec §4.D's
// completion feature consults when the cursor is outside any expression:
// just enough to tell "before a tag name", "inside an opening tag's
// attribute area", and "after a command dot", without a full HTML parse.
type htmlContext struct {
	kind          contextKind
	enclosingTag  string // the element name of the opening tag the cursor is inside, if any
	afterDotOf    string // the attribute/bindable name immediately before a "." the cursor follows, if any
}

type contextKind int

const (
	contextNone contextKind = iota
	contextTagName
	contextAttributeArea
	contextAfterCommandDot
)

// classifyHTMLContext scans backward from offset over htmlText's raw bytes
// to classify the cursor's position, quote-aware: it never considers
// offsets inside a quoted attribute value (those are expression territory,
// handled by the active-mapping path, not this one).
func classifyHTMLContext(htmlText string, offset int) htmlContext {
	tagStart, inTag := enclosingOpenTagStart(htmlText, offset)
	if !inTag {
		return htmlContext{kind: contextNone}
	}

	// Cursor sits right after "<" (or "<" plus a partial tag name): tag-name
	// completion.
	nameEnd := tagStart + 1
	for nameEnd < len(htmlText) && isNameByte(htmlText[nameEnd]) {
		nameEnd++
	}
	if offset <= nameEnd {
		return htmlContext{kind: contextTagName}
	}

	tagName := htmlText[tagStart+1 : nameEnd]

	// "." immediately preceding the cursor, after a bare attribute/bindable
	// name: command-suffix completion.
	if name, ok := precedingDotAttributeName(htmlText, offset); ok {
		return htmlContext{kind: contextAfterCommandDot, enclosingTag: tagName, afterDotOf: name}
	}

	return htmlContext{kind: contextAttributeArea, enclosingTag: tagName}
}

// enclosingOpenTagStart finds the "<" of the nearest opening tag that
// offset falls inside (between the "<" and its, possibly absent, closing
// ">"), scanning backward and tracking quote state so a ">" inside a
// quoted attribute value doesn't falsely close the tag.
func enclosingOpenTagStart(htmlText string, offset int) (int, bool) {
	if offset > len(htmlText) {
		offset = len(htmlText)
	}
	inQuote := byte(0)
	for i := offset - 1; i >= 0; i-- {
		c := htmlText[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = c
		case '>':
			return 0, false
		case '<':
			if i+1 < len(htmlText) && htmlText[i+1] == '/' {
				return 0, false
			}
			return i, true
		}
	}
	return 0, false
}

// precedingDotAttributeName reports whether the cursor immediately follows
// "<name>." where name is a bare identifier-like token, returning that
// name.
func precedingDotAttributeName(htmlText string, offset int) (string, bool) {
	if offset == 0 || offset > len(htmlText) || htmlText[offset-1] != '.' {
		return "", false
	}
	end := offset - 1
	start := end
	for start > 0 && isNameByte(htmlText[start-1]) {
		start--
	}
	if start == end {
		return "", false
	}
	return htmlText[start:end], true
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// immediatelyAfterPipe reports whether the cursor (at offset within the
// expression's raw text, 0-based from the expression's own start) follows
// a "|", skipping intervening spaces — completion's value-converter-only
// trigger.
func immediatelyAfterPipe(exprText string, relOffset int) bool {
	i := relOffset - 1
	for i >= 0 && exprText[i] == ' ' {
		i--
	}
	return i >= 0 && exprText[i] == '|'
}
