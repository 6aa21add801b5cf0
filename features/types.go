// Package features is the Feature Translation Layer (spec §4.D): it
// reshapes editor-style requests (completion, hover, definition,
// references, rename, diagnostics, code actions, semantic tokens,
// signature help) into calls against an Analysis Host over a view's
// shadow buffer, translating every position and range back and forth
// through the shadow package's mapping algebra. Every feature here fails
// closed: a missing active mapping, a stale view, or a host error all
// produce an empty result, never a partial one (spec §4.D "Failure
// semantics").
package features

import (
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// CompletionItem is one suggestion in HTML-view space.
type CompletionItem struct {
	Label      string
	Kind       string
	InsertText string
}

// HoverResult is the formatted content and the HTML range it documents.
type HoverResult struct {
	Contents string
	Range    span.Range
}

// DefinitionResult is one place a symbol is defined, with the HTML range
// that requested it (for "go to definition" highlight).
type DefinitionResult struct {
	TargetFile           string
	TargetRange          span.Range
	OriginSelectionRange span.Range
}

// ReferenceResult is one usage or definition site of a symbol.
type ReferenceResult struct {
	FileName string
	Range    span.Range
	IsWrite  bool
}

// TextEdit is a single replacement within a named file, in that file's own
// coordinate space (HTML bytes for a view, source bytes elsewhere).
type TextEdit struct {
	FileName string
	Range    span.Range
	NewText  string
}

// RenamePrepareResult describes the renameable range and placeholder text
// at a position, or ok=false if nothing there can be renamed.
type RenamePrepareResult struct {
	Range       span.Range
	Placeholder string
}

// Diagnostic is a problem at an HTML range.
type Diagnostic struct {
	Range    span.Range
	Message  string
	Severity host.Severity
	Code     int
}

// CodeAction is a named fix expressed as a set of file edits.
type CodeAction struct {
	Title string
	Edits []TextEdit
}

// SemanticTokenKind is one entry of the fixed legend spec §4.D defines.
// Lower values are higher priority when two classifications compete for
// the same HTML range.
type SemanticTokenKind int

const (
	TokMethod SemanticTokenKind = iota
	TokFunction
	TokProperty
	TokVariable
	TokParameter
	TokClass
	TokType
	TokKeyword
	TokOperator
	TokPunctuation
	TokAureliaElement
	TokAureliaAttribute
)

// SemanticTokenLegend is the fixed, ordered token-kind legend (spec §4.D).
var SemanticTokenLegend = []string{
	"method", "function", "property", "variable", "parameter",
	"class", "type", "keyword", "operator", "punctuation",
	"aureliaElement", "aureliaAttribute",
}

func (k SemanticTokenKind) String() string {
	if int(k) >= 0 && int(k) < len(SemanticTokenLegend) {
		return SemanticTokenLegend[k]
	}
	return "unknown"
}

// SemanticToken is one classified HTML range.
type SemanticToken struct {
	Range span.Range
	Kind  SemanticTokenKind
}
