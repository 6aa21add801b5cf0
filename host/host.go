// Package host declares the capability set the Feature Translation Layer
// consumes from a type-aware Analysis Host (spec §6). The host answers
// questions about a synthetic source buffer — completions, quick info,
// definitions, references, rename, diagnostics — at byte offsets. Its
// implementation is unspecified by design: any type-aware engine that can
// snapshot a virtual file and answer these questions at (path, offset)
// granularity plugs in here. See testhost for a small reference
// implementation used only by this module's own test suite.
package host

import "context"

// Position is a byte offset into a named file's current snapshot.
type Position struct {
	FilePath string
	Offset   int
}

// Span is a byte range into a named file.
type Span struct {
	FilePath string
	Start    int
	End      int
}

// Snapshot is what the host sees for one path: its content and a
// monotonically increasing version number. Per spec §6, the core feeds
// the host an open-editor snapshot when one exists, else the shadow
// buffer, else on-disk content.
type Snapshot struct {
	FilePath string
	Text     string
	Version  int
}

// CompletionItem is one completion entry. SortKey orders items the way the
// host would order them natively; Kind is one of the host's own
// classification strings (e.g. "method", "class", "keyword") — the
// Feature Translation Layer filters on Kind, not on a closed enum, since
// the host's classification vocabulary is its own.
type CompletionItem struct {
	Name        string
	Kind        string
	SortKey     string
	InsertText  string
	IsKeyword   bool
}

// QuickInfo is hover-style information about the symbol at a position.
type QuickInfo struct {
	DisplayParts  string
	Documentation string
	Span          Span
}

// DefinitionInfo is one place a symbol at a position is defined.
type DefinitionInfo struct {
	Target        Span
	ContextSpan   *Span
}

// ReferenceEntry is one place a symbol is used or defined.
type ReferenceEntry struct {
	FileName   string
	Span       Span
	IsWriteRef bool
}

// RenameLocation is one edit location a rename of a symbol touches.
type RenameLocation struct {
	FileName string
	Span     Span
}

// TextEdit is a single replacement within a file.
type TextEdit struct {
	FileName string
	Span     Span
	NewText  string
}

// CodeFix is a suggested fix for one or more diagnostics, expressed as a
// set of edits.
type CodeFix struct {
	Description string
	Edits       []TextEdit
}

// Diagnostic is a syntactic or semantic error/warning at a span.
type Diagnostic struct {
	FileName string
	Span     Span
	Message  string
	Code     int
	Severity Severity
}

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// SignatureInfo is one candidate signature for a call.
type SignatureInfo struct {
	Label         string
	Parameters    []string
	ActiveParam   int
	Documentation string
}

// ClassifiedToken is one encoded semantic-classification token over a span
// of a file, with a host-native classification string (e.g. "method",
// "parameter", "keyword") that the Feature Translation Layer maps onto its
// own fixed legend (spec §4.D semantic tokens).
type ClassifiedToken struct {
	Span           Span
	Classification string
}

// ClassMember is one property/method the type checker can see on a class
// type, used to build the view-model member list that drives identifier
// rewriting (spec §4.C).
type ClassMember struct {
	Name   string
	Type   string
	Method bool
}

// AnalysisHost is the capability set spec §6 requires of the type-aware
// collaborator. Every method is scoped to a single file + offset/span; the
// host owns whatever project-wide type graph it needs to answer.
type AnalysisHost interface {
	// Snapshot returns the host's current view of path: an open-editor
	// buffer, the caller-provided shadow buffer, or on-disk content, with
	// its version. ok is false if the host has never heard of path.
	Snapshot(ctx context.Context, path string) (Snapshot, bool)

	// UpdateSnapshot pushes a new version of path's content to the host
	// (used when the core hands over a newly synthesised shadow or an
	// edited open file).
	UpdateSnapshot(ctx context.Context, snap Snapshot)

	Completions(ctx context.Context, pos Position) ([]CompletionItem, error)
	QuickInfo(ctx context.Context, pos Position) (*QuickInfo, error)
	Definitions(ctx context.Context, pos Position) ([]DefinitionInfo, error)
	References(ctx context.Context, pos Position) ([]ReferenceEntry, error)

	// RenameLocations returns every location a rename of the symbol at pos
	// would touch. ok is false when the symbol isn't renameable (spec
	// §4.D rename's "renameability check").
	RenameLocations(ctx context.Context, pos Position) (locs []RenameLocation, ok bool, err error)

	CodeFixes(ctx context.Context, pos Position, errorCodes []int) ([]CodeFix, error)
	SignatureHelp(ctx context.Context, pos Position) ([]SignatureInfo, error)

	// SemanticTokens returns the host's encoded classification over the
	// file, limited to the optional span if non-nil.
	SemanticTokens(ctx context.Context, filePath string, span *Span) ([]ClassifiedToken, error)

	Diagnostics(ctx context.Context, filePath string) ([]Diagnostic, error)

	// ClassMembers lists the visible properties/methods of the class
	// declared in filePath named className — the view-model member list
	// of spec §4.C.
	ClassMembers(ctx context.Context, filePath, className string) ([]ClassMember, error)

	// TypeAtPosition returns the host's display string for the type of
	// the expression at pos (used by the bindable-type diagnostic, §4.D).
	TypeAtPosition(ctx context.Context, pos Position) (string, error)

	// AssignableTo reports whether a value of fromType can be assigned to
	// a location of toType.
	AssignableTo(ctx context.Context, fromType, toType string) (bool, error)
}
