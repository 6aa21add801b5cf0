package shadow

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// ViewInput is everything Synthesise needs about one view to build its
// shadow.
type ViewInput struct {
	URI                string // the view's own URI
	HTMLText           string
	ViewModelFsPath    string
	ViewModelClassName string
	// ViewModelContent is the paired class file's current text, used only
	// as the cache key for the view-model member list (spec §4.C: "memoised
	// per (filePath, fileContent); cache hit requires byte-exact content
	// match"). Reading it is the caller's concern — disk reads are the
	// core's only suspension points, per spec §5 — not this package's.
	ViewModelContent string
}

// ShadowURI appends .virtual.ts to a view's URI, per spec §4.C "Shadow
// file identity".
func ShadowURI(viewURI string) string {
	return viewURI + ".virtual.ts"
}

// relativeImportPath computes a POSIX-relative import specifier from the
// shadow (which lives alongside the view) to the view-model source.
func relativeImportPath(viewURI, viewModelFsPath string) string {
	viewDir := path.Dir(viewURI)
	rel, err := relPosix(viewDir, viewModelFsPath)
	if err != nil {
		rel = viewModelFsPath
	}
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// relPosix is a minimal POSIX-style relative-path computation (no
// filepath.Rel, which is platform-dependent on separators) — the shadow
// file format always uses "/".
func relPosix(from, to string) (string, error) {
	fromParts := splitNonEmpty(from)
	toParts := splitNonEmpty(to)

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}

	ups := len(fromParts) - common
	rest := toParts[common:]

	segments := make([]string, 0, ups+len(rest))
	for i := 0; i < ups; i++ {
		segments = append(segments, "..")
	}
	segments = append(segments, rest...)
	if len(segments) == 0 {
		return ".", nil
	}
	return strings.Join(segments, "/"), nil
}

func splitNonEmpty(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}

// Synthesise builds a deterministic shadow buffer and mapping set for one
// view, consulting idx for value-converter names and ah for the
// view-model's member list. prevVersion is the ShadowVersion of the
// previous synthesis of this same view (0 if there was none); the
// returned ViewMappings carries prevVersion+1, keeping shadowVersion
// strictly increasing per spec §4.C/§5/§8 invariant 6.
func Synthesise(ctx context.Context, in ViewInput, idx *compindex.Index, ah host.AnalysisHost, cache *MemberCache, prevVersion int) (*ViewMappings, error) {
	extraction := htmlext.Extract(in.HTMLText)

	members, err := cache.Members(ctx, ah, in.ViewModelFsPath, in.ViewModelContent, in.ViewModelClassName)
	if err != nil {
		members = nil
	}
	isMember := memberSetFunc(members)

	converterNames := usedConverterNames(extraction.Expressions, idx)

	var b strings.Builder
	writePreamble(&b, in, converterNames)

	mappings := make([]Mapping, 0, len(extraction.Expressions))
	for i, expr := range extraction.Expressions {
		blockStart := b.Len()

		base, suffix := splitPipe(expr.Text)
		rewritten, localTransforms := rewriteBase(base, expr.HTMLSpan.Start, isMember)
		body := rewritten + suffix

		b.WriteString("const ___expr_")
		fmt.Fprintf(&b, "%d", i+1)
		b.WriteString(" = (")
		valueStart := b.Len()
		b.WriteString(body)
		valueEnd := b.Len()
		b.WriteString("); // Origin: ")
		b.WriteString(expr.Kind.String())
		b.WriteString("\n")

		blockEnd := b.Len()

		valueRange := span.Range{Start: valueStart, End: valueEnd}
		transforms := make([]Transformation, len(localTransforms))
		for j, lt := range localTransforms {
			transforms[j] = Transformation{
				HTMLRange:   lt.htmlRange,
				ShadowRange: span.Range{Start: valueStart + lt.localShadowStart, End: valueStart + lt.localShadowEnd},
				OffsetDelta: ThisPrefixDelta,
			}
		}

		mappings = append(mappings, Mapping{
			Expression:       expr,
			ShadowBlockRange: span.Range{Start: blockStart, End: blockEnd},
			ShadowValueRange: valueRange,
			Transformations:  transforms,
		})
	}

	return &ViewMappings{
		ShadowURI:          ShadowURI(in.URI),
		ShadowVersion:      prevVersion + 1,
		ShadowText:         b.String(),
		ViewModelClassName: in.ViewModelClassName,
		ViewModelFsPath:    in.ViewModelFsPath,
		Mappings:           mappings,
		ElementTagRanges:   extraction.Tags,
	}, nil
}

// writePreamble writes the fixed two-line header, import, _this
// declaration, and value-converter declarations, in the exact order
// spec §6 "Shadow file format" lists.
func writePreamble(b *strings.Builder, in ViewInput, converterNames []string) {
	b.WriteString("// Generated shadow TypeScript surface. Do not edit.\n")
	fmt.Fprintf(b, "// Source: %s\n", in.URI)

	rel := relativeImportPath(in.URI, in.ViewModelFsPath)
	fmt.Fprintf(b, "import { %s } from '%s';\n\n", in.ViewModelClassName, rel)
	fmt.Fprintf(b, "declare const _this: %s;\n\n", in.ViewModelClassName)

	b.WriteString("// Value converters\n")
	for _, name := range converterNames {
		fmt.Fprintf(b, "declare function %s(value, ...args): any;\n", name)
	}
	b.WriteString("\n")
}

// usedConverterNames returns, in first-use order, every distinct converter
// name that appears as a pipe target in any expression and is present in
// the Component Index as a ValueConverter.
func usedConverterNames(exprs []htmlext.Expression, idx *compindex.Index) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range exprs {
		for _, name := range pipedConverterNames(e.Text) {
			if _, already := seen[name]; already {
				continue
			}
			ci, ok := idx.Lookup(name)
			if !ok || ci.Kind != compindex.ValueConverter {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func memberSetFunc(members []host.ClassMember) func(string) bool {
	set := memberSet(members)
	return func(name string) bool {
		_, ok := set[name]
		return ok
	}
}
