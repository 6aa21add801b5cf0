package features

import (
	"context"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// ViewSource is one indexed view's URI and current HTML text, the input
// References/Rename need to search across every view in the workspace.
type ViewSource struct {
	URI      string
	HTMLText string
}

// References implements spec §4.D's references feature.
func References(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost, offset int, allViews []ViewSource) []ReferenceResult {
	if m, ok := vm.ActiveMapping(offset); ok {
		return expressionReferences(ctx, vm, m, ah, offset)
	}

	if _, name, ok := tagRangeAt(vm.ElementTagRanges, offset); ok {
		return tagReferences(idx, name, allViews)
	}

	if m, ok := attributeNameAt(vm, offset); ok {
		return tagReferences(idx, attributeBindableName(m.Expression.AttributeName), allViews)
	}
	return nil
}

func expressionReferences(ctx context.Context, vm *shadow.ViewMappings, m *shadow.Mapping, ah host.AnalysisHost, offset int) []ReferenceResult {
	shadowURI := vm.ShadowURI
	shadowOffset := shadow.Forward(m, offset)
	raw, err := ah.References(ctx, host.Position{FilePath: shadowURI, Offset: shadowOffset})
	if err != nil {
		return nil
	}

	var out []ReferenceResult
	for _, r := range raw {
		if r.Span.FilePath == shadowURI {
			lm := mappingCoveringShadowOffset(vm, r.Span.Start)
			if lm == nil {
				continue
			}
			out = append(out, ReferenceResult{
				FileName: shadowURI,
				Range:    shadow.Inverse(lm, r.Span.Start, r.Span.End),
				IsWrite:  r.IsWriteRef,
			})
			continue
		}
		out = append(out, ReferenceResult{
			FileName: r.Span.FilePath,
			Range:    rangeFromSpan(r.Span),
			IsWrite:  r.IsWriteRef,
		})
	}
	return out
}

// tagReferences finds every start/end tag occurrence of name plus every
// attribute occurrence of "name" or "name." across every indexed view,
// and includes the component's defining file (spec §4.D).
func tagReferences(idx *compindex.Index, name string, allViews []ViewSource) []ReferenceResult {
	var out []ReferenceResult
	for _, v := range allViews {
		extraction := htmlext.Extract(v.HTMLText)
		for _, t := range extraction.Tags {
			if t.Name != name {
				continue
			}
			out = append(out, ReferenceResult{FileName: v.URI, Range: t.StartTagRange})
			if t.EndTagRange != nil {
				out = append(out, ReferenceResult{FileName: v.URI, Range: *t.EndTagRange})
			}
		}
		for _, e := range extraction.Expressions {
			if e.Kind != htmlext.Binding || e.AttributeName == "" {
				continue
			}
			if e.AttributeName == name+".ref" {
				continue
			}
			if e.AttributeName == name || strings.HasPrefix(e.AttributeName, name+".") {
				out = append(out, ReferenceResult{FileName: v.URI, Range: e.HTMLSpan})
			}
		}
	}

	if ci, ok := idx.Lookup(name); ok {
		out = append(out, ReferenceResult{FileName: ci.SourceFile})
	}
	return out
}
