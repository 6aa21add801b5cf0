package features

import (
	"context"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/shadow"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// Definition implements spec §4.D's definition feature.
func Definition(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost, offset int) []DefinitionResult {
	if m, ok := vm.ActiveMapping(offset); ok {
		return expressionDefinitions(ctx, m, ah, vm.ShadowURI, offset)
	}

	if m, ok := attributeNameAt(vm, offset); ok {
		return attributeDefinition(idx, m.Expression)
	}

	if tagRange, name, ok := tagRangeAt(vm.ElementTagRanges, offset); ok {
		ci, ok := idx.Lookup(name)
		if !ok {
			return nil
		}
		return []DefinitionResult{{
			TargetFile:           ci.SourceFile,
			TargetRange:          ci.ClassNameRange,
			OriginSelectionRange: tagRange,
		}}
	}
	return nil
}

// attributeDefinition resolves a custom-attribute/bindable attribute name to
// the declaring property identifier in its component's source file (spec
// §4.D: "go to definition on an attribute name").
func attributeDefinition(idx *compindex.Index, expr htmlext.Expression) []DefinitionResult {
	ci, ok := idx.Lookup(expr.ElementTag)
	if !ok {
		return nil
	}
	bindableName := attributeBindableName(expr.AttributeName)
	for i := range ci.Bindables {
		if ci.Bindables[i].AttributeOrDefault() != bindableName {
			continue
		}
		return []DefinitionResult{{
			TargetFile:           ci.SourceFile,
			TargetRange:          ci.Bindables[i].PropertyRange,
			OriginSelectionRange: expr.AttributeNameSpan,
		}}
	}
	return nil
}

func expressionDefinitions(ctx context.Context, m *shadow.Mapping, ah host.AnalysisHost, shadowURI string, offset int) []DefinitionResult {
	shadowOffset := shadow.Forward(m, offset)
	raw, err := ah.Definitions(ctx, host.Position{FilePath: shadowURI, Offset: shadowOffset})
	if err != nil {
		return nil
	}

	originRange := m.Expression.HTMLSpan
	for _, t := range m.Transformations {
		if t.HTMLRange.ContainsClosed(offset) {
			originRange = t.HTMLRange
			break
		}
	}

	isInterpolation := m.Expression.Kind == htmlext.Interpolation

	var out []DefinitionResult
	for _, d := range raw {
		if d.Target.FilePath == shadowURI {
			// A definition pointing back into the shadow itself is an
			// artifact of the synthesised buffer, never a real target.
			continue
		}
		if isInterpolation && isStandardLibraryPath(d.Target.FilePath) {
			continue
		}
		out = append(out, DefinitionResult{
			TargetFile:           d.Target.FilePath,
			TargetRange:          span.Range{Start: d.Target.Start, End: d.Target.End},
			OriginSelectionRange: originRange,
		})
	}
	return out
}

// isStandardLibraryPath reports whether a host definition target looks
// like it resolves into the TypeScript/JS standard library's ambient
// declaration files rather than user code — excluded for interpolations
// per spec §4.D ("drop standard-library results when the expression is an
// interpolation"). A .d.ts file that ships inside a project's own
// node_modules/@types is user-reachable library typing, not the standard
// library, so it's kept.
func isStandardLibraryPath(path string) bool {
	return strings.HasSuffix(path, ".d.ts") && !strings.Contains(path, "node_modules")
}
