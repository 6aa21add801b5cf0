package features

import (
	"context"
	"fmt"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/shadow"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// Hover implements spec §4.D's hover feature.
func Hover(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost, offset int) *HoverResult {
	if m, ok := vm.ActiveMapping(offset); ok {
		shadowOffset := shadow.Forward(m, offset)
		info, err := ah.QuickInfo(ctx, host.Position{FilePath: vm.ShadowURI, Offset: shadowOffset})
		if err != nil || info == nil {
			return nil
		}
		return &HoverResult{
			Contents: info.DisplayParts,
			Range:    shadow.Inverse(m, info.Span.Start, info.Span.End),
		}
	}

	if m, ok := attributeNameAt(vm, offset); ok {
		return hoverForAttribute(ctx, idx, ah, m.Expression)
	}

	tagRange, name, ok := tagRangeAt(vm.ElementTagRanges, offset)
	if !ok {
		return nil
	}
	return hoverForComponent(ctx, idx, ah, name, tagRange)
}

// tagRangeAt returns the start or end tag-name range containing offset,
// and that tag's element name.
func tagRangeAt(tags []htmlext.TagRange, offset int) (span.Range, string, bool) {
	for _, t := range tags {
		if t.StartTagRange.ContainsClosed(offset) {
			return t.StartTagRange, t.Name, true
		}
		if t.EndTagRange != nil && t.EndTagRange.ContainsClosed(offset) {
			return *t.EndTagRange, t.Name, true
		}
	}
	return span.Range{}, "", false
}

func hoverForComponent(ctx context.Context, idx *compindex.Index, ah host.AnalysisHost, name string, tagRange span.Range) *HoverResult {
	ci, ok := idx.Lookup(name)
	if !ok {
		return nil
	}
	doc := fmt.Sprintf("%s %s (%s)", ci.Kind.String(), ci.CanonicalName, ci.ClassName)
	info, err := ah.QuickInfo(ctx, host.Position{FilePath: ci.SourceFile, Offset: 0})
	if err == nil && info != nil && info.Documentation != "" {
		doc = doc + "\n" + info.Documentation
	}
	return &HoverResult{Contents: doc, Range: tagRange}
}

// hoverForAttribute documents the bindable property a custom-attribute
// binding's bare attribute name targets (spec §4.D: hover "on a
// custom-attribute/bindable attribute name").
func hoverForAttribute(ctx context.Context, idx *compindex.Index, ah host.AnalysisHost, expr htmlext.Expression) *HoverResult {
	ci, ok := idx.Lookup(expr.ElementTag)
	if !ok {
		return nil
	}
	bindableName := attributeBindableName(expr.AttributeName)
	var prop *compindex.Bindable
	for i := range ci.Bindables {
		if ci.Bindables[i].AttributeOrDefault() == bindableName {
			prop = &ci.Bindables[i]
			break
		}
	}
	if prop == nil {
		return nil
	}

	doc := fmt.Sprintf("bindable %s of %s (%s)", prop.PropertyName, ci.CanonicalName, ci.ClassName)
	if members, err := ah.ClassMembers(ctx, ci.SourceFile, ci.ClassName); err == nil {
		for _, mem := range members {
			if mem.Name == prop.PropertyName {
				doc = fmt.Sprintf("(property) %s: %s\nbindable of %s", prop.PropertyName, mem.Type, ci.CanonicalName)
				break
			}
		}
	}
	return &HoverResult{Contents: doc, Range: expr.AttributeNameSpan}
}
