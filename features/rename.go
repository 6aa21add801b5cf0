package features

import (
	"context"
	"regexp"
	"sort"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/shadow"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// PrepareRename implements the "prepare" half of spec §4.D's rename
// feature: it reports the renameable range at a position, or ok=false when
// nothing there qualifies.
func PrepareRename(ctx context.Context, vm *shadow.ViewMappings, ah host.AnalysisHost, offset int) (RenamePrepareResult, bool) {
	if tagRange, name, ok := tagRangeAt(vm.ElementTagRanges, offset); ok {
		return RenamePrepareResult{Range: tagRange, Placeholder: name}, true
	}

	if m, ok := vm.ActiveMapping(offset); ok {
		shadowOffset := shadow.Forward(m, offset)
		_, renameable, err := ah.RenameLocations(ctx, host.Position{FilePath: vm.ShadowURI, Offset: shadowOffset})
		if err != nil || !renameable {
			return RenamePrepareResult{}, false
		}
		for _, t := range m.Transformations {
			if t.HTMLRange.ContainsClosed(offset) {
				return RenamePrepareResult{Range: t.HTMLRange}, true
			}
		}
	}
	return RenamePrepareResult{}, false
}

// Rename implements the "apply" half: it produces the full set of edits a
// rename of the symbol at (viewURI, offset) to newName touches, across
// every view and source file it's visible in. classSources supplies the
// already-read content of every component's defining class file — disk
// reads are the core's concern (spec §5), not this layer's.
func Rename(ctx context.Context, viewURI string, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost, offset int, newName string, allViews []ViewSource, classSources map[string]string) map[string][]TextEdit {
	if _, name, ok := tagRangeAt(vm.ElementTagRanges, offset); ok {
		return renameComponent(idx, name, newName, allViews, classSources)
	}

	m, ok := vm.ActiveMapping(offset)
	if !ok {
		return nil
	}
	shadowOffset := shadow.Forward(m, offset)
	locs, renameable, err := ah.RenameLocations(ctx, host.Position{FilePath: vm.ShadowURI, Offset: shadowOffset})
	if err != nil || !renameable {
		return nil
	}

	edits := make(map[string][]TextEdit)
	for _, loc := range locs {
		if loc.FileName == vm.ShadowURI {
			lm := mappingCoveringShadowOffset(vm, loc.Span.Start)
			if lm == nil {
				continue
			}
			r := shadow.Inverse(lm, loc.Span.Start, loc.Span.End)
			edits[viewURI] = append(edits[viewURI], TextEdit{FileName: viewURI, Range: r, NewText: newName})
			continue
		}
		edits[loc.FileName] = append(edits[loc.FileName], TextEdit{
			FileName: loc.FileName,
			Range:    rangeFromSpan(loc.Span),
			NewText:  newName,
		})
	}
	sortEditsDescending(edits)
	return edits
}

// PrepareRenameClass implements rename target 2 (spec §4.D): the "prepare"
// half of invoking rename directly on a known component's class identifier
// in its own paired source file, rather than on a tag in a view.
func PrepareRenameClass(idx *compindex.Index, sourceFile string, offset int) (RenamePrepareResult, bool) {
	ci, ok := classDeclAt(idx, sourceFile, offset)
	if !ok {
		return RenamePrepareResult{}, false
	}
	return RenamePrepareResult{Range: ci.ClassNameRange, Placeholder: ci.CanonicalName}, true
}

// RenameClass implements the "apply" half of rename target 2: it produces
// the same edit set as a tag rename (spec §4.D target 1/2 share the same
// rewrite rule), found via the class identifier instead of a view tag.
func RenameClass(idx *compindex.Index, sourceFile string, offset int, newName string, allViews []ViewSource, classSources map[string]string) map[string][]TextEdit {
	ci, ok := classDeclAt(idx, sourceFile, offset)
	if !ok {
		return nil
	}
	return renameComponent(idx, ci.CanonicalName, newName, allViews, classSources)
}

// classDeclAt finds the indexed component whose class identifier at
// sourceFile contains offset.
func classDeclAt(idx *compindex.Index, sourceFile string, offset int) (*compindex.ComponentInfo, bool) {
	for _, ci := range idx.All() {
		if ci.SourceFile != sourceFile {
			continue
		}
		if ci.ClassNameRange.ContainsClosed(offset) {
			return ci, true
		}
	}
	return nil, false
}

// renameComponent renames a custom-element/attribute tag: every matching
// start/end tag across every view, plus the customElement/customAttribute
// decorator argument (or a freshly inserted decorator) in the defining
// class file.
func renameComponent(idx *compindex.Index, oldName, newName string, allViews []ViewSource, classSources map[string]string) map[string][]TextEdit {
	edits := make(map[string][]TextEdit)

	for _, v := range allViews {
		extraction := htmlext.Extract(v.HTMLText)
		for _, t := range extraction.Tags {
			if t.Name != oldName {
				continue
			}
			edits[v.URI] = append(edits[v.URI], TextEdit{FileName: v.URI, Range: t.StartTagRange, NewText: newName})
			if t.EndTagRange != nil {
				edits[v.URI] = append(edits[v.URI], TextEdit{FileName: v.URI, Range: *t.EndTagRange, NewText: newName})
			}
		}
	}

	if ci, ok := idx.Lookup(oldName); ok {
		if classEdits, ok := renameClassDecorator(classSources[ci.SourceFile], ci, newName); ok {
			edits[ci.SourceFile] = append(edits[ci.SourceFile], classEdits...)
		}
	}

	sortEditsDescending(edits)
	return edits
}

// reDecoratorNameArg matches a @customElement/@customAttribute call's
// string-literal argument, e.g. @customElement('my-input').
var reDecoratorNameArg = regexp.MustCompile(`@(customElement|customAttribute)\(\s*['"]([^'"]*)['"]\s*\)`)

// reDecoratorNameProp matches the name property of a @customElement/
// @customAttribute object-literal argument, e.g.
// @customElement({ name: 'my-input', template }).
var reDecoratorNameProp = regexp.MustCompile(`@(customElement|customAttribute)\(\s*\{[^}]*?\bname\s*:\s*['"]([^'"]*)['"]`)

// reClassKeyword locates "class <ClassName>" so a decorator can be
// inserted immediately before it when none exists yet.
var reClassKeyword = regexp.MustCompile(`(?:export\s+)?(?:default\s+)?class\s+`)

// renameClassDecorator edits source to rewrite the name an existing
// @customElement/@customAttribute decorator gives (its string argument, or
// the name property of its object-literal argument) to newName. If no such
// name is found (the class was discovered by convention, or its decorator
// has no name argument), it inserts a decorator immediately before the
// class declaration along with the matching import.
func renameClassDecorator(source string, ci *compindex.ComponentInfo, newName string) ([]TextEdit, bool) {
	if source == "" {
		return nil, false
	}

	m := reDecoratorNameArg.FindStringSubmatchIndex(source)
	if m == nil {
		m = reDecoratorNameProp.FindStringSubmatchIndex(source)
	}
	if m != nil {
		return []TextEdit{{
			FileName: ci.SourceFile,
			Range:    span.Range{Start: m[4], End: m[5]},
			NewText:  newName,
		}}, true
	}

	loc := reClassKeyword.FindStringIndex(source)
	if loc == nil {
		return nil, false
	}

	decoratorName := "customElement"
	if ci.Kind == compindex.Attribute {
		decoratorName = "customAttribute"
	}
	insertAt := loc[0]
	decoratorLine := "@" + decoratorName + "('" + newName + "')\n"
	importLine := "import { " + decoratorName + " } from 'aurelia';\n"

	return []TextEdit{
		{FileName: ci.SourceFile, Range: span.Range{Start: 0, End: 0}, NewText: importLine},
		{FileName: ci.SourceFile, Range: span.Range{Start: insertAt, End: insertAt}, NewText: decoratorLine},
	}, true
}

func sortEditsDescending(edits map[string][]TextEdit) {
	for file := range edits {
		list := edits[file]
		sort.Slice(list, func(i, j int) bool { return list[i].Range.Start > list[j].Range.Start })
		edits[file] = list
	}
}
