package features

import (
	"context"
	"sort"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// shadowArtifactNames, together with every shadowExprPrefix placeholder
// constant, are synthesiser-internal bindings that must never be offered as
// completions (spec §4.D).
var shadowArtifactNames = map[string]struct{}{
	"_this": {}, "__filename": {}, "__dirname": {},
}

// shadowExprPrefix starts the name of every "___expr_<i>" placeholder
// constant the synthesiser emits.
const shadowExprPrefix = "___expr_"

// moduleLikeKinds are host completion kinds excluded from expression
// completion (spec §4.D: "entries classed as module/class/interface/
// type/enum").
var moduleLikeKinds = map[string]struct{}{
	"module": {}, "class": {}, "interface": {}, "type": {}, "enum": {},
}

// keywordAllowlist is the one set of keywords still offered as completions.
var keywordAllowlist = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "undefined": {},
}

// Completion implements spec §4.D's completion feature.
func Completion(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost, htmlText string, offset int) []CompletionItem {
	if m, ok := vm.ActiveMapping(offset); ok {
		return expressionCompletions(ctx, vm, m, idx, ah, offset)
	}
	return htmlCompletions(idx, htmlText, offset)
}

// rankedCompletion pairs a completion with the two sort keys spec §4.D
// orders the list by, before they're discarded on the way to CompletionItem.
type rankedCompletion struct {
	item     CompletionItem
	isMember bool
	sortKey  string
}

func expressionCompletions(ctx context.Context, vm *shadow.ViewMappings, m *shadow.Mapping, idx *compindex.Index, ah host.AnalysisHost, offset int) []CompletionItem {
	shadowOffset := shadow.Forward(m, offset)
	raw, err := ah.Completions(ctx, host.Position{FilePath: vm.ShadowURI, Offset: shadowOffset})
	if err != nil {
		return nil
	}

	relOffset := offset - m.Expression.HTMLSpan.Start
	if relOffset >= 0 && relOffset <= len(m.Expression.Text) && immediatelyAfterPipe(m.Expression.Text, relOffset) {
		return valueConverterCompletions(idx)
	}

	converterNames := make(map[string]struct{})
	for _, ci := range idx.ByKind(compindex.ValueConverter) {
		converterNames[ci.CanonicalName] = struct{}{}
	}

	members, _ := ah.ClassMembers(ctx, vm.ViewModelFsPath, vm.ViewModelClassName)
	memberNames := make(map[string]struct{}, len(members))
	for _, mem := range members {
		memberNames[mem.Name] = struct{}{}
	}

	var ranked []rankedCompletion
	for _, item := range raw {
		if _, skip := shadowArtifactNames[item.Name]; skip || strings.HasPrefix(item.Name, shadowExprPrefix) {
			continue
		}
		if _, skip := moduleLikeKinds[item.Kind]; skip {
			continue
		}
		if item.IsKeyword {
			if _, allowed := keywordAllowlist[item.Name]; !allowed {
				continue
			}
		}
		if _, isConverter := converterNames[item.Name]; isConverter {
			continue
		}
		_, isMember := memberNames[item.Name]
		ranked = append(ranked, rankedCompletion{
			item:     CompletionItem{Label: item.Name, Kind: item.Kind, InsertText: item.Name},
			isMember: isMember,
			sortKey:  item.SortKey,
		})
	}

	// Preserve order by (view-model membership, host sort key): a member of
	// the paired view-model class sorts ahead of anything else, per spec
	// §4.D; SliceStable keeps the host's own relative order within each tier
	// when sort keys tie.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].isMember != ranked[j].isMember {
			return ranked[i].isMember
		}
		return ranked[i].sortKey < ranked[j].sortKey
	})

	out := make([]CompletionItem, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

func valueConverterCompletions(idx *compindex.Index) []CompletionItem {
	var out []CompletionItem
	for _, ci := range idx.ByKind(compindex.ValueConverter) {
		out = append(out, CompletionItem{Label: ci.CanonicalName, Kind: "valueConverter", InsertText: ci.CanonicalName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func htmlCompletions(idx *compindex.Index, htmlText string, offset int) []CompletionItem {
	hctx := classifyHTMLContext(htmlText, offset)

	switch hctx.kind {
	case contextTagName:
		var out []CompletionItem
		for _, ci := range idx.ByKind(compindex.Element) {
			out = append(out, CompletionItem{Label: ci.CanonicalName, Kind: "element", InsertText: ci.CanonicalName})
		}
		return out

	case contextAttributeArea:
		var out []CompletionItem
		for _, ci := range idx.ByKind(compindex.Attribute) {
			out = append(out, CompletionItem{Label: ci.CanonicalName, Kind: "attribute", InsertText: ci.CanonicalName})
			for _, suf := range commandSuffixVariants(ci.CanonicalName) {
				out = append(out, suf)
			}
		}
		for _, tc := range templateControllerCompletions() {
			out = append(out, tc)
		}
		if element, ok := idx.Lookup(hctx.enclosingTag); ok && element.Kind == compindex.Element {
			for _, b := range element.Bindables {
				name := b.AttributeOrDefault()
				out = append(out, CompletionItem{Label: name, Kind: "bindable", InsertText: name})
				out = append(out, commandSuffixVariants(name)...)
			}
		}
		return out

	case contextAfterCommandDot:
		return commandOnlyCompletions()
	}
	return nil
}

func commandSuffixVariants(baseName string) []CompletionItem {
	var out []CompletionItem
	for _, suf := range htmlext.CommandSuffixes() {
		out = append(out, CompletionItem{Label: baseName + suf, Kind: "attributeCommand", InsertText: baseName + suf})
	}
	return out
}

// commandOnlyCompletions offers every command suffix except ".ref" (spec
// §4.D: "suggest only the command-suffix set (excluding .ref)").
func commandOnlyCompletions() []CompletionItem {
	var out []CompletionItem
	for _, suf := range htmlext.CommandSuffixes() {
		if suf == ".ref" {
			continue
		}
		name := suf[1:]
		out = append(out, CompletionItem{Label: name, Kind: "command", InsertText: name})
	}
	return out
}

func templateControllerCompletions() []CompletionItem {
	var out []CompletionItem
	for _, name := range htmlext.TemplateControllerNames() {
		out = append(out, CompletionItem{Label: name, Kind: "templateController", InsertText: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
