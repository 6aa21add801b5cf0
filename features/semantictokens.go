package features

import (
	"context"
	"sort"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/shadow"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// classificationKinds maps the host's native classification strings onto
// the fixed legend (spec §4.D); the first 10 legend entries are shared
// verbatim with the host's own vocabulary, aureliaElement/aureliaAttribute
// are this layer's own.
var classificationKinds = func() map[string]SemanticTokenKind {
	m := make(map[string]SemanticTokenKind, len(SemanticTokenLegend))
	for i, name := range SemanticTokenLegend {
		if SemanticTokenKind(i) == TokAureliaElement {
			break
		}
		m[name] = SemanticTokenKind(i)
	}
	return m
}()

// SemanticTokens implements spec §4.D's semantic-highlighting feature.
func SemanticTokens(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost) []SemanticToken {
	occupied := make(map[span.Range]struct{})
	var out []SemanticToken

	for _, t := range vm.ElementTagRanges {
		ci, ok := idx.Lookup(t.Name)
		if !ok {
			continue
		}
		kind, ok := aureliaTagKind(ci.Kind)
		if !ok {
			continue
		}
		out = append(out, SemanticToken{Range: t.StartTagRange, Kind: kind})
		occupied[t.StartTagRange] = struct{}{}
		if t.EndTagRange != nil {
			out = append(out, SemanticToken{Range: *t.EndTagRange, Kind: kind})
			occupied[*t.EndTagRange] = struct{}{}
		}
	}

	for i := range vm.Mappings {
		expr := vm.Mappings[i].Expression
		if expr.Command == "" || expr.ElementTag == "" {
			continue
		}
		ci, ok := idx.Lookup(expr.ElementTag)
		if !ok || ci.Kind != compindex.Element {
			continue
		}
		bindableName := attributeBindableName(expr.AttributeName)
		if !hasBindable(ci, bindableName) {
			continue
		}
		r := span.Range{Start: expr.AttributeNameSpan.Start, End: expr.AttributeNameSpan.Start + len(bindableName)}
		out = append(out, SemanticToken{Range: r, Kind: TokAureliaAttribute})
		occupied[r] = struct{}{}
	}

	raw, err := ah.SemanticTokens(ctx, vm.ShadowURI, nil)
	if err != nil {
		return nil
	}

	best := make(map[span.Range]SemanticToken)
	for _, tok := range raw {
		kind, ok := classificationKinds[tok.Classification]
		if !ok {
			continue
		}
		m, tr := mappingAndTransformation(vm, tok.Span.Start)
		if tr == nil {
			continue
		}
		if _, skip := occupied[tr.HTMLRange]; skip {
			continue
		}
		if existing, has := best[tr.HTMLRange]; !has || kind < existing.Kind {
			best[tr.HTMLRange] = SemanticToken{Range: tr.HTMLRange, Kind: kind}
		}
		if kind == TokMethod || kind == TokFunction {
			out = append(out, parenTokens(vm, m, tr)...)
		}
	}
	for _, tok := range best {
		out = append(out, tok)
	}

	sortTokens(out)
	return out
}

func aureliaTagKind(k compindex.Kind) (SemanticTokenKind, bool) {
	switch k {
	case compindex.Element:
		return TokAureliaElement, true
	case compindex.Attribute:
		return TokAureliaAttribute, true
	default:
		return 0, false
	}
}

func hasBindable(ci *compindex.ComponentInfo, attributeName string) bool {
	for i := range ci.Bindables {
		if ci.Bindables[i].AttributeOrDefault() == attributeName {
			return true
		}
	}
	return false
}

// mappingAndTransformation finds the mapping whose shadow block contains o,
// and, if o falls inside one of its Transformations, that transformation.
func mappingAndTransformation(vm *shadow.ViewMappings, o int) (*shadow.Mapping, *shadow.Transformation) {
	for i := range vm.Mappings {
		m := &vm.Mappings[i]
		if !m.ShadowBlockRange.ContainsClosed(o) {
			continue
		}
		for j := range m.Transformations {
			t := &m.Transformations[j]
			if o >= t.ShadowRange.Start && o < t.ShadowRange.End {
				return m, t
			}
		}
		return m, nil
	}
	return nil, nil
}

// parenTokens emits the two punctuation tokens for "(" and ")" immediately
// following a method/function identifier, per spec §4.D's S6 scenario. It
// scans the shadow text (not the HTML, which this layer never holds
// directly) since non-identifier bytes pass through the synthesiser
// unchanged and shadow.Inverse maps them back exactly.
func parenTokens(vm *shadow.ViewMappings, m *shadow.Mapping, tr *shadow.Transformation) []SemanticToken {
	text := vm.ShadowText
	i := tr.ShadowRange.End
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i >= len(text) || text[i] != '(' {
		return nil
	}
	open := i
	depth := 0
	j := open
	for j < len(text) {
		switch text[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				close := j
				return []SemanticToken{
					{Range: shadow.Inverse(m, open, open+1), Kind: TokPunctuation},
					{Range: shadow.Inverse(m, close, close+1), Kind: TokPunctuation},
				}
			}
		}
		j++
	}
	return nil
}

func sortTokens(toks []SemanticToken) {
	sort.Slice(toks, func(i, j int) bool { return toks[i].Range.Start < toks[j].Range.Start })
}
