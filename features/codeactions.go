package features

import (
	"context"

	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// CodeActions implements spec §4.D's code actions feature. The host's
// CodeFixes call is anchored to a single position (spec §6), so only the
// requested range's start needs forward-mapping.
func CodeActions(ctx context.Context, viewURI string, vm *shadow.ViewMappings, ah host.AnalysisHost, htmlRangeStart int, errorCodes []int) []CodeAction {
	m, ok := vm.ActiveMapping(htmlRangeStart)
	if !ok {
		return nil
	}
	shadowStart := shadow.Forward(m, htmlRangeStart)

	fixes, err := ah.CodeFixes(ctx, host.Position{FilePath: vm.ShadowURI, Offset: shadowStart}, errorCodes)
	if err != nil {
		return nil
	}

	var out []CodeAction
	for _, fix := range fixes {
		action := CodeAction{Title: fix.Description}
		ok := true
		for _, e := range fix.Edits {
			if e.FileName != vm.ShadowURI {
				ok = false
				break
			}
			action.Edits = append(action.Edits, TextEdit{
				FileName: viewURI,
				Range:    shadow.Inverse(m, e.Span.Start, e.Span.End),
				NewText:  e.NewText,
			})
		}
		if ok && len(action.Edits) > 0 {
			out = append(out, action)
		}
	}
	return out
}
