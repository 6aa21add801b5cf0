package features

import (
	"context"

	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// SignatureHelp implements spec §4.D's signature-help feature: forward-map
// and pass the host's candidate list straight through, since a signature
// carries no HTML-space range of its own to invert.
func SignatureHelp(ctx context.Context, vm *shadow.ViewMappings, ah host.AnalysisHost, offset int) []host.SignatureInfo {
	m, ok := vm.ActiveMapping(offset)
	if !ok {
		return nil
	}
	shadowOffset := shadow.Forward(m, offset)
	sigs, err := ah.SignatureHelp(ctx, host.Position{FilePath: vm.ShadowURI, Offset: shadowOffset})
	if err != nil {
		return nil
	}
	return sigs
}
