package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/shadow"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

// synthView synthesises a shadow for htmlText against a view-model class
// registered on ah, and pushes the resulting shadow text back into ah so
// the fake host can answer questions about it.
func synthView(t *testing.T, idx *compindex.Index, ah *testhost.Host, uri, htmlText, vmPath, className string, members []host.ClassMember) *shadow.ViewMappings {
	t.Helper()
	ah.RegisterClass(className, vmPath, members)
	vm, err := shadow.Synthesise(context.Background(), shadow.ViewInput{
		URI:                uri,
		HTMLText:           htmlText,
		ViewModelFsPath:    vmPath,
		ViewModelClassName: className,
	}, idx, ah, shadow.NewMemberCache(), 0)
	require.NoError(t, err)
	ah.UpdateSnapshot(context.Background(), host.Snapshot{FilePath: vm.ShadowURI, Text: vm.ShadowText, Version: 1})
	return vm
}
