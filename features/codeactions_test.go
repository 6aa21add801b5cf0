package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

// codeFixesMockHost overrides CodeFixes to return a crafted fix anchored on
// the shadow buffer, exercising CodeActions's edit inverse-mapping without
// depending on testhost's own (always-empty) CodeFixes.
type codeFixesMockHost struct {
	*testhost.Host
	fixes []host.CodeFix
}

func (m *codeFixesMockHost) CodeFixes(ctx context.Context, pos host.Position, errorCodes []int) ([]host.CodeFix, error) {
	return m.fixes, nil
}

func TestCodeActionsInvertsShadowEdits(t *testing.T) {
	idx := compindex.New()
	inner := testhost.New()
	html := `<p>${greeting}</p>`

	vmTmp := synthView(t, idx, inner, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	memberStart := indexOfByte(vmTmp.ShadowText, 'g')
	require.GreaterOrEqual(t, memberStart, 0)

	ah := &codeFixesMockHost{Host: inner, fixes: []host.CodeFix{
		{
			Description: "Rename to 'greeting2'",
			Edits: []host.TextEdit{
				{
					FileName: vmTmp.ShadowURI,
					Span:     host.Span{FilePath: vmTmp.ShadowURI, Start: memberStart, End: memberStart + len("greeting")},
					NewText:  "greeting2",
				},
			},
		},
	}}

	offset := indexOfByte(html, 'g') + 2
	actions := CodeActions(context.Background(), "a.html", vmTmp, ah, offset, nil)

	require.Len(t, actions, 1)
	require.Equal(t, "Rename to 'greeting2'", actions[0].Title)
	require.Len(t, actions[0].Edits, 1)
	require.Equal(t, "a.html", actions[0].Edits[0].FileName)
	require.Equal(t, "greeting2", actions[0].Edits[0].NewText)
}

func TestCodeActionsNoActiveMappingIsEmpty(t *testing.T) {
	idx := compindex.New()
	inner := testhost.New()
	html := `hi`
	vm := synthView(t, idx, inner, "a.html", html, "a.ts", "App", nil)

	ah := &codeFixesMockHost{Host: inner, fixes: []host.CodeFix{
		{Description: "unreachable", Edits: []host.TextEdit{{FileName: vm.ShadowURI, NewText: "x"}}},
	}}

	require.Empty(t, CodeActions(context.Background(), "a.html", vm, ah, 0, nil))
}

func TestCodeActionsDropsFixesTouchingOtherFiles(t *testing.T) {
	idx := compindex.New()
	inner := testhost.New()
	html := `<p>${greeting}</p>`
	vm := synthView(t, idx, inner, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	ah := &codeFixesMockHost{Host: inner, fixes: []host.CodeFix{
		{
			Description: "touches another file",
			Edits: []host.TextEdit{
				{FileName: "other.ts", Span: host.Span{FilePath: "other.ts", Start: 0, End: 1}, NewText: "z"},
			},
		},
	}}

	offset := indexOfByte(html, 'g') + 2
	require.Empty(t, CodeActions(context.Background(), "a.html", vm, ah, offset, nil))
}
