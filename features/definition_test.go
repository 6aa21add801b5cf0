package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

func TestDefinitionInsideExpression(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<p>${greeting}</p>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	offset := indexOfByte(html, 'g') + 2
	defs := Definition(context.Background(), vm, idx, ah, offset)
	require.Len(t, defs, 1)
	require.Equal(t, "a.ts", defs[0].TargetFile)
}

func TestDefinitionOnCustomElementTag(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input></my-input>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", nil)

	defs := Definition(context.Background(), vm, idx, ah, 2)
	require.Len(t, defs, 1)
	require.Equal(t, "my-input.ts", defs[0].TargetFile)
	require.False(t, defs[0].TargetRange.IsEmpty())
}

func TestDefinitionOnBindableAttributeName(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input foo.bind="greeting"></my-input>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	offset := indexOfByte(html, 'f') + 1 // inside the "foo" attribute name
	defs := Definition(context.Background(), vm, idx, ah, offset)
	require.Len(t, defs, 1)
	require.Equal(t, "my-input.ts", defs[0].TargetFile)
	require.False(t, defs[0].TargetRange.IsEmpty())
}

func TestDefinitionNoActiveMappingNoTagIsEmpty(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `hi`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", nil)

	require.Empty(t, Definition(context.Background(), vm, idx, ah, 0))
}
