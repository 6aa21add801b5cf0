package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

func TestHoverInsideExpression(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<p>${greeting}</p>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	offset := indexOfByte(html, 'g') + 2 // inside "greeting", away from the interpolation start
	res := Hover(context.Background(), vm, idx, ah, offset)
	require.NotNil(t, res)
	require.Equal(t, "greeting: string", res.Contents)
}

func TestHoverOnCustomElementTag(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input></my-input>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", nil)

	res := Hover(context.Background(), vm, idx, ah, 2) // inside "my-input" start tag
	require.NotNil(t, res)
	require.Contains(t, res.Contents, "my-input")
	require.Contains(t, res.Contents, "MyInputCustomElement")
}

func TestHoverOnBindableAttributeName(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input foo.bind="greeting"></my-input>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	offset := indexOfByte(html, 'f') + 1 // inside the "foo" attribute name
	res := Hover(context.Background(), vm, idx, ah, offset)
	require.NotNil(t, res)
	require.Contains(t, res.Contents, "foo")
	require.Contains(t, res.Contents, "my-input")
}

func TestHoverOutsideAnythingIsNil(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<p>hi</p>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", nil)

	require.Nil(t, Hover(context.Background(), vm, idx, ah, 1))
}
