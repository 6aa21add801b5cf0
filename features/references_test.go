package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

func TestReferencesInsideExpression(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<p>${greeting} ${greeting}</p>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	offset := indexOfByte(html, 'g') + 2
	refs := References(context.Background(), vm, idx, ah, offset, nil)
	require.Len(t, refs, 2)
}

func TestReferencesOnCustomElementTagAcrossViews(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input></my-input>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", nil)

	views := []ViewSource{
		{URI: "a.html", HTMLText: html},
		{URI: "b.html", HTMLText: `<div><my-input foo.bind="x"></my-input></div>`},
	}

	refs := References(context.Background(), vm, idx, ah, 2, views)

	var files []string
	for _, r := range refs {
		files = append(files, r.FileName)
	}
	require.Contains(t, files, "a.html")
	require.Contains(t, files, "b.html")
	require.Contains(t, files, "my-input.ts") // the defining file
}

func TestReferencesOnBindableAttributeNameAcrossViews(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input foo.bind="greeting"></my-input>`
	vm := synthView(t, idx, ah, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "greeting", Type: "string"}})

	views := []ViewSource{
		{URI: "a.html", HTMLText: html},
		{URI: "b.html", HTMLText: `<my-input foo.bind="other"></my-input>`},
	}

	offset := indexOfByte(html, 'f') + 1 // inside the "foo" attribute name
	refs := References(context.Background(), vm, idx, ah, offset, views)

	var files []string
	for _, r := range refs {
		files = append(files, r.FileName)
	}
	require.Contains(t, files, "a.html")
	require.Contains(t, files, "b.html")
}
