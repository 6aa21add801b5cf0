package features

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

// completionMockHost overrides Completions to return a crafted raw list so
// the filtering rules in expressionCompletions can be exercised directly,
// without depending on testhost's own narrow prefix-matching.
type completionMockHost struct {
	*testhost.Host
	items []host.CompletionItem
}

func (m *completionMockHost) Completions(ctx context.Context, pos host.Position) ([]host.CompletionItem, error) {
	return m.items, nil
}

func TestCompletionFiltersShadowArtifactsAndKeywords(t *testing.T) {
	idx := compindex.New()
	inner := testhost.New()
	ah := &completionMockHost{Host: inner, items: []host.CompletionItem{
		{Name: "_this", Kind: "variable"},
		{Name: "__filename", Kind: "variable"},
		{Name: "Foo", Kind: "class"},
		{Name: "true", Kind: "keyword", IsKeyword: true},
		{Name: "break", Kind: "keyword", IsKeyword: true},
		{Name: "bar", Kind: "property"},
	}}

	vm := synthView(t, idx, inner, "a.html", `<p>${bar}</p>`, "a.ts", "App", []host.ClassMember{{Name: "bar", Type: "string"}})

	items := Completion(context.Background(), vm, idx, ah, `<p>${bar}</p>`, 5)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	// "bar" is a member of the view-model class App; view-model membership
	// sorts ahead of everything else, per spec.
	require.Equal(t, []string{"bar", "true"}, labels)
}

func TestCompletionOrdersByMembershipThenSortKey(t *testing.T) {
	idx := compindex.New()
	inner := testhost.New()
	ah := &completionMockHost{Host: inner, items: []host.CompletionItem{
		{Name: "toString", Kind: "method", SortKey: "0"},
		{Name: "age", Kind: "property", SortKey: "2"},
		{Name: "name", Kind: "property", SortKey: "1"},
	}}

	vm := synthView(t, idx, inner, "a.html", `<p>${name}</p>`, "a.ts", "App", []host.ClassMember{
		{Name: "name", Type: "string"},
		{Name: "age", Type: "number"},
	})

	items := Completion(context.Background(), vm, idx, ah, `<p>${name}</p>`, 5)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	// "name"/"age" are view-model members (sorted by their own host sort
	// keys first), "toString" is not a member and sorts last despite
	// having the lowest sort key.
	require.Equal(t, []string{"name", "age", "toString"}, labels)
}

func TestCompletionAfterPipeOffersOnlyValueConverters(t *testing.T) {
	idx := valueConverterIndex(t, "upper")
	inner := testhost.New()
	ah := &completionMockHost{Host: inner, items: []host.CompletionItem{{Name: "bar", Kind: "property"}}}

	html := `<p>${name | }</p>`
	vm := synthView(t, idx, inner, "a.html", html, "a.ts", "App", []host.ClassMember{{Name: "name", Type: "string"}})

	offset := indexOfByte(html, '|') + 2 // just past "| "
	items := Completion(context.Background(), vm, idx, ah, html, offset)

	require.Len(t, items, 1)
	require.Equal(t, "upper", items[0].Label)
	require.Equal(t, "valueConverter", items[0].Kind)
}

func TestCompletionTagNameContext(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my`
	vm := synthView(t, idx, ah, "a.html", `<p>hi</p>`, "a.ts", "App", nil)

	items := Completion(context.Background(), vm, idx, ah, html, len(html))
	require.Len(t, items, 1)
	require.Equal(t, "my-input", items[0].Label)
	require.Equal(t, "element", items[0].Kind)
}

func TestCompletionAttributeAreaIncludesEnclosingBindables(t *testing.T) {
	idx := elementIndex(t, "my-input", "MyInputCustomElement")
	ah := testhost.New()
	html := `<my-input `
	vm := synthView(t, idx, ah, "a.html", `<p>hi</p>`, "a.ts", "App", nil)

	items := Completion(context.Background(), vm, idx, ah, html, len(html))
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	require.Contains(t, labels, "foo")
	require.Contains(t, labels, "foo.bind")
}

func TestCompletionAfterCommandDotOffersSuffixesExceptRef(t *testing.T) {
	idx := compindex.New()
	ah := testhost.New()
	html := `<my-input foo.`
	vm := synthView(t, idx, ah, "a.html", `<p>hi</p>`, "a.ts", "App", nil)

	items := Completion(context.Background(), vm, idx, ah, html, len(html))
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	require.Contains(t, labels, "bind")
	require.NotContains(t, labels, "ref")
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func valueConverterIndex(t *testing.T, name string) *compindex.Index {
	t.Helper()
	idx := compindex.New()
	fsys := fstest.MapFS{
		"upper.ts": &fstest.MapFile{Data: []byte(
			"@valueConverter('" + name + "')\nexport class UpperValueConverter {\n  toView(v) { return v; }\n}\n",
		)},
	}
	compindex.ScanProject(idx, fsys, ".", nil)
	return idx
}

func elementIndex(t *testing.T, tagName, className string) *compindex.Index {
	t.Helper()
	idx := compindex.New()
	fsys := fstest.MapFS{
		tagName + ".ts": &fstest.MapFile{Data: []byte(
			"@customElement('" + tagName + "')\nexport class " + className + " {\n  @bindable foo;\n}\n",
		)},
	}
	compindex.ScanProject(idx, fsys, ".", nil)
	return idx
}
