package compindex

import (
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// sourceExtensions are the view-model source files scanProject/updateForFile
// look at for class declarations.
var sourceExtensions = map[string]struct{}{
	".ts": {}, ".js": {},
}

// scanFile extracts every ComponentInfo a single source file's class
// declarations define. hasSibling reports whether a same-basename .html
// file exists next to it (used by discovery rule 5, the implicit element).
func scanFile(filePath, source string, hasSibling func(basename string) bool) []*ComponentInfo {
	var out []*ComponentInfo

	for _, c := range findClasses(source) {
		kind, name, ok := classifyClass(filePath, c, hasSibling)
		if !ok {
			continue
		}
		out = append(out, &ComponentInfo{
			Kind:           kind,
			CanonicalName:  name,
			ClassName:      c.name,
			SourceFile:     filePath,
			ClassNameRange: c.nameRange,
			Bindables:      bindablesOf(source, c),
		})
	}
	return out
}

// classifyClass applies the discovery rules of spec §4.B to one class
// declaration, in priority order: explicit decorators, then the
// ValueConverter-suffix convention, then the implicit-element convention.
func classifyClass(filePath string, c classDecl, hasSibling func(string) bool) (Kind, string, bool) {
	if arg, ok := decoratorArg(c.decoratorText, "customElement"); ok {
		return Element, nameOrConvention(arg, c.name, Element), true
	}
	if arg, ok := decoratorArg(c.decoratorText, "customAttribute"); ok {
		return Attribute, nameOrConvention(arg, c.name, Attribute), true
	}
	if arg, ok := decoratorArg(c.decoratorText, "valueConverter"); ok {
		return ValueConverter, nameOrConvention(arg, c.name, ValueConverter), true
	}
	if strings.HasSuffix(c.name, valueConverterSuffix) {
		return ValueConverter, conventionalName(c.name, ValueConverter), true
	}

	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	if hasSibling != nil && hasSibling(base) {
		return Element, conventionalName(c.name, Element), true
	}
	return 0, "", false
}

func nameOrConvention(arg, className string, kind Kind) string {
	if name, ok := resolveExplicitName(arg); ok {
		return name
	}
	return conventionalName(className, kind)
}

// ScanProject populates idx from a full read of fsys, starting at root.
// A file-level I/O or scan error skips just that file; the scan as a whole
// never aborts, per spec §4.B/§7.
func ScanProject(idx *Index, fsys fs.FS, root string, logger *slog.Logger) {
	if !idx.tryBeginScan() {
		return
	}
	defer idx.endScan()
	logger = nonNilLogger(logger)

	var htmlBases = map[string]struct{}{}
	var tsFiles []string

	_ = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("compindex: walk error, skipping", "path", p, "err", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		if ext == ".html" {
			htmlBases[strings.TrimSuffix(path.Base(p), ext)] = struct{}{}
		} else if _, ok := sourceExtensions[ext]; ok {
			tsFiles = append(tsFiles, p)
		}
		return nil
	})

	hasSibling := func(base string) bool {
		_, ok := htmlBases[base]
		return ok
	}

	for _, f := range tsFiles {
		registerFile(idx, fsys, f, hasSibling, logger)
	}
}

// UpdateForFile incrementally refreshes the index's contribution from a
// single source file, and reports whether the index changed. A rescan of
// a file always starts by discarding that file's previous contributions
// (spec §4.B: "each re-scan of a file replaces precisely that file's
// contributions").
func UpdateForFile(idx *Index, fsys fs.FS, filePath string, hasSibling func(string) bool, logger *slog.Logger) bool {
	logger = nonNilLogger(logger)
	before := namesForFile(idx, filePath)
	idx.clearFile(filePath)
	registerFile(idx, fsys, filePath, hasSibling, logger)
	after := namesForFile(idx, filePath)
	return !sameSet(before, after)
}

func registerFile(idx *Index, fsys fs.FS, filePath string, hasSibling func(string) bool, logger *slog.Logger) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		logger.Warn("compindex: could not read file, skipping", "path", filePath, "err", err)
		return
	}
	for _, ci := range scanFile(filePath, string(data), hasSibling) {
		ci.URI = filePath
		if !idx.register(ci.CanonicalName, ci, filePath) {
			logger.Info("compindex: name collision, keeping first writer",
				"name", ci.CanonicalName, "file", filePath)
		}
	}
}

func namesForFile(idx *Index, filePath string) map[string]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	names := idx.byFile[filePath]
	out := make(map[string]struct{}, len(names))
	for n := range names {
		out[n] = struct{}{}
	}
	return out
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func nonNilLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// reBindableList splits a root bindable="a,b c" attribute value on commas
// and/or whitespace, per spec §9's resolution of that open question.
var reBindableList = regexp.MustCompile(`[\s,]+`)

// ScanHTMLOnlyComponents discovers views under root whose root element is
// a <template> and which have no paired view-model source file; they are
// registered as implicit elements named after the file, with bindables
// parsed from a root-level bindable="..." attribute.
//
// The root element is read with beevik/etree (the XML tree the teacher
// uses for its own simplified structural passes in chtml/component.go)
// rather than the full htmlext tokenizer: this pass only ever looks at one
// element's attributes, not the whole document.
func ScanHTMLOnlyComponents(idx *Index, fsys fs.FS, workspaceRoot string, logger *slog.Logger) {
	logger = nonNilLogger(logger)

	var htmlFiles []string
	var hasSource = map[string]struct{}{}

	_ = fs.WalkDir(fsys, workspaceRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := path.Ext(p)
		base := strings.TrimSuffix(path.Base(p), ext)
		if ext == ".html" {
			htmlFiles = append(htmlFiles, p)
		} else if _, ok := sourceExtensions[ext]; ok {
			hasSource[base] = struct{}{}
		}
		return nil
	})

	for _, f := range htmlFiles {
		base := strings.TrimSuffix(path.Base(f), path.Ext(f))
		if _, paired := hasSource[base]; paired {
			continue
		}

		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			logger.Warn("compindex: could not read view, skipping", "path", f, "err", err)
			continue
		}

		bindables, isTemplate := rootTemplateBindables(string(data))
		if !isTemplate {
			continue
		}

		ci := &ComponentInfo{
			URI:           f,
			Kind:          Element,
			CanonicalName: kebabCase(base),
			SourceFile:    f,
			Bindables:     bindables,
		}
		if !idx.register(ci.CanonicalName, ci, f) {
			logger.Info("compindex: name collision for HTML-only component",
				"name", ci.CanonicalName, "file", f)
		}
	}
}

// rootTemplateBindables reports whether the document's root element is a
// <template>, and if so parses any bindable="..." attribute on it.
func rootTemplateBindables(htmlText string) ([]Bindable, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(htmlText); err != nil || doc.Root() == nil {
		return nil, false
	}
	root := doc.Root()
	if !strings.EqualFold(root.Tag, "template") {
		return nil, false
	}

	attr := root.SelectAttr("bindable")
	if attr == nil || strings.TrimSpace(attr.Value) == "" {
		return nil, true
	}
	var out []Bindable
	for _, name := range reBindableList.Split(strings.TrimSpace(attr.Value), -1) {
		if name == "" {
			continue
		}
		out = append(out, Bindable{PropertyName: name})
	}
	return out, true
}
