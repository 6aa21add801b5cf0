package features

import (
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/htmlext"
	"github.com/aurelia-tools/aurelia-ls/shadow"
	"github.com/aurelia-tools/aurelia-ls/span"
)

// rangeFromSpan converts a host.Span (which also carries a file path) into
// a bare span.Range in that file's own coordinate space.
func rangeFromSpan(s host.Span) span.Range {
	return span.Range{Start: s.Start, End: s.End}
}

// attributeNameAt returns the mapping whose binding sits on an attribute
// whose name span (the full name, e.g. "foo.bind" in foo.bind="x", not the
// value "x") contains offset. Interpolations have no attribute name and never match.
func attributeNameAt(vm *shadow.ViewMappings, offset int) (*shadow.Mapping, bool) {
	for i := range vm.Mappings {
		expr := vm.Mappings[i].Expression
		if expr.Kind != htmlext.Binding {
			continue
		}
		if expr.AttributeNameSpan.ContainsClosed(offset) {
			return &vm.Mappings[i], true
		}
	}
	return nil, false
}
