package htmlext

import "strings"

// commandSuffixes are the binding-command suffixes recognized on an
// attribute name, e.g. "value.bind" or "click.trigger".
var commandSuffixes = []string{
	".bind", ".trigger", ".call", ".delegate", ".capture", ".ref",
	".one-time", ".to-view", ".from-view", ".two-way",
}

// templateControllers are attribute names that are Aurelia-significant on
// their own, without any command suffix.
var templateControllers = map[string]struct{}{
	"repeat.for": {}, "if": {}, "else": {}, "switch": {}, "case": {},
	"default-case": {}, "with": {}, "portal": {}, "view": {}, "au-slot": {},
}

// specialAttributes are Aurelia-significant attribute names outside the
// command-suffix and template-controller sets.
var specialAttributes = map[string]struct{}{
	"view-model": {}, "ref": {}, "element.ref": {},
}

// IsAureliaAttribute reports whether name is an attribute the framework
// gives meaning to: a template controller, a special attribute, a name
// ending in a recognized command suffix, or a name with an internal dot
// that is not at either end (a custom binding command we don't otherwise
// recognize by name, but which the "." syntax still marks as a binding).
func IsAureliaAttribute(name string) bool {
	if _, ok := templateControllers[name]; ok {
		return true
	}
	if _, ok := specialAttributes[name]; ok {
		return true
	}
	for _, suf := range commandSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	if dot := strings.IndexByte(name, '.'); dot > 0 && dot < len(name)-1 {
		return true
	}
	return false
}

// Command returns the part of an Aurelia attribute name after the last ".",
// or the whole name when it carries no dot (bare template controllers like
// "if" or special attributes like "ref").
func Command(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// CommandSuffixes returns the recognized binding-command suffixes (each
// starting with "."), in the fixed order used for completion suggestions.
func CommandSuffixes() []string {
	out := make([]string, len(commandSuffixes))
	copy(out, commandSuffixes)
	return out
}

// TemplateControllerNames returns every template-controller attribute name,
// unordered.
func TemplateControllerNames() []string {
	out := make([]string, 0, len(templateControllers))
	for name := range templateControllers {
		out = append(out, name)
	}
	return out
}

// IsVoidElement reports whether tag never has an end tag, matching the
// HTML5 void element list. Used to avoid waiting for a closing tag that
// will never arrive when pairing start/end tag ranges.
func IsVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "source", "track", "wbr":
		return true
	default:
		return false
	}
}
