package compindex

import (
	"strings"

	"github.com/fatih/camelcase"
)

// kebabCase converts an identifier like "MyInputField" or "myInputField"
// into "my-input-field". camelcase.Split breaks the identifier on
// case-boundaries (and digit/letter boundaries); we lower-case each piece
// and join with "-". Split also returns runs of "-", "_" or spaces as
// pieces of their own; those are dropped, so an already kebab-cased name
// such as "my-widget" comes back unchanged.
func kebabCase(identifier string) string {
	parts := camelcase.Split(identifier)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.Trim(p, "-_ ") == "" {
			continue
		}
		words = append(words, strings.ToLower(p))
	}
	return strings.Join(words, "-")
}

// valueConverterSuffix is the conventional class-name suffix that marks a
// value converter when no @valueConverter decorator is present.
const valueConverterSuffix = "ValueConverter"

// conventionalName applies the naming convention for a class with no (or
// an argument-less) decorator: strip the ValueConverter suffix if kind is
// ValueConverter, then kebab-case what remains.
func conventionalName(className string, kind Kind) string {
	base := className
	if kind == ValueConverter {
		base = strings.TrimSuffix(base, valueConverterSuffix)
	}
	return kebabCase(base)
}
