package features

import (
	"context"
	"fmt"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// Diagnostics implements spec §4.D's diagnostics feature: host diagnostics
// over the shadow, inverse-mapped, plus a bindable-type assignability
// check for every binding mapping on a known custom element.
func Diagnostics(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost) []Diagnostic {
	raw, err := ah.Diagnostics(ctx, vm.ShadowURI)
	if err != nil {
		return nil
	}

	var out []Diagnostic
	for _, d := range raw {
		m := mappingCoveringShadowOffset(vm, d.Span.Start)
		if m == nil {
			continue
		}
		out = append(out, Diagnostic{
			Range:    shadow.Inverse(m, d.Span.Start, d.Span.End),
			Message:  d.Message,
			Severity: d.Severity,
			Code:     d.Code,
		})
	}

	out = append(out, bindableAssignabilityDiagnostics(ctx, vm, idx, ah)...)
	return out
}

func mappingCoveringShadowOffset(vm *shadow.ViewMappings, o int) *shadow.Mapping {
	for i := range vm.Mappings {
		if vm.Mappings[i].ShadowBlockRange.ContainsClosed(o) {
			return &vm.Mappings[i]
		}
	}
	return nil
}

// bindableAssignabilityDiagnostics checks every binding mapping whose
// attribute belongs to a known custom element's bindable set for
// type-compatibility between the expression and the property, per the
// command's data-flow direction (spec §4.D).
func bindableAssignabilityDiagnostics(ctx context.Context, vm *shadow.ViewMappings, idx *compindex.Index, ah host.AnalysisHost) []Diagnostic {
	var out []Diagnostic
	for i := range vm.Mappings {
		m := &vm.Mappings[i]
		expr := m.Expression
		if expr.ElementTag == "" || expr.Command == "" {
			continue
		}
		ci, ok := idx.Lookup(expr.ElementTag)
		if !ok || ci.Kind != compindex.Element {
			continue
		}

		bindableName := attributeBindableName(expr.AttributeName)
		var property *compindex.Bindable
		for j := range ci.Bindables {
			if ci.Bindables[j].AttributeOrDefault() == bindableName {
				property = &ci.Bindables[j]
				break
			}
		}
		if property == nil {
			continue
		}

		propType, ok := lookupMemberType(ctx, ah, ci.SourceFile, ci.ClassName, property.PropertyName)
		if !ok {
			continue
		}
		exprType, err := ah.TypeAtPosition(ctx, host.Position{FilePath: vm.ShadowURI, Offset: m.ShadowValueRange.Start})
		if err != nil {
			continue
		}

		diag, bad := checkAssignability(ctx, ah, expr.Command, exprType, propType, property.PropertyName)
		if bad {
			diag.Range = expr.HTMLSpan
			out = append(out, diag)
		}
	}
	return out
}

func lookupMemberType(ctx context.Context, ah host.AnalysisHost, sourceFile, className, memberName string) (string, bool) {
	members, err := ah.ClassMembers(ctx, sourceFile, className)
	if err != nil {
		return "", false
	}
	for _, m := range members {
		if m.Name == memberName {
			return m.Type, true
		}
	}
	return "", false
}

func attributeBindableName(attributeName string) string {
	for i := 0; i < len(attributeName); i++ {
		if attributeName[i] == '.' {
			return attributeName[:i]
		}
	}
	return attributeName
}

// checkAssignability applies spec §4.D's per-command direction rule,
// returning (diagnostic, true) when the check fails.
func checkAssignability(ctx context.Context, ah host.AnalysisHost, command, exprType, propType, propertyName string) (Diagnostic, bool) {
	switch command {
	case "bind", "to-view":
		return assignabilityDiagnostic(ctx, ah, exprType, propType, propertyName)
	case "from-view":
		return assignabilityDiagnostic(ctx, ah, propType, exprType, propertyName)
	case "two-way":
		if d, bad := assignabilityDiagnostic(ctx, ah, exprType, propType, propertyName); bad {
			return d, true
		}
		return assignabilityDiagnostic(ctx, ah, propType, exprType, propertyName)
	default:
		return Diagnostic{}, false
	}
}

func assignabilityDiagnostic(ctx context.Context, ah host.AnalysisHost, from, to, propertyName string) (Diagnostic, bool) {
	ok, err := ah.AssignableTo(ctx, from, to)
	if err != nil || ok {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Message:  fmt.Sprintf("type %q is not assignable to bindable %q of type %q", from, propertyName, to),
		Severity: host.SeverityError,
	}, true
}
