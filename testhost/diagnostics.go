package testhost

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/aurelia-tools/aurelia-ls/host"
)

// Diagnostics parses every synthesised expression body in filePath with
// expr-lang's own parser (the same engine the teacher's interpolation
// checker builds on) and reports two kinds of problem: a syntax error from
// the parser itself, and a reference to a name that isn't in the registered
// class's member list, either as "_this.<member>" or as a bare identifier
// (the synthesiser leaves unknown names un-rewritten).
func (h *Host) Diagnostics(ctx context.Context, filePath string) ([]host.Diagnostic, error) {
	h.mu.Lock()
	text := h.snapshots[filePath].Text
	h.mu.Unlock()

	_, ci, ok := h.classFor(filePath)
	if !ok {
		return nil, nil
	}
	members := make(map[string]struct{}, len(ci.members))
	for _, m := range ci.members {
		members[m.Name] = struct{}{}
	}

	var diags []host.Diagnostic
	for _, b := range exprBlocksIn(text) {
		tree, err := parser.Parse(b.body)
		if err != nil {
			diags = append(diags, host.Diagnostic{
				FileName: filePath,
				Span:     host.Span{FilePath: filePath, Start: b.bodyStart, End: b.bodyEnd},
				Message:  err.Error(),
				Severity: host.SeverityError,
			})
			continue
		}
		walkUnknownMembers(tree.Node, b.bodyStart, members, filePath, &diags)
	}
	return diags, nil
}

// walkUnknownMembers recursively visits node looking for "_this.<member>"
// accesses and bare identifiers (other than "_this") whose name isn't in
// members, reporting one diagnostic per offender. offset is the absolute byte position of the expression body
// node's text started at, for translating expr-lang's in-body positions
// into shadow-buffer offsets.
func walkUnknownMembers(node ast.Node, offset int, members map[string]struct{}, filePath string, out *[]host.Diagnostic) {
	switch n := node.(type) {
	case *ast.MemberNode:
		if id, ok := n.Node.(*ast.IdentifierNode); ok && id.Value == "_this" {
			name, ok := memberPropertyName(n.Property)
			if ok {
				if _, known := members[name]; !known {
					loc := n.Location()
					start := offset + loc.From
					*out = append(*out, host.Diagnostic{
						FileName: filePath,
						Span:     host.Span{FilePath: filePath, Start: start, End: start + len(name)},
						Message:  fmt.Sprintf("unknown member %q", name),
						Severity: host.SeverityError,
					})
				}
			}
		} else {
			walkUnknownMembers(n.Node, offset, members, filePath, out)
		}
	case *ast.IdentifierNode:
		if _, known := members[n.Value]; !known && n.Value != "_this" {
			start := offset + n.Location().From
			*out = append(*out, host.Diagnostic{
				FileName: filePath,
				Span:     host.Span{FilePath: filePath, Start: start, End: start + len(n.Value)},
				Message:  fmt.Sprintf("unknown member %q", n.Value),
				Severity: host.SeverityError,
			})
		}
	case *ast.BinaryNode:
		walkUnknownMembers(n.Left, offset, members, filePath, out)
		walkUnknownMembers(n.Right, offset, members, filePath, out)
	case *ast.UnaryNode:
		walkUnknownMembers(n.Node, offset, members, filePath, out)
	case *ast.ConditionalNode:
		walkUnknownMembers(n.Cond, offset, members, filePath, out)
		walkUnknownMembers(n.Exp1, offset, members, filePath, out)
		walkUnknownMembers(n.Exp2, offset, members, filePath, out)
	case *ast.CallNode:
		walkUnknownMembers(n.Callee, offset, members, filePath, out)
		for _, a := range n.Arguments {
			walkUnknownMembers(a, offset, members, filePath, out)
		}
	case *ast.BuiltinNode:
		for _, a := range n.Arguments {
			walkUnknownMembers(a, offset, members, filePath, out)
		}
	case *ast.ArrayNode:
		for _, el := range n.Nodes {
			walkUnknownMembers(el, offset, members, filePath, out)
		}
	case *ast.MapNode:
		for _, p := range n.Pairs {
			if pair, ok := p.(*ast.PairNode); ok {
				walkUnknownMembers(pair.Value, offset, members, filePath, out)
			}
		}
	case *ast.SequenceNode:
		for _, e := range n.Nodes {
			walkUnknownMembers(e, offset, members, filePath, out)
		}
	}
}

func memberPropertyName(prop ast.Node) (string, bool) {
	switch p := prop.(type) {
	case *ast.StringNode:
		return p.Value, true
	case *ast.IdentifierNode:
		return p.Value, true
	default:
		return "", false
	}
}
