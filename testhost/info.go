package testhost

import (
	"context"
	"fmt"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/host"
)

func (h *Host) memberNamed(pos host.Position) (host.ClassMember, host.Span, bool) {
	h.mu.Lock()
	text := h.snapshots[pos.FilePath].Text
	h.mu.Unlock()

	_, ci, ok := h.classFor(pos.FilePath)
	if !ok {
		return host.ClassMember{}, host.Span{}, false
	}

	name, start, end := identifierAt(text, pos.Offset)
	if name == "_this" && end < len(text) && text[end] == '.' {
		// A position anywhere on "_this" itself (e.g. the very start of a
		// "_this.member" expression, which is where callers ask for "the
		// expression's type") resolves to the member it qualifies.
		name, start, end = identifierAt(text, end+1)
	} else if !memberAccessAt(text, start) {
		return host.ClassMember{}, host.Span{}, false
	}

	for _, m := range ci.members {
		if m.Name == name {
			return m, host.Span{FilePath: pos.FilePath, Start: start, End: end}, true
		}
	}
	return host.ClassMember{}, host.Span{}, false
}

// QuickInfo describes the view-model member the cursor sits on, if any.
func (h *Host) QuickInfo(ctx context.Context, pos host.Position) (*host.QuickInfo, error) {
	m, sp, ok := h.memberNamed(pos)
	if !ok {
		return nil, nil
	}
	display := m.Name + ": " + m.Type
	if m.Method {
		display = m.Name + "(): " + m.Type
	}
	return &host.QuickInfo{DisplayParts: display, Span: sp}, nil
}

// Definitions points back at the member's declaring class file. It never
// knows the member's exact line within that file, so it reports the file's
// start — good enough for a fake whose job is only to exercise the
// Feature Translation Layer's mapping, not to pinpoint real declarations.
func (h *Host) Definitions(ctx context.Context, pos host.Position) ([]host.DefinitionInfo, error) {
	m, _, ok := h.memberNamed(pos)
	if !ok {
		return nil, nil
	}
	_, ci, _ := h.classFor(pos.FilePath)
	return []host.DefinitionInfo{{
		Target: host.Span{FilePath: ci.file, Start: 0, End: len(m.Name)},
	}}, nil
}

// References reports every occurrence of the member's name across every
// snapshot the host currently holds, approximating a real references scan.
func (h *Host) References(ctx context.Context, pos host.Position) ([]host.ReferenceEntry, error) {
	m, _, ok := h.memberNamed(pos)
	if !ok {
		return nil, nil
	}

	h.mu.Lock()
	snaps := make(map[string]string, len(h.snapshots))
	for path, snap := range h.snapshots {
		snaps[path] = snap.Text
	}
	h.mu.Unlock()

	var out []host.ReferenceEntry
	needle := "_this." + m.Name
	for path, text := range snaps {
		idx := 0
		for {
			at := strings.Index(text[idx:], needle)
			if at == -1 {
				break
			}
			start := idx + at + len("_this.")
			out = append(out, host.ReferenceEntry{
				FileName: path,
				Span:     host.Span{FilePath: path, Start: start, End: start + len(m.Name)},
			})
			idx += at + len(needle)
		}
	}
	return out, nil
}

// RenameLocations treats every reference as renameable, matching
// References's scan.
func (h *Host) RenameLocations(ctx context.Context, pos host.Position) ([]host.RenameLocation, bool, error) {
	refs, err := h.References(ctx, pos)
	if err != nil || len(refs) == 0 {
		return nil, false, err
	}
	locs := make([]host.RenameLocation, len(refs))
	for i, r := range refs {
		locs[i] = host.RenameLocation{FileName: r.FileName, Span: r.Span}
	}
	return locs, true, nil
}

// CodeFixes offers no fixes; the fake host has no real diagnostics-to-fix
// mapping, only a bare unknown-member/parse-error diagnostic (see
// diagnostics.go), so there's nothing concrete to suggest here.
func (h *Host) CodeFixes(ctx context.Context, pos host.Position, errorCodes []int) ([]host.CodeFix, error) {
	return nil, nil
}

// SignatureHelp returns a trivial single candidate for a method member at
// pos, enough for the Feature Translation Layer's tests to exercise the
// signature-help path without a real call-signature resolver.
func (h *Host) SignatureHelp(ctx context.Context, pos host.Position) ([]host.SignatureInfo, error) {
	m, _, ok := h.memberNamed(pos)
	if !ok || !m.Method {
		return nil, nil
	}
	return []host.SignatureInfo{{
		Label:       fmt.Sprintf("%s(): %s", m.Name, m.Type),
		ActiveParam: -1,
	}}, nil
}

// SemanticTokens classifies every "_this.<member>" occurrence in the file
// as "property" or "method" per the member's kind.
func (h *Host) SemanticTokens(ctx context.Context, filePath string, sp *host.Span) ([]host.ClassifiedToken, error) {
	h.mu.Lock()
	text := h.snapshots[filePath].Text
	h.mu.Unlock()

	_, ci, ok := h.classFor(filePath)
	if !ok {
		return nil, nil
	}
	byName := make(map[string]host.ClassMember, len(ci.members))
	for _, m := range ci.members {
		byName[m.Name] = m
	}

	var out []host.ClassifiedToken
	const prefix = "_this."
	idx := 0
	for {
		at := strings.Index(text[idx:], prefix)
		if at == -1 {
			break
		}
		start := idx + at + len(prefix)
		name, _, end := identifierAt(text, start)
		if m, ok := byName[name]; ok {
			if sp == nil || (start >= sp.Start && end <= sp.End) {
				class := "property"
				if m.Method {
					class = "method"
				}
				out = append(out, host.ClassifiedToken{
					Span:           host.Span{FilePath: filePath, Start: start, End: end},
					Classification: class,
				})
			}
		}
		idx = end
	}
	return out, nil
}

// TypeAtPosition reports the member's declared type, or "any" for anything
// else (an expression, an unknown identifier).
func (h *Host) TypeAtPosition(ctx context.Context, pos host.Position) (string, error) {
	if m, _, ok := h.memberNamed(pos); ok {
		if m.Type != "" {
			return m.Type, nil
		}
	}
	return "any", nil
}

// AssignableTo follows the teacher's own permissive shape lattice (see
// DESIGN.md): "any" is assignable to and from everything, otherwise the
// two type names must match exactly. A real engine's structural/nominal
// compatibility rules are out of scope for a test fixture.
func (h *Host) AssignableTo(ctx context.Context, fromType, toType string) (bool, error) {
	if fromType == "any" || toType == "any" || fromType == "" || toType == "" {
		return true, nil
	}
	return fromType == toType, nil
}
