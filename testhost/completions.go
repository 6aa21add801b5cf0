package testhost

import (
	"context"
	"sort"
	"strings"

	"github.com/aurelia-tools/aurelia-ls/host"
)

// Completions returns every view-model member whose name starts with the
// identifier prefix touching pos, when pos sits right after "_this.".
func (h *Host) Completions(ctx context.Context, pos host.Position) ([]host.CompletionItem, error) {
	h.mu.Lock()
	text := h.snapshots[pos.FilePath].Text
	h.mu.Unlock()

	_, ci, ok := h.classFor(pos.FilePath)
	if !ok {
		return nil, nil
	}

	word, start, _ := identifierAt(text, pos.Offset)
	if !memberAccessAt(text, start) {
		return nil, nil
	}
	prefix := word[:pos.Offset-start]

	var items []host.CompletionItem
	for _, m := range ci.members {
		if !strings.HasPrefix(m.Name, prefix) {
			continue
		}
		kind := "property"
		if m.Method {
			kind = "method"
		}
		items = append(items, host.CompletionItem{
			Name:       m.Name,
			Kind:       kind,
			SortKey:    m.Name,
			InsertText: m.Name,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SortKey < items[j].SortKey })
	return items, nil
}
