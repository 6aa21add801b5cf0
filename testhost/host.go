// Package testhost is a small reference implementation of host.AnalysisHost
// (spec §6), used only by this module's own tests. It answers completion,
// hover, diagnostics and related questions over an in-memory set of
// registered view-model classes rather than a real TypeScript engine,
// using expr-lang/expr — the same expression engine the teacher uses for
// its own interpolation checker — to parse and walk each synthesised
// expression body.
package testhost

import (
	"context"
	"sync"

	"github.com/aurelia-tools/aurelia-ls/host"
)

// classInfo is what the fake host knows about one registered view-model
// class: where it's declared and what members it exposes.
type classInfo struct {
	file    string
	members []host.ClassMember
}

// Host is an in-memory host.AnalysisHost. Zero value is not usable; build
// one with New.
type Host struct {
	mu        sync.Mutex
	snapshots map[string]host.Snapshot
	classes   map[string]classInfo
}

// New returns an empty Host.
func New() *Host {
	return &Host{
		snapshots: make(map[string]host.Snapshot),
		classes:   make(map[string]classInfo),
	}
}

// RegisterClass teaches the host about a view-model class: the file it's
// declared in and the members visible on it. Tests call this to set up
// the fixture a shadow buffer's "_this" resolves against.
func (h *Host) RegisterClass(className, file string, members []host.ClassMember) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.classes[className] = classInfo{file: file, members: members}
}

func (h *Host) Snapshot(ctx context.Context, path string) (host.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap, ok := h.snapshots[path]
	return snap, ok
}

func (h *Host) UpdateSnapshot(ctx context.Context, snap host.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshots[snap.FilePath] = snap
}

func (h *Host) ClassMembers(ctx context.Context, filePath, className string) ([]host.ClassMember, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ci, ok := h.classes[className]
	if !ok {
		return nil, nil
	}
	out := make([]host.ClassMember, len(ci.members))
	copy(out, ci.members)
	return out, nil
}

func (h *Host) classFor(filePath string) (string, classInfo, bool) {
	h.mu.Lock()
	text := h.snapshots[filePath].Text
	classes := h.classes
	h.mu.Unlock()

	name, ok := classNameDeclaredIn(text)
	if !ok {
		return "", classInfo{}, false
	}
	ci, ok := classes[name]
	return name, ci, ok
}

var _ host.AnalysisHost = (*Host)(nil)
