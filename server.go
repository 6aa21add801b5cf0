// Package aurelia is the Aurelia view Language Server core: it wires the
// HTML Expression Extractor, Component Index, Shadow Synthesiser, and
// Feature Translation Layer (spec §2) behind a single entry point, the way
// the teacher's pages.Handler wires chtml's parser/renderer behind
// ServeHTTP. There is no transport surface here — that is an explicit
// Non-goal (spec §1) left to an embedding application.
package aurelia

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/config"
	"github.com/aurelia-tools/aurelia-ls/features"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/shadow"
)

// Server is the library's top-level entry point: one instance per project.
// Zero value is not usable; build one with New.
type Server struct {
	// Host is the type-aware Analysis Host collaborator (spec §6). Required.
	Host host.AnalysisHost

	// Options configures logging verbosity and feature toggles (spec §6).
	Options config.Options

	// Logger receives internal events. A nil-safe discard logger is
	// installed on first use if this is left unset, exactly as
	// pages.Handler.Logger does.
	Logger *slog.Logger

	// Registry owns the view/component-index/member-cache state. New
	// creates one; if it is still nil on first use, one is created then.
	Registry *Registry

	init   sync.Once
	logger *slog.Logger
}

// New returns a Server ready to serve requests against ah.
func New(ah host.AnalysisHost, opts config.Options) *Server {
	return &Server{
		Host:     ah,
		Options:  opts,
		Registry: NewRegistry(),
	}
}

func (s *Server) ensureInit() {
	s.init.Do(func() {
		if s.Options.Logging.Level == "" {
			s.Options = config.Default()
		}

		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		switch {
		case s.Options.Logging.Level == config.LogNone:
			// none always wins, even over a caller-supplied Logger: spec §6's
			// "none" means no internal events reach any handler.
		case s.Logger != nil:
			s.logger = s.Logger
		default:
			s.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
				Level: slogLevel(s.Options.Logging.Level),
			}))
		}

		if s.Registry == nil {
			s.Registry = NewRegistry()
		}
	})
}

// slogLevel maps config.LogLevel onto slog's four-level scheme (spec §6).
// LogLog, the teacher's console.log-equivalent "always on" level, maps to
// Info; LogNone is handled by ensureInit before this is ever consulted.
func slogLevel(l config.LogLevel) slog.Level {
	switch l {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ScanProject populates the Component Index from a full project snapshot
// (spec §4.B), then discovers HTML-only components with no paired class
// file (spec §4.B's scanHtmlOnlyComponents). A scan already in flight makes
// compindex.ScanProject a no-op per spec §4.B/§5; that is reported back to
// the caller as ErrScanInProgress so it knows the index was not refreshed.
func (s *Server) ScanProject(fsys fs.FS, root string) error {
	s.ensureInit()
	if s.Registry.Index.Scanning() {
		return ErrScanInProgress
	}
	compindex.ScanProject(s.Registry.Index, fsys, root, s.logger)
	compindex.ScanHTMLOnlyComponents(s.Registry.Index, fsys, root, s.logger)
	return nil
}

// OpenView registers or updates a view (spec §4.E: Unknown->Registered, or
// a content change marking an already-Fresh view Stale), then schedules a
// synthesise on the Registry's task queue per §5's "expensive steps are
// deferred". Call RunScheduled (or access v.Mappings after it runs) to
// observe the result.
func (s *Server) OpenView(uri, htmlText, vmFsPath, vmClassName, vmContent string) *ViewDocument {
	s.ensureInit()
	v := s.Registry.Open(uri, htmlText, vmFsPath, vmClassName, vmContent)
	s.Registry.queue.Defer(func() {
		s.synthesiseNow(v)
	})
	return v
}

// CloseView removes a view from the registry (spec §4.E: * -> Gone).
func (s *Server) CloseView(uri string) {
	s.ensureInit()
	s.Registry.Close(uri)
}

// RunScheduled drains the task queue: every deferred synthesise and
// diagnostics-on-Fresh step queued since the last call runs now, in order.
// This is the library's single cooperative-scheduler tick (spec §5); an
// embedding application calls it once per its own event-loop turn.
func (s *Server) RunScheduled() {
	s.ensureInit()
	s.Registry.queue.Run()
}

// synthesiseNow runs Shadow Synthesiser + Mapping Algebra for v and commits
// the result, then schedules diagnostics to run on the next task-queue turn
// (spec §4.E: "diagnostic emission is bound to the transition into Fresh").
// A missing paired view-model is spec §7 error kind 1 ("drop the view's
// ViewMappings and shadow; no diagnostics emitted"): v.Mappings is cleared
// and the view demoted back to Registered, distinct from a host error on an
// already-synthesised view, which leaves the last Fresh ViewMappings in
// place so in-flight feature requests keep serving it per §5's "served
// against the last Fresh ViewMappings".
func (s *Server) synthesiseNow(v *ViewDocument) {
	if v.ViewModelFsPath == "" || v.ViewModelClassName == "" {
		s.logger.Error("synthesise view", "uri", v.URI, "err", ErrViewModelMissing)
		v.Mappings = nil
		v.transition(Registered)
		return
	}

	prevVersion := 0
	if v.Mappings != nil {
		prevVersion = v.Mappings.ShadowVersion
	}

	mappings, err := shadow.Synthesise(context.Background(), shadow.ViewInput{
		URI:                v.URI,
		HTMLText:           v.HTMLText,
		ViewModelFsPath:    v.ViewModelFsPath,
		ViewModelClassName: v.ViewModelClassName,
		ViewModelContent:   v.ViewModelContent,
	}, s.Registry.Index, s.Host, s.Registry.Members, prevVersion)
	if err != nil {
		s.logger.Error("synthesise view", "uri", v.URI, "err", err)
		return
	}

	s.Registry.commitSynthesis(v.URI, mappings)
	s.Host.UpdateSnapshot(context.Background(), host.Snapshot{
		FilePath: mappings.ShadowURI,
		Text:     mappings.ShadowText,
		Version:  mappings.ShadowVersion,
	})

	if s.Options.Diagnostics.Enable {
		s.Registry.queue.Defer(func() {
			s.Diagnostics(v.URI)
		})
	}
}

// emptyMappings is the answer every feature gets for a view that has never
// been synthesised: every feature function dereferences its *ViewMappings
// argument, so this stands in for "no active mapping anywhere", which is
// exactly what an empty Mappings/ElementTagRanges set produces.
var emptyMappings = &shadow.ViewMappings{}

// activeMappings returns v and its current ViewMappings, or emptyMappings
// if v has never been synthesised (Unknown/Registered) or was removed
// (Gone). Per spec §5, a Stale view still serves its last Fresh mappings.
func (s *Server) activeMappings(uri string) (*ViewDocument, *shadow.ViewMappings) {
	v, ok := s.Registry.View(uri)
	if !ok || v.Mappings == nil {
		return v, emptyMappings
	}
	return v, v.Mappings
}

// Completion implements spec §4.D's completion feature.
func (s *Server) Completion(uri string, offset int) []features.CompletionItem {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.Completion(context.Background(), vm, s.Registry.Index, s.Host, v.HTMLText, offset)
}

// Hover implements spec §4.D's hover feature.
func (s *Server) Hover(uri string, offset int) *features.HoverResult {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.Hover(context.Background(), vm, s.Registry.Index, s.Host, offset)
}

// Definition implements spec §4.D's go-to-definition feature.
func (s *Server) Definition(uri string, offset int) []features.DefinitionResult {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.Definition(context.Background(), vm, s.Registry.Index, s.Host, offset)
}

// References implements spec §4.D's find-references feature. allViews is
// every other view's current HTML text, needed for the outside-expression
// tag/attribute search across the workspace.
func (s *Server) References(uri string, offset int, allViews []features.ViewSource) []features.ReferenceResult {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.References(context.Background(), vm, s.Registry.Index, s.Host, offset, allViews)
}

// PrepareRename implements spec §4.D's rename-prepare feature.
func (s *Server) PrepareRename(uri string, offset int) (features.RenamePrepareResult, bool) {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return features.RenamePrepareResult{}, false
	}
	return features.PrepareRename(context.Background(), vm, s.Host, offset)
}

// Rename implements spec §4.D's rename-apply feature. classSources maps a
// component's defining source file path to its current text, needed to
// rewrite a customElement/customAttribute decorator argument.
func (s *Server) Rename(uri string, offset int, newName string, allViews []features.ViewSource, classSources map[string]string) map[string][]features.TextEdit {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.Rename(context.Background(), uri, vm, s.Registry.Index, s.Host, offset, newName, allViews, classSources)
}

// PrepareRenameInSource implements the "prepare" half of rename target 2
// (spec §4.D): invoking rename directly on a known component's class
// identifier in its own paired source file, rather than on a tag in a view.
func (s *Server) PrepareRenameInSource(sourceFile string, offset int) (features.RenamePrepareResult, bool) {
	s.ensureInit()
	return features.PrepareRenameClass(s.Registry.Index, sourceFile, offset)
}

// RenameInSource implements the "apply" half of rename target 2.
func (s *Server) RenameInSource(sourceFile string, offset int, newName string, allViews []features.ViewSource, classSources map[string]string) map[string][]features.TextEdit {
	s.ensureInit()
	return features.RenameClass(s.Registry.Index, sourceFile, offset, newName, allViews, classSources)
}

// Diagnostics implements spec §4.D's diagnostics feature. When
// Options.Diagnostics.Enable is false, it returns an empty list without
// consulting the host (spec §6).
func (s *Server) Diagnostics(uri string) []features.Diagnostic {
	s.ensureInit()
	if !s.Options.Diagnostics.Enable {
		return nil
	}
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.Diagnostics(context.Background(), vm, s.Registry.Index, s.Host)
}

// CodeActions implements spec §4.D's code-actions feature.
func (s *Server) CodeActions(uri string, htmlRangeStart int, errorCodes []int) []features.CodeAction {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.CodeActions(context.Background(), uri, vm, s.Host, htmlRangeStart, errorCodes)
}

// SemanticTokens implements spec §4.D's semantic-highlighting feature.
func (s *Server) SemanticTokens(uri string) []features.SemanticToken {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.SemanticTokens(context.Background(), vm, s.Registry.Index, s.Host)
}

// SignatureHelp implements spec §4.D's signature-help feature.
func (s *Server) SignatureHelp(uri string, offset int) []host.SignatureInfo {
	s.ensureInit()
	v, vm := s.activeMappings(uri)
	if v == nil {
		return nil
	}
	return features.SignatureHelp(context.Background(), vm, s.Host, offset)
}
