package aurelia

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/aurelia-tools/aurelia-ls/compindex"
	"github.com/aurelia-tools/aurelia-ls/config"
	"github.com/aurelia-tools/aurelia-ls/host"
	"github.com/aurelia-tools/aurelia-ls/testhost"
)

func elementIndexForServerTest(t *testing.T) *compindex.Index {
	t.Helper()
	idx := compindex.New()
	fsys := fstest.MapFS{
		"my-input.ts": &fstest.MapFile{Data: []byte(
			"@customElement('my-input')\nexport class MyInputCustomElement {\n  @bindable foo;\n}\n",
		)},
	}
	compindex.ScanProject(idx, fsys, ".", nil)
	return idx
}

func TestServerOpenViewSynthesisesOnRunScheduled(t *testing.T) {
	ah := testhost.New()
	ah.RegisterClass("App", "a.ts", []host.ClassMember{{Name: "greeting", Type: "string"}})

	s := New(ah, config.Default())
	v := s.OpenView("a.html", `<p>${greeting}</p>`, "a.ts", "App", "")

	if v.State != Registered {
		t.Fatalf("State right after OpenView = %v, want Registered", v.State)
	}
	if v.Mappings != nil {
		t.Fatal("Mappings should be nil before RunScheduled")
	}

	s.RunScheduled()

	v, ok := s.Registry.View("a.html")
	if !ok {
		t.Fatal("view not found after RunScheduled")
	}
	if v.State != Fresh {
		t.Fatalf("State after RunScheduled = %v, want Fresh", v.State)
	}
	if v.Mappings == nil || len(v.Mappings.Mappings) != 1 {
		t.Fatalf("expected exactly one mapping after synthesise, got %+v", v.Mappings)
	}
}

func TestServerCompletionBeforeSynthesiseUsesHTMLContext(t *testing.T) {
	ah := testhost.New()
	s := New(ah, config.Default())
	s.Registry.Index = elementIndexForServerTest(t)

	s.OpenView("a.html", "<my-input", "a.ts", "App", "")
	// No RunScheduled call: the view is still Registered, Mappings is nil.
	items := s.Completion("a.html", len("<my-input"))

	var found bool
	for _, it := range items {
		if it.Label == "my-input" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected my-input element completion before synthesise, got %+v", items)
	}
}

func TestServerDiagnosticsDisabledByOptions(t *testing.T) {
	ah := testhost.New()
	ah.RegisterClass("App", "a.ts", nil)

	opts := config.Default()
	opts.Diagnostics.Enable = false
	s := New(ah, opts)

	s.OpenView("a.html", `<p>${bogus}</p>`, "a.ts", "App", "")
	s.RunScheduled()

	if diags := s.Diagnostics("a.html"); diags != nil {
		t.Fatalf("Diagnostics with Diagnostics.Enable=false = %+v, want nil", diags)
	}
}

func TestServerOpenViewWithNoViewModelStaysRegistered(t *testing.T) {
	ah := testhost.New()
	s := New(ah, config.Default())

	v := s.OpenView("orphan.html", "<p>hi</p>", "", "", "")
	s.RunScheduled()

	v, ok := s.Registry.View("orphan.html")
	if !ok {
		t.Fatal("view not found after RunScheduled")
	}
	if v.State != Registered {
		t.Fatalf("State for a view with no view-model = %v, want Registered (synthesise should have been skipped)", v.State)
	}
	if v.Mappings != nil {
		t.Fatal("Mappings should stay nil when synthesise is skipped")
	}
}

func TestServerOpenViewViewModelRemovedClearsMappings(t *testing.T) {
	ah := testhost.New()
	ah.RegisterClass("App", "a.ts", []host.ClassMember{{Name: "greeting", Type: "string"}})

	s := New(ah, config.Default())
	s.OpenView("a.html", `<p>${greeting}</p>`, "a.ts", "App", "")
	s.RunScheduled()

	v, ok := s.Registry.View("a.html")
	if !ok || v.State != Fresh || v.Mappings == nil {
		t.Fatalf("setup: view should be Fresh with Mappings before the view-model disappears, got %+v", v)
	}

	// The paired view-model is no longer reachable (spec §7 error kind 1).
	s.OpenView("a.html", `<p>${greeting}</p>`, "", "", "")
	s.RunScheduled()

	v, ok = s.Registry.View("a.html")
	if !ok {
		t.Fatal("view not found after RunScheduled")
	}
	if v.State != Registered {
		t.Fatalf("State after view-model removal = %v, want Registered", v.State)
	}
	if v.Mappings != nil {
		t.Fatal("Mappings should be cleared once the paired view-model becomes unreachable")
	}
}

func TestServerLoggingLevelMapsOntoSlogLevel(t *testing.T) {
	ah := testhost.New()
	opts := config.Default()
	opts.Logging.Level = config.LogWarn
	s := New(ah, opts)
	s.ensureInit()

	if s.logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("logger at LogWarn should not be enabled for Info")
	}
	if !s.logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("logger at LogWarn should be enabled for Warn")
	}
}

func TestServerLoggingNoneOverridesCallerSuppliedLogger(t *testing.T) {
	ah := testhost.New()
	opts := config.Default()
	opts.Logging.Level = config.LogNone
	s := New(ah, opts)

	var buf bytes.Buffer
	s.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	s.ensureInit()

	s.logger.Error("should never be written")
	if buf.Len() != 0 {
		t.Fatalf("LogNone should discard even a caller-supplied Logger, got %q", buf.String())
	}
}

func TestServerCloseViewRemovesItFromRegistry(t *testing.T) {
	ah := testhost.New()
	s := New(ah, config.Default())
	s.OpenView("a.html", "hi", "a.ts", "App", "")
	s.RunScheduled()

	s.CloseView("a.html")
	if _, ok := s.Registry.View("a.html"); ok {
		t.Fatal("view should be gone after CloseView")
	}
}
