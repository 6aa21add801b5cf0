// Package config is the single structured options value spec §6 names:
// logging verbosity, whether diagnostics run at all, and a reserved switch
// for standard-HTML completions. It has no flag parsing or env binding —
// that glue belongs to whatever embeds this module, per the Non-goals in
// spec.md §1.
package config

// LogLevel is the logging.level enum from spec §6.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogLog   LogLevel = "log"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
	LogNone  LogLevel = "none"
)

// Logging configures diagnostic verbosity only; it never changes what the
// core computes, only how much of it gets logged.
type Logging struct {
	Level LogLevel
}

// Diagnostics toggles the diagnostics feature entirely.
type Diagnostics struct {
	Enable bool
}

// Completions holds completions-related switches.
type Completions struct {
	// StandardHTML is reserved: it does not alter core mapping behavior.
	// It exists so an embedding extension can decide whether to blend in
	// plain-HTML completions alongside the core's Aurelia-aware ones.
	StandardHTML struct {
		Enable bool
	}
}

// Options is the full configuration surface.
type Options struct {
	Logging     Logging
	Diagnostics Diagnostics
	Completions Completions
}

// Default returns the default Options: info-level logging, diagnostics on,
// standard-HTML completions on.
func Default() Options {
	var o Options
	o.Logging.Level = LogInfo
	o.Diagnostics.Enable = true
	o.Completions.StandardHTML.Enable = true
	return o
}
