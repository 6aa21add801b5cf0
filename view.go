package aurelia

import "github.com/aurelia-tools/aurelia-ls/shadow"

// ViewState is one view's position in the spec §4.E lifecycle:
//
//	Unknown -> Registered -> Fresh -> Stale -> Fresh -> ... -> Gone
//
// Fresh/Stale can also fall back to Registered directly, when the paired
// view-model becomes unreachable (spec §7 error kind 1) and there is no
// longer anything to resynthesise against.
type ViewState int

const (
	// Unknown is the zero value: the view has never been observed.
	Unknown ViewState = iota
	// Registered means the view's HTML has been seen but never synthesised.
	Registered
	// Fresh means the last synthesise succeeded and nothing has invalidated it since.
	Fresh
	// Stale means the HTML or the paired class file changed since the last synthesise.
	Stale
	// Gone means the view file was removed; its ViewMappings and shadow are deleted.
	Gone
)

func (s ViewState) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Registered:
		return "registered"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Gone:
		return "gone"
	default:
		return "invalid"
	}
}

// ViewDocument is one HTML source identified by a stable URI (spec §3). It
// owns the raw text and, once synthesised, the derived ViewMappings; older
// ViewMappings are discarded wholesale on every successful resynthesis.
type ViewDocument struct {
	URI                string
	HTMLText           string
	ViewModelFsPath    string
	ViewModelClassName string
	ViewModelContent   string

	State    ViewState
	Mappings *shadow.ViewMappings
}

// transition validates and applies a state change, per the §4.E diagram.
// Invalid transitions are refused (the state is left unchanged) rather than
// silently permitted, since the diagram is the whole of the view lifecycle
// contract.
func (v *ViewDocument) transition(to ViewState) bool {
	switch {
	case to == Gone:
		v.State = Gone
		return true
	case v.State == Unknown && to == Registered:
	case v.State == Registered && to == Fresh:
	case v.State == Fresh && to == Stale:
	case v.State == Stale && to == Fresh:
	case (v.State == Fresh || v.State == Stale) && to == Registered:
	default:
		return false
	}
	v.State = to
	return true
}

// markStale flags a content change (HTML edit or paired class-file change);
// a view that has never been synthesised stays Registered, since there is
// nothing yet to invalidate.
func (v *ViewDocument) markStale() {
	if v.State == Fresh {
		v.transition(Stale)
	}
}
