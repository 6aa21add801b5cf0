package aurelia

import (
	"errors"
	"fmt"
)

// ErrViewModelMissing is the error the Server logs when a view is
// synthesised with an empty view-model path or class name (spec §7, error
// kind 1): the view's ViewMappings and shadow are dropped, no diagnostics
// emitted. No exported function returns it.
var ErrViewModelMissing = errors.New("view model not found")

// ErrScanInProgress is returned by ScanProject when a scan is already
// running; a second concurrent scan is a no-op per spec §4.B/§5.
var ErrScanInProgress = errors.New("project scan already in progress")

// ViewError carries structured context about a failure while synthesising
// or serving a feature for one view, mirroring the teacher's
// ComponentError shape (an error plus a location), but located in
// HTML-offset space rather than line/column.
type ViewError struct {
	URI    string
	Offset int
	Stage  string // "extract", "synthesise", "host", or a feature name
	Err    error
}

func (e *ViewError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s (offset %d): %s", e.URI, e.Stage, e.Offset, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

func (e *ViewError) Is(target error) bool {
	var ve *ViewError
	if errors.As(target, &ve) {
		return e.URI == ve.URI && e.Stage == ve.Stage
	}
	return false
}
