package aurelia

import "testing"

func TestViewStateTransitions(t *testing.T) {
	v := &ViewDocument{}
	if v.State != Unknown {
		t.Fatalf("zero value State = %v, want Unknown", v.State)
	}

	if !v.transition(Registered) {
		t.Fatal("Unknown -> Registered should be allowed")
	}
	if !v.transition(Fresh) {
		t.Fatal("Registered -> Fresh should be allowed")
	}
	if !v.transition(Registered) {
		t.Fatal("Fresh -> Registered should be allowed (view-model becomes unreachable, mappings dropped)")
	}
	if !v.transition(Fresh) {
		t.Fatal("Registered -> Fresh should be allowed again")
	}

	v.markStale()
	if v.State != Stale {
		t.Fatalf("markStale on Fresh = %v, want Stale", v.State)
	}

	if !v.transition(Fresh) {
		t.Fatal("Stale -> Fresh should be allowed")
	}

	if !v.transition(Gone) {
		t.Fatal("* -> Gone should always be allowed")
	}
	if v.State != Gone {
		t.Fatalf("State after Gone transition = %v, want Gone", v.State)
	}
}

func TestMarkStaleNoopBeforeFresh(t *testing.T) {
	v := &ViewDocument{}
	v.transition(Registered)
	v.markStale()
	if v.State != Registered {
		t.Fatalf("markStale on Registered = %v, want unchanged Registered", v.State)
	}
}

func TestViewStateString(t *testing.T) {
	cases := map[ViewState]string{
		Unknown:    "unknown",
		Registered: "registered",
		Fresh:      "fresh",
		Stale:      "stale",
		Gone:       "gone",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
