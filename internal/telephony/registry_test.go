package telephony

import "testing"

func registrySession(callSid string) *Session {
	s, _ := newTestSession(callSid)
	return s
}

func TestRegistryAddGetRemove(t *testing.T) {
	r := NewRegistry()
	s := registrySession("CA1")

	if prev := r.Add(s); prev != nil {
		t.Error("unexpected previous session")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}

	got, ok := r.Get("CA1")
	if !ok || got != s {
		t.Error("lookup failed")
	}

	r.Remove("CA1")
	if _, ok := r.Get("CA1"); ok {
		t.Error("session still present after remove")
	}
	if r.Len() != 0 {
		t.Errorf("len = %d, want 0", r.Len())
	}
}

func TestRegistryAddReplacesSameCall(t *testing.T) {
	r := NewRegistry()
	first := registrySession("CA1")
	second := registrySession("CA1")

	r.Add(first)
	if prev := r.Add(second); prev != first {
		t.Error("expected the first session back")
	}
	got, _ := r.Get("CA1")
	if got != second {
		t.Error("second session should be registered")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	r.Add(registrySession("CA1"))
	r.Add(registrySession("CA2"))

	infos := r.Snapshot()
	if len(infos) != 2 {
		t.Fatalf("snapshot has %d entries, want 2", len(infos))
	}
	seen := map[string]bool{}
	for _, i := range infos {
		seen[i.CallSid] = true
		if i.State != StateWaitingStart.String() {
			t.Errorf("%s: state %s, want WAITING_START", i.CallSid, i.State)
		}
	}
	if !seen["CA1"] || !seen["CA2"] {
		t.Errorf("snapshot misses sessions: %v", seen)
	}
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry()
	s1 := registrySession("CA1")
	s2 := registrySession("CA2")
	r.Add(s1)
	r.Add(s2)

	r.CloseAll("shutdown")
	if r.Len() != 0 {
		t.Errorf("len = %d after CloseAll", r.Len())
	}
	if s1.State() != StateEnded || s2.State() != StateEnded {
		t.Error("sessions not ended by CloseAll")
	}
}
