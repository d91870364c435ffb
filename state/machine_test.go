package state

import (
	"fmt"
	"testing"

	imap "github.com/kestrelmail/imap-go"
)

func TestNew(t *testing.T) {
	m := New()
	if m.State() != imap.StateDisconnected {
		t.Errorf("expected initial state Disconnected, got %s", m.State())
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    imap.ClientState
		to      imap.ClientState
		wantErr bool
	}{
		{"disconnected -> connecting", imap.StateDisconnected, imap.StateConnecting, false},
		{"connecting -> not authenticated (greeting OK)", imap.StateConnecting, imap.StateNotAuthenticated, false},
		{"connecting -> authenticated (greeting PREAUTH)", imap.StateConnecting, imap.StateAuthenticated, false},
		{"connecting -> logout (greeting BYE)", imap.StateConnecting, imap.StateLogout, false},
		{"not auth -> authenticated", imap.StateNotAuthenticated, imap.StateAuthenticated, false},
		{"not auth -> logout", imap.StateNotAuthenticated, imap.StateLogout, false},
		{"not auth -> selected (invalid)", imap.StateNotAuthenticated, imap.StateSelected, true},
		{"authenticated -> selected", imap.StateAuthenticated, imap.StateSelected, false},
		{"authenticated -> logout", imap.StateAuthenticated, imap.StateLogout, false},
		{"selected -> authenticated (close)", imap.StateSelected, imap.StateAuthenticated, false},
		{"selected -> selected (reselect)", imap.StateSelected, imap.StateSelected, false},
		{"selected -> logout", imap.StateSelected, imap.StateLogout, false},
		{"selected -> not authenticated (invalid)", imap.StateSelected, imap.StateNotAuthenticated, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			if tt.from != imap.StateDisconnected {
				// Force the machine straight into `from`; only the
				// transition under test goes through Transition.
				m.state = tt.from
			}
			err := m.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("Transition(%s -> %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if err == nil && m.State() != tt.to {
				t.Errorf("expected state %s after transition, got %s", tt.to, m.State())
			}
		})
	}
}

func TestRequireState(t *testing.T) {
	m := New()
	m.state = imap.StateAuthenticated

	if err := m.RequireState(imap.StateAuthenticated); err != nil {
		t.Errorf("RequireState(Authenticated) should not fail: %v", err)
	}
	if err := m.RequireState(imap.StateAuthenticated, imap.StateSelected); err != nil {
		t.Errorf("RequireState(Authenticated, Selected) should not fail: %v", err)
	}
	if err := m.RequireState(imap.StateSelected); err == nil {
		t.Error("RequireState(Selected) should fail when in Authenticated state")
	}
}

func TestBeforeHook(t *testing.T) {
	m := New()
	m.state = imap.StateNotAuthenticated

	var hookCalled bool
	var hookFrom, hookTo imap.ClientState
	m.OnBefore(func(from, to imap.ClientState) error {
		hookCalled = true
		hookFrom = from
		hookTo = to
		return nil
	})

	if err := m.Transition(imap.StateAuthenticated); err != nil {
		t.Fatal(err)
	}
	if !hookCalled {
		t.Error("before hook was not called")
	}
	if hookFrom != imap.StateNotAuthenticated || hookTo != imap.StateAuthenticated {
		t.Errorf("hook saw %s -> %s, want NotAuthenticated -> Authenticated", hookFrom, hookTo)
	}
}

func TestAfterHook(t *testing.T) {
	m := New()
	m.state = imap.StateNotAuthenticated

	var hookCalled bool
	m.OnAfter(func(from, to imap.ClientState) error {
		hookCalled = true
		return nil
	})

	if err := m.Transition(imap.StateAuthenticated); err != nil {
		t.Fatal(err)
	}
	if !hookCalled {
		t.Error("after hook was not called")
	}
}

func TestBeforeHookError(t *testing.T) {
	m := New()
	m.state = imap.StateNotAuthenticated

	m.OnBefore(func(from, to imap.ClientState) error {
		return fmt.Errorf("hook error")
	})

	if err := m.Transition(imap.StateAuthenticated); err == nil {
		t.Error("expected error from before hook")
	}
	if m.State() != imap.StateNotAuthenticated {
		t.Errorf("state should remain NotAuthenticated after before hook error, got %s", m.State())
	}
}

func TestCanTransition(t *testing.T) {
	m := New()
	m.state = imap.StateNotAuthenticated

	if !m.CanTransition(imap.StateAuthenticated) {
		t.Error("should be able to transition to Authenticated")
	}
	if m.CanTransition(imap.StateSelected) {
		t.Error("should not be able to transition to Selected from NotAuthenticated")
	}
}

func TestClose_Unconditional(t *testing.T) {
	for _, from := range []imap.ClientState{
		imap.StateConnecting, imap.StateNotAuthenticated,
		imap.StateAuthenticated, imap.StateSelected, imap.StateLogout,
	} {
		m := New()
		m.state = from

		var hookFrom, hookTo imap.ClientState
		m.OnAfter(func(f, t imap.ClientState) error {
			hookFrom, hookTo = f, t
			return nil
		})

		m.Close()
		if m.State() != imap.StateDisconnected {
			t.Errorf("Close() from %s left state %s, want Disconnected", from, m.State())
		}
		if hookFrom != from || hookTo != imap.StateDisconnected {
			t.Errorf("after hook saw %s -> %s, want %s -> Disconnected", hookFrom, hookTo, from)
		}
	}
}
