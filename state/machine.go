// Package state provides the explicit state machine that tracks an IMAP
// client's connection state (spec.md §3 ClientState, §4.6 transitions).
package state

import (
	"fmt"
	"sync"

	imap "github.com/kestrelmail/imap-go"
)

// TransitionHook is a function called during state transitions.
type TransitionHook func(from, to imap.ClientState) error

// Machine tracks an IMAP client's current ClientState and enforces the
// transition table from spec.md §4.6.
type Machine struct {
	mu          sync.RWMutex
	state       imap.ClientState
	transitions map[imap.ClientState][]imap.ClientState
	beforeHooks []TransitionHook
	afterHooks  []TransitionHook
}

// New creates a state machine starting in StateDisconnected (spec.md §3:
// "Initial Disconnected").
func New() *Machine {
	return &Machine{
		state:       imap.StateDisconnected,
		transitions: DefaultTransitions(),
	}
}

// State returns the current state.
func (m *Machine) State() imap.ClientState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Transition attempts to move to target. Returns an error if the table
// doesn't allow it from the current state.
func (m *Machine) Transition(target imap.ClientState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.canTransition(m.state, target) {
		return fmt.Errorf("imap: invalid state transition from %s to %s", m.state, target)
	}

	from := m.state
	for _, hook := range m.beforeHooks {
		if err := hook(from, target); err != nil {
			return fmt.Errorf("imap: before hook failed: %w", err)
		}
	}

	m.state = target

	for _, hook := range m.afterHooks {
		if err := hook(from, target); err != nil {
			return fmt.Errorf("imap: after hook failed: %w", err)
		}
	}

	return nil
}

// Close forces an unconditional transition to StateDisconnected
// (spec.md §4.6: "* | Connection.onClose | Disconnected", unconditional on
// any prior state, including mid-command).
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	from := m.state
	m.state = imap.StateDisconnected
	for _, hook := range m.afterHooks {
		_ = hook(from, imap.StateDisconnected)
	}
}

// RequireState returns an error unless the current state is one of allowed.
func (m *Machine) RequireState(allowed ...imap.ClientState) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range allowed {
		if m.state == s {
			return nil
		}
	}
	return fmt.Errorf("imap: not allowed in %s state", m.state)
}

// OnBefore registers a hook run before each state transition (not called by
// Close, which is unconditional).
func (m *Machine) OnBefore(hook TransitionHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beforeHooks = append(m.beforeHooks, hook)
}

// OnAfter registers a hook run after each state transition, including Close.
func (m *Machine) OnAfter(hook TransitionHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.afterHooks = append(m.afterHooks, hook)
}

// CanTransition reports whether a transition from the current state to
// target is allowed.
func (m *Machine) CanTransition(target imap.ClientState) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.canTransition(m.state, target)
}

func (m *Machine) canTransition(from, to imap.ClientState) bool {
	allowed, ok := m.transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
