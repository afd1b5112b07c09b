package controller

import "sync"

// ComponentKind identifies one independently managed subsystem.
type ComponentKind string

const (
	ComponentConnection  ComponentKind = "connection"
	ComponentArm         ComponentKind = "arm"
	ComponentGripper     ComponentKind = "gripper"
	ComponentTrack       ComponentKind = "track"
	ComponentForceTorque ComponentKind = "force_torque"
)

// componentKinds lists every kind in reporting order.
var componentKinds = []ComponentKind{
	ComponentConnection,
	ComponentArm,
	ComponentGripper,
	ComponentTrack,
	ComponentForceTorque,
}

// ComponentState is the lifecycle state of one component. It is a closed
// variant internally and serialized to its string form only at the
// reporting boundary.
type ComponentState int

const (
	StateUnknown ComponentState = iota
	StateDisabled
	StateEnabling
	StateEnabled
	StateError
	StateMaintenance
)

func (s ComponentState) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabling:
		return "enabling"
	case StateEnabled:
		return "enabled"
	case StateError:
		return "error"
	case StateMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// stateTracker holds the per-component lifecycle states. Transitions are
// serialized by the tracker's mutex; whether a transition is legal is the
// caller's responsibility.
type stateTracker struct {
	mu     sync.RWMutex
	states map[ComponentKind]ComponentState
}

func newStateTracker() *stateTracker {
	states := make(map[ComponentKind]ComponentState, len(componentKinds))
	for _, kind := range componentKinds {
		states[kind] = StateDisabled
	}

	return &stateTracker{states: states}
}

func (t *stateTracker) get(kind ComponentKind) ComponentState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if state, ok := t.states[kind]; ok {
		return state
	}

	return StateUnknown
}

func (t *stateTracker) set(kind ComponentKind, state ComponentState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[kind] = state
}

func (t *stateTracker) isEnabled(kind ComponentKind) bool {
	return t.get(kind) == StateEnabled
}

// snapshot returns a copy of all states.
func (t *stateTracker) snapshot() map[ComponentKind]ComponentState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[ComponentKind]ComponentState, len(t.states))
	for kind, state := range t.states {
		out[kind] = state
	}

	return out
}
