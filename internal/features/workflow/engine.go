package workflow

import (
	"fmt"
	"time"
)

// TransitionResult reports the outcome of one transition attempt. Expected
// domain failures (unknown event, guard not satisfied) are carried in-band
// via Success/Error; they are never returned as Go errors.
type TransitionResult struct {
	Success   bool      `json:"success"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Event     string    `json:"event,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EvaluationResult is the outcome of one auto-transition evaluation pass
type EvaluationResult struct {
	Transitioned bool               `json:"transitioned"`
	Transitions  []TransitionResult `json:"transitions"`
	FinalState   string             `json:"final_state"`
}

// AvailableTransition is a manually triggerable transition whose guard
// currently holds
type AvailableTransition struct {
	Event   string `json:"event"`
	To      string `json:"to"`
	ToLabel string `json:"to_label"`
}

// Engine evaluates a static workflow definition. It holds no mutable state
// and performs no I/O; a single instance is shared across requests.
type Engine struct {
	def      Definition
	bySource map[string][]TransitionDefinition
}

// NewEngine validates the definition and builds the transition index.
// An undefined state reference is a configuration defect and fails here,
// before the machine can ever run.
func NewEngine(def Definition) (*Engine, error) {
	if _, ok := def.States[def.Initial]; !ok {
		return nil, fmt.Errorf("workflow definition: initial state %q is not defined", def.Initial)
	}

	bySource := make(map[string][]TransitionDefinition)
	for _, t := range def.Transitions {
		if _, ok := def.States[t.From]; !ok {
			return nil, fmt.Errorf("workflow definition: transition references undefined source state %q", t.From)
		}
		if _, ok := def.States[t.To]; !ok {
			return nil, fmt.Errorf("workflow definition: transition references undefined target state %q", t.To)
		}
		if t.Guard == nil {
			return nil, fmt.Errorf("workflow definition: transition %s -> %s has no guard", t.From, t.To)
		}
		bySource[t.From] = append(bySource[t.From], t)
	}

	return &Engine{def: def, bySource: bySource}, nil
}

// MustNewEngine is for static definitions validated at startup
func MustNewEngine(def Definition) *Engine {
	e, err := NewEngine(def)
	if err != nil {
		panic(err)
	}
	return e
}

// State returns the definition of a state, if it exists
func (e *Engine) State(id string) (StateDefinition, bool) {
	s, ok := e.def.States[id]
	return s, ok
}

// IsTerminalState reports whether the state is marked terminal
func (e *Engine) IsTerminalState(id string) bool {
	s, ok := e.def.States[id]
	return ok && s.Terminal
}

// InitialState returns the definition's starting state
func (e *Engine) InitialState() string {
	return e.def.Initial
}

// eligibleAuto finds the single eligible auto-transition from a state.
// Two simultaneously eligible auto-transitions mean the definition's guards
// overlap; that is nondeterminism waiting to happen, so it fails loudly
// instead of silently picking one.
func (e *Engine) eligibleAuto(state string, ctx *AuthorizationContext) (*TransitionDefinition, error) {
	var eligible *TransitionDefinition
	for i := range e.bySource[state] {
		t := &e.bySource[state][i]
		if t.Event != "" {
			continue
		}
		if !t.Guard(ctx) {
			continue
		}
		if eligible != nil {
			return nil, fmt.Errorf("workflow definition: conflicting auto-transitions from %q (to %q and %q)",
				state, eligible.To, t.To)
		}
		eligible = t
	}
	return eligible, nil
}

// EvaluateTransitions chains event-less transitions from the current state
// until no guard holds. The iteration bound and revisit check turn a cyclic
// definition into a hard error instead of an infinite loop.
func (e *Engine) EvaluateTransitions(currentState string, ctx *AuthorizationContext) (*EvaluationResult, error) {
	if _, ok := e.def.States[currentState]; !ok {
		return nil, fmt.Errorf("workflow engine: unknown state %q", currentState)
	}

	result := &EvaluationResult{FinalState: currentState}
	visited := map[string]bool{currentState: true}

	maxHops := len(e.def.States) + 1
	state := currentState

	for hop := 0; hop < maxHops; hop++ {
		t, err := e.eligibleAuto(state, ctx)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return result, nil
		}

		if visited[t.To] {
			return nil, fmt.Errorf("workflow definition: auto-transition cycle detected at state %q", t.To)
		}
		visited[t.To] = true

		result.Transitions = append(result.Transitions, TransitionResult{
			Success:   true,
			From:      state,
			To:        t.To,
			Timestamp: time.Now().UTC(),
		})
		result.Transitioned = true
		result.FinalState = t.To
		state = t.To
	}

	return nil, fmt.Errorf("workflow definition: auto-transition chain exceeded %d hops from %q", maxHops, currentState)
}

// AvailableTransitions lists every event-triggered transition from the
// current state whose guard holds. Guard purity makes this safe to call
// speculatively; nothing is mutated.
func (e *Engine) AvailableTransitions(currentState string, ctx *AuthorizationContext) []AvailableTransition {
	var available []AvailableTransition
	for _, t := range e.bySource[currentState] {
		if t.Event == "" {
			continue
		}
		if !t.Guard(ctx) {
			continue
		}
		label := ""
		if s, ok := e.def.States[t.To]; ok {
			label = s.Label
		}
		available = append(available, AvailableTransition{
			Event:   t.Event,
			To:      t.To,
			ToLabel: label,
		})
	}
	return available
}

// ExecuteTransition attempts the event-triggered transition matching
// (currentState, event) against the supplied context
func (e *Engine) ExecuteTransition(currentState, event string, ctx *AuthorizationContext) TransitionResult {
	now := time.Now().UTC()

	for _, t := range e.bySource[currentState] {
		if t.Event != event {
			continue
		}
		if !t.Guard(ctx) {
			return TransitionResult{
				Success:   false,
				From:      currentState,
				To:        currentState,
				Event:     event,
				Error:     fmt.Sprintf("transition %q not allowed: requirements not met", event),
				Timestamp: now,
			}
		}
		return TransitionResult{
			Success:   true,
			From:      currentState,
			To:        t.To,
			Event:     event,
			Timestamp: now,
		}
	}

	return TransitionResult{
		Success:   false,
		From:      currentState,
		To:        currentState,
		Event:     event,
		Error:     fmt.Sprintf("no transition %q from state %q", event, currentState),
		Timestamp: now,
	}
}
