package harness

import (
	"fmt"
	"log/slog"

	"github.com/vanward/stator"
	"github.com/vanward/stator/internal/testutil"
)

// initialEventType labels the synthetic leading trace event that captures
// the state produced by store construction.
const initialEventType = "initial"

// Scenario scripts a sequence of actions against a fresh store.
type Scenario struct {
	// Name identifies the scenario; golden files are stored under it.
	Name string

	// Reducer is the root reducer for the scenario's store.
	Reducer stator.Reducer

	// Preloaded is the optional preloaded state, or nil for none.
	Preloaded any

	// Steps are the actions dispatched in order.
	Steps []stator.Action
}

// TraceEvent is one recorded dispatch. Seq comes from a logical clock so
// repeated runs produce identical traces.
type TraceEvent struct {
	Seq        int64  `json:"seq"`
	ActionType string `json:"action_type"`
	Payload    any    `json:"payload,omitempty"`
	State      any    `json:"state"`
}

// Result holds the recorded trace and the final state.
type Result struct {
	Trace []TraceEvent
	Final any
}

// Run executes a scenario and returns its trace.
//
// Each scenario runs against a fresh store for isolation. The trace begins
// with one synthetic event recording the post-construction state, followed
// by one event per dispatched step.
func Run(scenario *Scenario) (*Result, error) {
	if scenario.Reducer == nil {
		return nil, fmt.Errorf("scenario %q has no reducer", scenario.Name)
	}

	store, err := stator.New(scenario.Reducer, scenario.Preloaded, nil)
	if err != nil {
		return nil, fmt.Errorf("construct store for scenario %q: %w", scenario.Name, err)
	}

	clock := testutil.NewSeqClock()
	trace := make([]TraceEvent, 0, len(scenario.Steps)+1)

	state, err := store.GetState()
	if err != nil {
		return nil, fmt.Errorf("read initial state for scenario %q: %w", scenario.Name, err)
	}
	trace = append(trace, TraceEvent{
		Seq:        clock.Next(),
		ActionType: initialEventType,
		State:      state,
	})

	for _, step := range scenario.Steps {
		slog.Debug("dispatching scenario step",
			"scenario", scenario.Name,
			"action", step.Type,
			"seq", clock.Current()+1,
		)

		if _, err := store.Dispatch(step); err != nil {
			return nil, fmt.Errorf("scenario %q step %q: %w", scenario.Name, step.Type, err)
		}

		state, err := store.GetState()
		if err != nil {
			return nil, fmt.Errorf("scenario %q read state after %q: %w", scenario.Name, step.Type, err)
		}
		trace = append(trace, TraceEvent{
			Seq:        clock.Next(),
			ActionType: step.Type,
			Payload:    step.Payload,
			State:      state,
		})
	}

	final, err := store.GetState()
	if err != nil {
		return nil, fmt.Errorf("scenario %q read final state: %w", scenario.Name, err)
	}

	return &Result{Trace: trace, Final: final}, nil
}
