package stator

import "slices"

// Undefined is the distinguished absent-state sentinel.
//
// It is the value a reducer receives as prior state when no state exists
// yet, and the one value a reducer must never return: given Undefined a
// reducer must produce its well-defined initial state (nil is a valid
// initial state, Undefined is not).
//
// A nil preloadedState argument to New is treated as absent.
var Undefined any = undefined{}

type undefined struct{}

// IsUndefined reports whether v is the absent-state sentinel. Reducers use
// it to detect that no prior state exists and return their initial state.
func IsUndefined(v any) bool {
	return isAbsent(v)
}

// isAbsent reports whether v is the Undefined sentinel.
func isAbsent(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Reducer is a pure function computing the next state from the prior state
// and an action. The error return is for composition failures such as a
// sub-reducer returning Undefined; ordinary reducers return (state, nil).
type Reducer func(state any, action Action) (any, error)

// Dispatch submits an action to a store and returns the same action.
type Dispatch func(action Action) (Action, error)

// StoreCreator constructs a store from a reducer and a preloaded state.
// Enhancers wrap a StoreCreator to inject cross-cutting store behavior.
type StoreCreator func(reducer Reducer, preloadedState any) (Store, error)

// Enhancer augments the store-construction process, e.g. to install
// middleware via ApplyMiddleware.
type Enhancer func(create StoreCreator) StoreCreator

// Store owns application state and exposes the dispatch loop.
//
// Store is an interface so an Enhancer can return a store whose Dispatch
// has been replaced while every other member is forwarded unchanged.
type Store interface {
	// Dispatch runs the reducer, updates state, and synchronously notifies
	// listeners. Returns the original action unchanged.
	Dispatch(action Action) (Action, error)

	// GetState returns the current state verbatim. Errors if invoked while
	// a reducer computation is in progress.
	GetState() (any, error)

	// Subscribe registers a listener invoked after each successful dispatch
	// and returns an idempotent unsubscribe closure.
	Subscribe(listener func()) (func(), error)

	// ReplaceReducer hot-swaps the reducer and reinitializes any previously
	// undefined state slots.
	ReplaceReducer(next Reducer) error

	// Observable exposes the reactive interop capability.
	Observable() Observable
}

// subscription is one registered listener. The subscribed flag makes the
// unsubscribe closure idempotent.
type subscription struct {
	listener   func()
	subscribed bool
}

// engine is the concrete store. All mutation happens synchronously on the
// dispatching goroutine; there is no locking because there is no
// concurrency in the execution model.
//
// INVARIANTS:
//   - state changes only inside Dispatch, between guard set and release
//   - currentListeners is the snapshot an in-flight notification iterates;
//     nextListeners is the list future subscribe/unsubscribe calls mutate
//   - when listenersShared is set, both fields alias the same backing array
//     and nextListeners must be cloned before mutation (copy-on-write)
type engine struct {
	reducer Reducer
	state   any

	currentListeners []*subscription
	nextListeners    []*subscription
	listenersShared  bool

	dispatching bool
}

// New creates a store holding the state tree of the application.
//
// preloadedState is the initial state, or nil for none. It may instead hold
// an Enhancer when the enhancer argument is nil, supporting the two-argument
// call form New(reducer, enhancer, nil).
//
// A non-nil enhancer takes over construction entirely: the store is built by
// enhancer(create)(reducer, preloadedState) and no further engine logic in
// this call runs.
//
// Construction ends with one internal dispatch of the reserved INIT action
// so every reducer path produces its initial state.
func New(reducer Reducer, preloadedState any, enhancer Enhancer) (Store, error) {
	if enhancer == nil {
		switch v := preloadedState.(type) {
		case Enhancer:
			enhancer = v
			preloadedState = nil
		case func(StoreCreator) StoreCreator:
			enhancer = v
			preloadedState = nil
		}
	}

	if enhancer != nil {
		return enhancer(newEngine)(reducer, preloadedState)
	}
	return newEngine(reducer, preloadedState)
}

// newEngine is the raw StoreCreator that enhancers wrap.
func newEngine(reducer Reducer, preloadedState any) (Store, error) {
	if reducer == nil {
		return nil, newConstructionError("expected the reducer to be a function, got nil")
	}

	if preloadedState == nil {
		preloadedState = Undefined
	}

	e := &engine{
		reducer:         reducer,
		state:           preloadedState,
		listenersShared: true,
	}

	// Populate initial state on every reducer path.
	if _, err := e.Dispatch(Action{Type: actionTypeInit}); err != nil {
		return nil, err
	}

	return e, nil
}

// GetState returns the current state verbatim.
//
// Errors while a reducer call is in progress: the state is transiently
// inconsistent, and the reducer has already received it as an argument.
func (e *engine) GetState() (any, error) {
	if e.dispatching {
		return nil, newStateAccessError()
	}
	return e.state, nil
}

// Subscribe adds a change listener, invoked with no arguments after every
// dispatch. The listener may read the new state with GetState.
//
// Subscriptions are snapshotted per dispatch: subscribing or unsubscribing
// during notification takes effect from the next dispatch onward, and the
// in-flight notification list is unaffected.
//
// The returned unsubscribe closure is idempotent; calling it more than once
// is a no-op. It must not be called from inside a reducer.
func (e *engine) Subscribe(listener func()) (func(), error) {
	if listener == nil {
		return nil, newConstructionError("expected the listener to be a function, got nil")
	}
	if e.dispatching {
		return nil, newReentrancyError("may not subscribe while the reducer is executing")
	}

	sub := &subscription{listener: listener, subscribed: true}

	e.ensureCanMutateNextListeners()
	e.nextListeners = append(e.nextListeners, sub)

	unsubscribe := func() {
		if !sub.subscribed {
			return
		}
		sub.subscribed = false

		e.ensureCanMutateNextListeners()
		if i := slices.Index(e.nextListeners, sub); i >= 0 {
			e.nextListeners = slices.Delete(e.nextListeners, i, i+1)
		}
	}
	return unsubscribe, nil
}

// ensureCanMutateNextListeners clones nextListeners if it still aliases the
// in-flight snapshot, so a notification loop iterating currentListeners is
// unaffected by subsequent subscribe/unsubscribe calls.
func (e *engine) ensureCanMutateNextListeners() {
	if e.listenersShared {
		e.nextListeners = slices.Clone(e.nextListeners)
		e.listenersShared = false
	}
}

// Dispatch submits an action, the only way to trigger a state change.
//
// The reducer runs under a reentrancy guard: a reducer that dispatches
// fails fast. The guard is released on every exit path, including reducer
// panics, so a listener invoked during notification may dispatch again
// (nested dispatch). Each dispatch takes its own listener snapshot
// immediately after its reducer call completes, so a listener subscribed
// before this call is invoked at least once with state no older than the
// state this dispatch produced, even across nested dispatches.
//
// Listener panics propagate to the caller and abort the remaining
// notifications for this dispatch; there is no isolation between listeners.
//
// Returns the original action unchanged, so callers and middleware can rely
// on the return value.
func (e *engine) Dispatch(action Action) (Action, error) {
	if action.Type == "" {
		return Action{}, newDispatchValidationError("action type must not be empty")
	}
	if e.dispatching {
		return Action{}, newReentrancyError("reducers may not dispatch actions")
	}

	next, err := e.reduce(action)
	if err != nil {
		return Action{}, err
	}
	e.state = next

	// Snapshot the latest subscription state, not the one in effect when
	// this dispatch began.
	e.currentListeners = e.nextListeners
	e.listenersShared = true

	for _, sub := range e.currentListeners {
		sub.listener()
	}

	return action, nil
}

// reduce runs the current reducer under the dispatch guard. The deferred
// release keeps the guard scoped even if the reducer panics.
func (e *engine) reduce(action Action) (any, error) {
	e.dispatching = true
	defer func() { e.dispatching = false }()
	return e.reducer(e.state, action)
}

// ReplaceReducer swaps the reducer currently used by the store.
//
// Needed for code splitting or dynamic loading of reducers. The swap is
// followed by an internal dispatch of the reserved REPLACE action so the
// replacement reducer's defaults populate any previously undefined slots.
func (e *engine) ReplaceReducer(next Reducer) error {
	if next == nil {
		return newConstructionError("expected the next reducer to be a function, got nil")
	}

	e.reducer = next
	_, err := e.Dispatch(Action{Type: actionTypeReplace})
	return err
}
