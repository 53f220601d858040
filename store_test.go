package stator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanward/stator/internal/testutil"
)

// counter is the workhorse reducer for these tests.
func counter(state any, action Action) (any, error) {
	if IsUndefined(state) {
		state = 0
	}
	n := state.(int)
	switch action.Type {
	case "INC":
		return n + 1, nil
	case "DEC":
		return n - 1, nil
	default:
		return state, nil
	}
}

func newCounterStore(t *testing.T) Store {
	t.Helper()
	store, err := New(counter, nil, nil)
	require.NoError(t, err)
	return store
}

func TestNew_NilReducer(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsConstructionError(err))
}

func TestNew_InitPopulatesInitialState(t *testing.T) {
	store := newCounterStore(t)

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 0, state)
}

func TestNew_PreloadedState(t *testing.T) {
	store, err := New(counter, 41, nil)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 42, state)
}

func TestNew_NilStateIsValid(t *testing.T) {
	// nil is a valid state; only the Undefined sentinel is prohibited.
	nilReducer := func(state any, action Action) (any, error) {
		return nil, nil
	}
	store, err := New(nilReducer, nil, nil)
	require.NoError(t, err)

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestNew_EnhancerInPreloadedSlot(t *testing.T) {
	// 2-argument call form: the enhancer travels in the preloadedState slot.
	enhanced := false
	enhancer := Enhancer(func(create StoreCreator) StoreCreator {
		return func(reducer Reducer, preloadedState any) (Store, error) {
			enhanced = true
			assert.Nil(t, preloadedState, "preloaded state slot should have been cleared")
			return create(reducer, preloadedState)
		}
	})

	store, err := New(counter, enhancer, nil)
	require.NoError(t, err)
	assert.True(t, enhanced)

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 0, state)
}

func TestDispatch_IncrementsThrice(t *testing.T) {
	store := newCounterStore(t)

	for range 3 {
		_, err := store.Dispatch(Action{Type: "INC"})
		require.NoError(t, err)
	}

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 3, state)
}

func TestDispatch_ReturnsOriginalAction(t *testing.T) {
	store := newCounterStore(t)

	payload := &struct{ by int }{by: 1}
	action := Action{Type: "INC", Payload: payload}

	returned, err := store.Dispatch(action)
	require.NoError(t, err)
	assert.Equal(t, action, returned)
	assert.Same(t, payload, returned.Payload)
}

func TestDispatch_UntypedActionRejectedBeforeReducer(t *testing.T) {
	calls := 0
	counting := func(state any, action Action) (any, error) {
		calls++
		return counter(state, action)
	}
	store, err := New(counting, nil, nil)
	require.NoError(t, err)
	callsAfterInit := calls

	_, err = store.Dispatch(Action{})
	require.Error(t, err)
	assert.True(t, IsDispatchValidationError(err))
	assert.Equal(t, callsAfterInit, calls, "reducer must not run for an invalid action")
}

func TestDispatch_ReducerMayNotDispatch(t *testing.T) {
	var store Store
	reentrant := func(state any, action Action) (any, error) {
		if action.Type == "REENTER" {
			if _, err := store.Dispatch(Action{Type: "INC"}); err != nil {
				return nil, err
			}
		}
		return counter(state, action)
	}

	var err error
	store, err = New(reentrant, nil, nil)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "REENTER"})
	require.Error(t, err)
	assert.True(t, IsReentrancyError(err))
}

func TestDispatch_GuardReleasedAfterReducerError(t *testing.T) {
	boom := errors.New("boom")
	failing := func(state any, action Action) (any, error) {
		if action.Type == "BOOM" {
			return nil, boom
		}
		return counter(state, action)
	}
	store, err := New(failing, nil, nil)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "BOOM"})
	require.ErrorIs(t, err, boom)

	// State unchanged, and the guard must be clear again.
	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 0, state)

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
}

func TestDispatch_ListenersNotNotifiedOnReducerError(t *testing.T) {
	failing := func(state any, action Action) (any, error) {
		if action.Type == "BOOM" {
			return nil, errors.New("boom")
		}
		return counter(state, action)
	}
	store, err := New(failing, nil, nil)
	require.NoError(t, err)

	rec := &testutil.Recorder{}
	_, err = store.Subscribe(rec.Listen)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "BOOM"})
	require.Error(t, err)
	assert.Equal(t, 0, rec.Count())
}

func TestGetState_DuringReducerFails(t *testing.T) {
	var store Store
	var stateErr error
	peeking := func(state any, action Action) (any, error) {
		if action.Type == "PEEK" {
			_, stateErr = store.GetState()
		}
		return counter(state, action)
	}

	var err error
	store, err = New(peeking, nil, nil)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "PEEK"})
	require.NoError(t, err)

	require.Error(t, stateErr)
	var se *Error
	require.ErrorAs(t, stateErr, &se)
	assert.Equal(t, ErrCodeStateAccess, se.Code)
}

func TestSubscribe_NilListener(t *testing.T) {
	store := newCounterStore(t)

	_, err := store.Subscribe(nil)
	require.Error(t, err)
	assert.True(t, IsConstructionError(err))
}

func TestSubscribe_NotifiesAfterEachDispatch(t *testing.T) {
	store := newCounterStore(t)

	rec := &testutil.Recorder{}
	unsubscribe, err := store.Subscribe(rec.Listen)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count())

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count())

	unsubscribe()
	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count())
}

func TestSubscribe_TwiceUnsubscribeOnce(t *testing.T) {
	store := newCounterStore(t)

	rec := &testutil.Recorder{}
	unsubscribeFirst, err := store.Subscribe(rec.Listen)
	require.NoError(t, err)
	_, err = store.Subscribe(rec.Listen)
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count())

	unsubscribeFirst()
	rec.Reset()
	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count(), "the listener must remain registered exactly once")

	// Unsubscribing twice is a no-op.
	unsubscribeFirst()
	rec.Reset()
	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Count())
}

func TestSubscribe_DuringNotificationTakesEffectNextDispatch(t *testing.T) {
	store := newCounterStore(t)

	late := &testutil.Recorder{}
	_, err := store.Subscribe(func() {
		if late.Count() == 0 {
			_, subErr := store.Subscribe(late.Listen)
			require.NoError(t, subErr)
		}
	})
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 0, late.Count(), "listener added mid-notification must wait for the next dispatch")

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 1, late.Count())
}

func TestSubscribe_UnsubscribeDuringNotificationAffectsNextDispatch(t *testing.T) {
	store := newCounterStore(t)

	recA := &testutil.Recorder{}
	recC := &testutil.Recorder{}

	var unsubscribeC func()
	_, err := store.Subscribe(recA.Listen)
	require.NoError(t, err)
	_, err = store.Subscribe(func() { unsubscribeC() })
	require.NoError(t, err)
	unsubscribeC, err = store.Subscribe(recC.Listen)
	require.NoError(t, err)

	// C was in the snapshot before B unsubscribed it, so C still runs for
	// this dispatch.
	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 1, recA.Count())
	assert.Equal(t, 1, recC.Count())

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)
	assert.Equal(t, 2, recA.Count())
	assert.Equal(t, 1, recC.Count())
}

func TestDispatch_NestedFromListener(t *testing.T) {
	store := newCounterStore(t)

	var observed []int
	nested := false
	_, err := store.Subscribe(func() {
		state, stateErr := store.GetState()
		require.NoError(t, stateErr)
		observed = append(observed, state.(int))

		if !nested {
			nested = true
			_, dispatchErr := store.Dispatch(Action{Type: "INC"})
			require.NoError(t, dispatchErr)
		}
	})
	require.NoError(t, err)

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)

	// The nested dispatch completed fully before the outer one returned:
	// the listener ran for the nested dispatch (state 2) while handling the
	// outer notification (state 1).
	assert.Equal(t, []int{1, 2}, observed)

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 2, state)
}

func TestReplaceReducer_NilReducer(t *testing.T) {
	store := newCounterStore(t)

	err := store.ReplaceReducer(nil)
	require.Error(t, err)
	assert.True(t, IsConstructionError(err))
}

func TestReplaceReducer_SwapsBehavior(t *testing.T) {
	store := newCounterStore(t)

	_, err := store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)

	doubling := func(state any, action Action) (any, error) {
		if IsUndefined(state) {
			state = 0
		}
		if action.Type == "INC" {
			return state.(int) + 2, nil
		}
		return state, nil
	}
	require.NoError(t, store.ReplaceReducer(doubling))

	_, err = store.Dispatch(Action{Type: "INC"})
	require.NoError(t, err)

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, 3, state)
}

func TestReplaceReducer_ReinitializesNewSlots(t *testing.T) {
	store, err := New(CombineReducers(map[string]Reducer{
		"count": counter,
	}), nil, nil)
	require.NoError(t, err)

	label := func(state any, action Action) (any, error) {
		if IsUndefined(state) {
			return "unnamed", nil
		}
		return state, nil
	}
	require.NoError(t, store.ReplaceReducer(CombineReducers(map[string]Reducer{
		"count": counter,
		"label": label,
	})))

	state, err := store.GetState()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": 0, "label": "unnamed"}, state)
}
