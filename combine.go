package stator

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/vanward/stator/internal/diag"
)

// CombineReducers folds a mapping of named sub-reducers into one whole-state
// reducer. The combined state is a map whose keys correspond 1:1 to the
// sub-reducer names.
//
// At composition time, nil entries are dropped with a non-fatal diagnostic
// (suppressed in production), and every surviving sub-reducer is probed for
// shape: it must produce a well-defined initial state for the reserved INIT
// action and for an unguessable unknown action, both from an absent prior
// state. A failed probe is not surfaced here; the stored error is returned
// by every subsequent invocation of the combined reducer, until the
// underlying definitions are fixed.
//
// Per dispatch, sub-reducers run over their keys in stable sorted order.
// When no sub-reducer changed its slot, the prior whole-state value is
// returned unchanged so consumers can detect changes by identity.
func CombineReducers(reducers map[string]Reducer) Reducer {
	finalReducers := make(map[string]Reducer, len(reducers))
	for key, r := range reducers {
		if r == nil {
			diag.Warn("no reducer provided for key", "key", key)
			continue
		}
		finalReducers[key] = r
	}
	finalKeys := slices.Sorted(maps.Keys(finalReducers))

	// Shape assertion runs once; its error is sticky.
	shapeErr := assertReducerShape(finalKeys, finalReducers)

	// Each unexpected key is reported at most once per composition.
	unexpectedKeyCache := make(map[string]struct{})

	return func(state any, action Action) (any, error) {
		if shapeErr != nil {
			return nil, shapeErr
		}

		if !diag.Production() {
			warnUnexpectedStateShape(state, finalReducers, action, unexpectedKeyCache)
		}

		priorMap, isMap := priorStateMap(state)

		hasChanged := false
		nextState := make(map[string]any, len(finalKeys))
		for _, key := range finalKeys {
			prior := Undefined
			if v, ok := priorMap[key]; ok {
				prior = v
			}

			next, err := finalReducers[key](prior, action)
			if err != nil {
				return nil, fmt.Errorf("reducer %q handling %s: %w", key, describeActionType(action.Type), err)
			}
			if isAbsent(next) {
				return nil, newShapeUndefinedError(key, action.Type)
			}

			nextState[key] = next
			hasChanged = hasChanged || !sameReference(prior, next)
		}
		hasChanged = hasChanged || !isMap || len(priorMap) != len(finalKeys)

		if !hasChanged {
			return state, nil
		}
		return nextState, nil
	}
}

// priorStateMap views the incoming whole-state value as a key lookup.
// Absent state reads as an empty map; a non-map value also reads as empty,
// which makes every sub-reducer fall back to its initial state.
func priorStateMap(state any) (map[string]any, bool) {
	if isAbsent(state) {
		return nil, false
	}
	if m, ok := state.(map[string]any); ok {
		return m, true
	}
	return nil, false
}

// assertReducerShape probes each sub-reducer with an absent prior state:
// once with the reserved INIT action, once with a freshly random unknown
// type. Both results must be well-defined (nil is acceptable, Undefined is
// not). The second probe enforces that reducers do not special-case the
// reserved namespace and always fall back to their initial or current state
// for unrecognized actions.
func assertReducerShape(keys []string, reducers map[string]Reducer) error {
	for _, key := range keys {
		r := reducers[key]

		initial, err := r(Undefined, Action{Type: actionTypeInit})
		if err != nil {
			return fmt.Errorf("reducer %q failed during initialization: %w", key, err)
		}
		if isAbsent(initial) {
			return &Error{
				Code:    ErrCodeShape,
				Message: fmt.Sprintf("reducer %q returned the absent sentinel during initialization; if the state passed to the reducer is absent you must explicitly return the initial state, which may not be the absent sentinel (nil is valid)", key),
				Key:     key,
			}
		}

		probed, err := r(Undefined, Action{Type: probeUnknownType()})
		if err != nil {
			return fmt.Errorf("reducer %q failed when probed with an unknown action: %w", key, err)
		}
		if isAbsent(probed) {
			return &Error{
				Code:    ErrCodeShape,
				Message: fmt.Sprintf("reducer %q returned the absent sentinel when probed with an unknown action; reducers must not handle the private %q namespace and must return the current state for any unrecognized action (nil is valid)", key, reservedPrefix),
				Key:     key,
			}
		}
	}
	return nil
}

// warnUnexpectedStateShape emits advisory diagnostics when the incoming
// whole-state value does not match the composition: no sub-reducers at all,
// a non-map state value, or keys with no corresponding sub-reducer. Never
// fails; each unexpected key is reported at most once per composition.
func warnUnexpectedStateShape(state any, reducers map[string]Reducer, action Action, cache map[string]struct{}) {
	if len(reducers) == 0 {
		diag.Warn("store does not have a valid reducer; the mapping passed to CombineReducers has no usable entries")
		return
	}

	if isAbsent(state) {
		return
	}
	m, ok := state.(map[string]any)
	if !ok {
		diag.Warn("unexpected state shape given to the combined reducer",
			"got", fmt.Sprintf("%T", state),
			"expected", "map[string]any",
		)
		return
	}

	// ReplaceReducer legitimately changes the key set; skip the check for
	// the reinitialization dispatch.
	if action.Type == actionTypeReplace {
		return
	}

	for _, key := range slices.Sorted(maps.Keys(m)) {
		if _, known := reducers[key]; known {
			continue
		}
		if _, seen := cache[key]; seen {
			continue
		}
		cache[key] = struct{}{}
		diag.Warn("unexpected key found in state; it will be ignored by the combined reducer", "key", key)
	}
}

// sameReference reports whether two state values are the same by identity,
// the equivalent of a strict reference check. Reference types compare by
// pointer; comparable values compare by value; anything else counts as
// changed.
func sameReference(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		if va.Type().Comparable() {
			return a == b
		}
		return false
	}
}
