package stator

import "github.com/google/uuid"

// Action is an immutable record describing an intended state change.
//
// Type is the mandatory discriminant; Dispatch rejects actions with an
// empty Type. Payload carries arbitrary action data and is opaque to the
// store.
type Action struct {
	Type    string
	Payload any
}

// reservedPrefix marks the private action namespace used internally for
// initialization and reinitialization. Application reducers must never
// branch on types under this prefix.
const reservedPrefix = "@@stator/"

// randSuffix returns an unguessable suffix for reserved and probe action
// types. The suffix prevents reducers from pattern-matching internal types.
//
// Declared as a variable so in-package tests can pin it for deterministic
// assertions.
var randSuffix = func() string {
	return uuid.NewString()
}

// Reserved action types. The random suffix is fixed once per process, the
// same way the suffix of a flow token is fixed once per flow.
var (
	// actionTypeInit is dispatched once during store construction so every
	// reducer path produces its initial state.
	actionTypeInit = reservedPrefix + "INIT." + randSuffix()

	// actionTypeReplace is dispatched by ReplaceReducer so the replacement
	// reducer's defaults populate any previously undefined slots.
	actionTypeReplace = reservedPrefix + "REPLACE." + randSuffix()
)

// probeUnknownType returns a freshly random action type outside any type a
// reducer could anticipate. CombineReducers uses it to verify that reducers
// fall back to their current state for unrecognized actions instead of
// special-casing the reserved namespace.
func probeUnknownType() string {
	return reservedPrefix + "PROBE_UNKNOWN_ACTION." + randSuffix()
}

// isReserved reports whether the action type lives in the private
// "@@stator/" namespace.
func isReserved(actionType string) bool {
	return len(actionType) >= len(reservedPrefix) && actionType[:len(reservedPrefix)] == reservedPrefix
}

// describeActionType renders an action type for error messages.
// Untyped actions (possible only inside internal probes) read as "an action".
func describeActionType(actionType string) string {
	if actionType == "" {
		return "an action"
	}
	return `action "` + actionType + `"`
}
