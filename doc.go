// Package stator implements a unidirectional application-state container.
//
// Application logic mutates state only by submitting immutable actions to a
// central Store. The Store runs a pure reducer to compute the next state and
// synchronously notifies subscribed listeners. State never changes outside
// of a dispatch.
//
// ARCHITECTURE:
//
// Single-Goroutine Dispatch Loop:
// The store processes every dispatch synchronously on the calling goroutine.
// This ensures:
// - Predictable reducer evaluation order
// - No asynchronous gap during which observers see partial state
// - Simple reasoning about causality
//
// Dispatch Flow:
// 1. Action validated (type must be present)
// 2. Reentrancy guard set; reducer computes next state; guard released
// 3. Listener snapshot taken from the latest subscription list
// 4. Listeners notified in insertion order
// 5. The original action is returned to the caller
//
// Listeners may dispatch again (nested dispatch) because the guard is
// released before notification begins. Reducers may not dispatch.
//
// CRITICAL PATTERNS:
//
// Copy-On-Write Listener Lists:
// Subscribe and unsubscribe never mutate the list an in-flight notification
// is iterating. Changes apply to the next dispatch's snapshot.
//
// Deterministic Reducer Composition:
// CombineReducers folds named sub-reducers over their keys in stable sorted
// order. When no sub-reducer changed its slot, the prior whole-state value
// is returned unchanged so consumers can use cheap identity checks.
//
// Reserved Action Namespace:
// The store dispatches private "@@stator/" actions to force reducers to
// populate initial state. Application reducers must never branch on this
// namespace; CombineReducers probes for that at composition time.
package stator
