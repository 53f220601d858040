package stator

import (
	"errors"
	"fmt"
)

// Error represents a failure detected by the store or one of its
// composition helpers.
//
// Failures include:
//   - Construction: non-callable reducer or enhancer given to New
//   - Dispatch validation: action missing its type discriminant
//   - Reentrancy: dispatch (or subscribe) invoked while a reducer runs
//   - Shape: a (sub-)reducer returned the absent sentinel where prohibited
//
// Error includes structured fields for diagnostics. All failures surface
// synchronously to the immediate caller; nothing is caught or retried
// internally.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Key identifies the state slot (for shape errors from CombineReducers).
	Key string

	// ActionType identifies the offending action, when one is known.
	ActionType string
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeConstruction indicates a non-callable reducer, enhancer, or
	// listener was given where a function is required.
	ErrCodeConstruction ErrorCode = "CONSTRUCTION"

	// ErrCodeDispatchValidation indicates a dispatched action failed
	// validation before any reducer ran.
	ErrCodeDispatchValidation ErrorCode = "DISPATCH_VALIDATION"

	// ErrCodeReentrancy indicates dispatch or subscribe was invoked while a
	// reducer call was in progress.
	ErrCodeReentrancy ErrorCode = "REENTRANCY"

	// ErrCodeStateAccess indicates GetState was invoked while a reducer call
	// was in progress and state was transiently inconsistent.
	ErrCodeStateAccess ErrorCode = "STATE_ACCESS"

	// ErrCodeShape indicates a reducer returned the absent sentinel where
	// prohibited. Sticky for composed reducers: re-returned on every call
	// until the underlying definitions are fixed.
	ErrCodeShape ErrorCode = "SHAPE"

	// ErrCodeInteropType indicates the reactive interop subscribe was given
	// a nil observer.
	ErrCodeInteropType ErrorCode = "INTEROP_TYPE"

	// ErrCodeBindingType indicates BindActionCreators was given neither an
	// action creator nor a map of action creators.
	ErrCodeBindingType ErrorCode = "BINDING_TYPE"

	// ErrCodeMiddlewareConstruction indicates a middleware dispatched through
	// its capability view before the dispatch chain was fully assembled.
	ErrCodeMiddlewareConstruction ErrorCode = "MIDDLEWARE_CONSTRUCTION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key != "" && e.ActionType != "" {
		return fmt.Sprintf("%s: %s (key=%s, action=%s)", e.Code, e.Message, e.Key, e.ActionType)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsShapeError returns true if the error is a reducer shape error.
// Uses errors.As to handle wrapped errors.
func IsShapeError(err error) bool {
	return hasCode(err, ErrCodeShape)
}

// IsReentrancyError returns true if the error is a dispatch reentrancy error.
// Uses errors.As to handle wrapped errors.
func IsReentrancyError(err error) bool {
	return hasCode(err, ErrCodeReentrancy)
}

// IsConstructionError returns true if the error is a store construction error.
// Uses errors.As to handle wrapped errors.
func IsConstructionError(err error) bool {
	return hasCode(err, ErrCodeConstruction)
}

// IsDispatchValidationError returns true if the error is an action
// validation error. Uses errors.As to handle wrapped errors.
func IsDispatchValidationError(err error) bool {
	return hasCode(err, ErrCodeDispatchValidation)
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func newConstructionError(message string) *Error {
	return &Error{Code: ErrCodeConstruction, Message: message}
}

func newDispatchValidationError(message string) *Error {
	return &Error{Code: ErrCodeDispatchValidation, Message: message}
}

func newReentrancyError(message string) *Error {
	return &Error{Code: ErrCodeReentrancy, Message: message}
}

func newStateAccessError() *Error {
	return &Error{
		Code:    ErrCodeStateAccess,
		Message: "may not read state while the reducer is executing; the reducer already received the state as an argument",
	}
}

// newShapeUndefinedError reports a sub-reducer that returned the absent
// sentinel during a regular dispatch.
func newShapeUndefinedError(key, actionType string) *Error {
	return &Error{
		Code:       ErrCodeShape,
		Message:    fmt.Sprintf("reducer %q returned the absent sentinel when handling %s; to ignore an action you must return the previous state (nil is valid)", key, describeActionType(actionType)),
		Key:        key,
		ActionType: actionType,
	}
}

func newInteropTypeError() *Error {
	return &Error{Code: ErrCodeInteropType, Message: "expected the observer to be a non-nil object"}
}

func newBindingTypeError(message string) *Error {
	return &Error{Code: ErrCodeBindingType, Message: message}
}

func newMiddlewareConstructionError() *Error {
	return &Error{
		Code:    ErrCodeMiddlewareConstruction,
		Message: "dispatching while constructing middleware is not allowed; other middleware would not be applied to this dispatch",
	}
}
