package stator

import "fmt"

// ActionCreator builds an action from call-site arguments.
type ActionCreator func(args ...any) Action

// BoundActionCreator is an ActionCreator wired to a dispatch: calling it
// dispatches the created action and returns the dispatch result.
type BoundActionCreator func(args ...any) (Action, error)

// BindActionCreators wraps action creators so they auto-dispatch.
//
// Given a single ActionCreator, returns a BoundActionCreator that forwards
// its arguments to the creator and dispatches the result. Given a
// map[string]ActionCreator, returns a map[string]BoundActionCreator with
// the same keys; nil entries are silently skipped.
//
// The only use case for this over calling dispatch directly is passing
// dispatch-agnostic bound creators down to components that should not be
// aware of the store.
//
// Anything other than a creator or a map of creators fails with a binding
// type error.
func BindActionCreators(creators any, dispatch Dispatch) (any, error) {
	switch c := creators.(type) {
	case ActionCreator:
		return bindActionCreator(c, dispatch), nil
	case func(args ...any) Action:
		return bindActionCreator(c, dispatch), nil
	case map[string]ActionCreator:
		bound := make(map[string]BoundActionCreator, len(c))
		for name, creator := range c {
			if creator == nil {
				continue
			}
			bound[name] = bindActionCreator(creator, dispatch)
		}
		return bound, nil
	case nil:
		return nil, newBindingTypeError("expected an action creator or a map of action creators, got nil")
	default:
		return nil, newBindingTypeError(fmt.Sprintf("expected an action creator or a map of action creators, got %T", creators))
	}
}

func bindActionCreator(creator ActionCreator, dispatch Dispatch) BoundActionCreator {
	return func(args ...any) (Action, error) {
		return dispatch(creator(args...))
	}
}
