package stator

// MiddlewareAPI is the capability view handed to each middleware: read
// access to state, and a dispatch that forwards to the store's final,
// fully composed dispatch function.
//
// The Dispatch field is late-bound. While the middleware chain is still
// being assembled it refers to a placeholder that fails fast; see
// ApplyMiddleware.
type MiddlewareAPI struct {
	GetState func() (any, error)
	Dispatch Dispatch
}

// Middleware builds one dispatch-transforming layer from the capability
// view. The returned function receives the next dispatch in the chain and
// returns the wrapped dispatch.
type Middleware func(api MiddlewareAPI) func(next Dispatch) Dispatch

// ApplyMiddleware yields an Enhancer that wraps the store's dispatch with
// the given middlewares. The first middleware is outermost: it sees every
// dispatched action first and its next eventually reaches the raw store
// dispatch.
//
// Construction is two-phase. Each middleware is first invoked with the
// capability view to build its layer; only then are the layers composed
// right to left around the raw dispatch, and the capability view's
// late-bound Dispatch switched to the final chain. A middleware that
// dispatches through the capability view during the first phase fails with
// a middleware construction error, because other middleware would not be
// applied to that dispatch.
func ApplyMiddleware(middlewares ...Middleware) Enhancer {
	return func(create StoreCreator) StoreCreator {
		return func(reducer Reducer, preloadedState any) (Store, error) {
			st, err := create(reducer, preloadedState)
			if err != nil {
				return nil, err
			}

			// Phase one: build one layer per middleware. dispatch is the
			// shared outer variable the capability view forwards through;
			// until phase two assigns the final chain it rejects all use.
			dispatch := Dispatch(func(Action) (Action, error) {
				return Action{}, newMiddlewareConstructionError()
			})
			api := MiddlewareAPI{
				GetState: st.GetState,
				Dispatch: func(action Action) (Action, error) { return dispatch(action) },
			}

			chain := make([]func(Dispatch) Dispatch, 0, len(middlewares))
			for _, mw := range middlewares {
				chain = append(chain, mw(api))
			}

			// Phase two: compose right to left with the raw store dispatch
			// as the innermost next, then resolve the late binding.
			dispatch = Compose(chain...)(st.Dispatch)

			return &enhancedStore{Store: st, dispatch: dispatch}, nil
		}
	}
}

// enhancedStore returns the raw store's members unchanged with Dispatch
// replaced by the composed chain.
type enhancedStore struct {
	Store
	dispatch Dispatch
}

func (s *enhancedStore) Dispatch(action Action) (Action, error) {
	return s.dispatch(action)
}
