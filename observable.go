package stator

// Observer receives state updates from an Observable. Next is optional; an
// observer with a nil Next is registered but never called.
type Observer struct {
	Next func(state any)
}

// Subscription is the handle returned by Observable.Subscribe. Unsubscribe
// stops further deliveries and is idempotent.
type Subscription struct {
	unsubscribe func()
}

// Unsubscribe stops state deliveries to the observer.
func (s *Subscription) Unsubscribe() {
	s.unsubscribe()
}

// Observable is the store's reactive interop capability: an explicit named
// surface for observer-pattern consumers, in place of a magic property key.
type Observable struct {
	subscribe func(listener func()) (func(), error)
	getState  func() (any, error)
}

// Observable returns the interop capability for this store.
func (e *engine) Observable() Observable {
	return Observable{subscribe: e.Subscribe, getState: e.GetState}
}

// Subscribe registers an observer. The current state is delivered
// synchronously once, then again after every future dispatch until the
// returned subscription is cancelled.
//
// A nil observer fails with an interop type error.
func (o Observable) Subscribe(observer *Observer) (*Subscription, error) {
	if observer == nil {
		return nil, newInteropTypeError()
	}

	observeState := func() {
		if observer.Next == nil {
			return
		}
		state, err := o.getState()
		if err != nil {
			// Listeners run only after the dispatch guard is released, so
			// state access cannot fail here.
			return
		}
		observer.Next(state)
	}

	observeState()
	unsubscribe, err := o.subscribe(observeState)
	if err != nil {
		return nil, err
	}
	return &Subscription{unsubscribe: unsubscribe}, nil
}
