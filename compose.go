package stator

// Compose composes single-argument functions from right to left:
// Compose(f, g, h)(x) is f(g(h(x))).
//
// With no functions it returns the identity; with one it returns that
// function unchanged.
func Compose[T any](fns ...func(T) T) func(T) T {
	switch len(fns) {
	case 0:
		return func(v T) T { return v }
	case 1:
		return fns[0]
	}

	composed := fns[len(fns)-1]
	for i := len(fns) - 2; i >= 0; i-- {
		outer, inner := fns[i], composed
		composed = func(v T) T { return outer(inner(v)) }
	}
	return composed
}
