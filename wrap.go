package functimer

// The Wrap family returns a function with the same signature as fn that
// times every call. Timing is emitted even when fn returns an error or
// panics. Responses are only printed for calls that succeed.

func Wrap(t *Timer, fn func()) func() {
	name := t.funcName(fn)
	return func() {
		t.Start()
		defer t.finish(name)
		fn()
	}
}

func WrapValue[R any](t *Timer, fn func() R) func() R {
	name := t.funcName(fn)
	return func() R {
		t.Start()
		defer t.finish(name)
		r := fn()
		t.respond(r)
		return r
	}
}

func WrapFunc[A, R any](t *Timer, fn func(A) R) func(A) R {
	name := t.funcName(fn)
	return func(a A) R {
		t.Start()
		defer t.finish(name)
		r := fn(a)
		t.respond(r)
		return r
	}
}

func WrapErr[A, R any](t *Timer, fn func(A) (R, error)) func(A) (R, error) {
	name := t.funcName(fn)
	return func(a A) (R, error) {
		t.Start()
		defer t.finish(name)
		r, err := fn(a)
		if err == nil {
			t.respond(r)
		}
		return r, err
	}
}

func (t *Timer) funcName(fn interface{}) string {
	if t.name != "" {
		return t.name
	}
	return FuncName(fn)
}
