package panicerr

// Recover calls f, converting any panic raised while it runs into a non-nil
// error return. Unlike running f in a separate goroutine, the call stays on
// the caller's goroutine, so f may freely mutate caller state.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = newPanicError(name, e)
		}
	}()
	return f()
}
