package atoms

// Result is the outcome of trying an atom. A failed Result carries whatever
// the context's Reporter produced for it, or nil without a reporter.
type Result struct {
	OK     bool
	Value  any
	Report any
}

func Success(value any) Result {
	return Result{OK: true, Value: value}
}
