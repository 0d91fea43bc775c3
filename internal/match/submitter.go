package match

import "context"

// Submitter persists a finished match result somewhere durable. The
// sqlite store and the HTTP history client both implement it, so
// callers never care where results end up.
type Submitter interface {
	SubmitResult(ctx context.Context, res Result) error
}

// SubmitterFunc adapts a plain function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, res Result) error

// SubmitResult calls f.
func (f SubmitterFunc) SubmitResult(ctx context.Context, res Result) error {
	return f(ctx, res)
}
