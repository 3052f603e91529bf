package common

import "sync"

// Future is used to represent an action that may occur in the future.
type Future interface {
	// Error blocks until the future arrives and then returns the error status
	// of the future. This may be called any number of times, concurrently or
	// not, and all calls return the same value.
	Error() error
}

// DeferError is a Future that is resolved exactly once by calling Respond.
// Nobody is required to observe the result; a DeferError that is never read
// is simply garbage collected.
type DeferError struct {
	once   sync.Once
	err    error
	doneCh chan struct{}
}

var _ Future = (*DeferError)(nil)

// NewDeferError ...
func NewDeferError() *DeferError {
	return &DeferError{
		doneCh: make(chan struct{}),
	}
}

// Error implements Future.
func (d *DeferError) Error() error {
	<-d.doneCh
	return d.err
}

// Done returns a channel that is closed once the future has been resolved.
func (d *DeferError) Done() <-chan struct{} {
	return d.doneCh
}

// Respond resolves the future. Only the first call has an effect.
func (d *DeferError) Respond(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.doneCh)
	})
}
