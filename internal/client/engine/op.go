package engine

import (
	"context"
	"sync"
)

// Op tracks the remote confirmation of one mutation. The local effect is
// already visible when an Op is handed out.
type Op struct {
	once sync.Once
	done chan struct{}
	id   string
	err  error
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

// finishedOp is an Op that completed without a remote call.
func finishedOp(id string, err error) *Op {
	op := newOp()
	op.finish(id, err)
	return op
}

func (o *Op) finish(id string, err error) {
	o.once.Do(func() {
		o.id = id
		o.err = err
		close(o.done)
	})
}

// Done is closed once the remote outcome is known.
func (o *Op) Done() <-chan struct{} { return o.done }

// Err returns the remote outcome, or nil while the Op is still running.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// ID returns the durable id of the affected record once the Op succeeded.
func (o *Op) ID() string {
	select {
	case <-o.done:
		return o.id
	default:
		return ""
	}
}

// Wait blocks until the remote outcome is known or ctx ends.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
