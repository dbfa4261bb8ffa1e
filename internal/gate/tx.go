package gate

import (
	"context"
	"sync"
	"time"

	dErrors "medgate/pkg/domain-errors"
)

// defaultSerialTxTimeout is the maximum duration for one authorization.
const defaultSerialTxTimeout = 5 * time.Second

// SerialTx is the in-memory Tx: a single mutex serializing authorizations so
// each decision and its audit append complete before the next begins. The
// per-decision work is small and bounded, so a global lock is adequate here;
// the postgres deployment replaces this with a real database transaction.
type SerialTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

func NewSerialTx() *SerialTx {
	return &SerialTx{}
}

func (t *SerialTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultSerialTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}
