package domain

import "context"

// Transactor runs fn in one storage transaction. Repositories called with
// the ctx passed to fn take part in it; an error from fn rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
