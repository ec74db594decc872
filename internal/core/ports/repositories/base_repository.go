package repositories

import (
	"context"
)

// TransactionManager runs a unit of work atomically.
// The RepositoryProvider handed to fn is bound to a single database transaction;
// fn returning an error rolls everything back.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryProvider) error) error
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}
