package pkg

import (
	"context"

	"gorm.io/gorm"
)

// WithTx runs fn in a transaction bound to ctx. An error from fn rolls back
// and is returned unchanged; a panic rolls back and keeps unwinding. Called
// with a db that is already a transaction, fn runs inside a savepoint.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
