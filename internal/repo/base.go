// Package repo holds the connection plumbing shared by the GORM repositories.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the connection a repository runs on: the pool, or the
// transaction handle it was bound to.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns it unchanged.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Bind returns a Base running on tx. A nil tx keeps the current connection,
// so callers outside a transaction can pass it through.
func (b Base) Bind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// InTx reports whether this Base is bound to an open transaction.
func (b Base) InTx() bool {
	if b.db == nil || b.db.Statement == nil {
		return false
	}
	_, ok := b.db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}
