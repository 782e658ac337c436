// Package matching decides whether a marketplace transaction can be settled
// against a bank account.
package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// MatchWindow is how far either side of the order date a bank movement may
// fall and still count as a match.
const MatchWindow = 72 * time.Hour

// BankAccountFinder returns the oldest active bank account, or (nil, nil).
type BankAccountFinder interface {
	FindFirstActive(ctx context.Context) (*models.BankAccount, error)
}

// Result is the outcome for one transaction. WindowStart and WindowEnd are
// always populated so callers can log the range that was considered.
type Result struct {
	Matched       bool
	BankAccountID *uuid.UUID
	WindowStart   time.Time
	WindowEnd     time.Time
}

// Window returns the inclusive date range around orderDate.
func Window(orderDate time.Time) (time.Time, time.Time) {
	return orderDate.Add(-MatchWindow), orderDate.Add(MatchWindow)
}

type Resolver struct {
	banks BankAccountFinder
}

func NewResolver(banks BankAccountFinder) *Resolver {
	return &Resolver{banks: banks}
}

// Resolve looks up the candidate bank account and evaluates tx against it.
func (r *Resolver) Resolve(ctx context.Context, tx models.Transaction) (Result, error) {
	if tx.Status != enums.TransactionStatusApproved {
		return Evaluate(tx, nil), nil
	}
	bank, err := r.banks.FindFirstActive(ctx)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(tx, bank), nil
}

// Evaluate applies the match rule with a bank account that was already
// fetched, so a batch needs a single lookup.
func Evaluate(tx models.Transaction, bank *models.BankAccount) Result {
	start, end := Window(tx.OrderDate)
	res := Result{WindowStart: start, WindowEnd: end}
	if tx.Status != enums.TransactionStatusApproved || bank == nil || !bank.Active {
		return res
	}
	id := bank.ID
	res.Matched = true
	res.BankAccountID = &id
	return res
}
