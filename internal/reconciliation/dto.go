package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Detail statuses and the fixed texts written by the automatic engine.
const (
	DetailReconciled = "conciliada"
	DetailReview     = "revisao"
	DetailConflict   = "conflito"
	// DetailUnchanged marks a transaction still waiting in review for the
	// same reason. It is counted but not listed.
	DetailUnchanged = "inalterada"

	AutomaticNotes = "Conciliação automática - Match por valor e data"
	NoMatchReason  = "no match found by amount and date (±3 days)"
	NoMatchMotivo  = "Nenhum match encontrado"
	ErrorMotivo    = "Erro na conciliação"
	ConflictMotivo = "Conciliada por outra execução"
)

// Detail is the per-transaction outcome of an account run.
type Detail struct {
	TransactionID   uuid.UUID  `json:"transactionId"`
	ExternalOrderID string     `json:"externalOrderId"`
	Status          string     `json:"status"`
	Reason          string     `json:"reason,omitempty"`
	Error           string     `json:"error,omitempty"`
	BankAccountID   *uuid.UUID `json:"bankAccountId,omitempty"`
}

// AccountResult summarizes one ReconcileAccount call.
type AccountResult struct {
	AccountID   uuid.UUID `json:"accountId"`
	Reconciled  int       `json:"reconciled"`
	NeedsReview int       `json:"needsReview"`
	// AlreadyInReview counts transactions left untouched because nothing
	// changed since they were flagged.
	AlreadyInReview int      `json:"alreadyInReview"`
	Details         []Detail `json:"details"`
}

// AccountOutcome is one account's line in a batch run. Error is set when the
// account could not be processed at all.
type AccountOutcome struct {
	AccountID       uuid.UUID `json:"accountId"`
	AccountName     string    `json:"accountName"`
	MarketplaceName string    `json:"marketplaceName,omitempty"`
	Reconciled      int       `json:"reconciled"`
	NeedsReview     int       `json:"needsReview"`
	AlreadyInReview int       `json:"alreadyInReview"`
	// Error is set when the account failed; counts then cover the work
	// committed before the failure.
	Error string `json:"error,omitempty"`
}

// BatchResult aggregates a run over every active account.
type BatchResult struct {
	AccountsProcessed int              `json:"accountsProcessed"`
	AccountsFailed    int              `json:"accountsFailed"`
	Reconciled        int              `json:"reconciled"`
	NeedsReview       int              `json:"needsReview"`
	AlreadyInReview   int              `json:"alreadyInReview"`
	Accounts          []AccountOutcome `json:"accounts"`
	StartedAt         time.Time        `json:"startedAt"`
	FinishedAt        time.Time        `json:"finishedAt"`
}

// ManualInput records a settlement confirmed by an operator.
type ManualInput struct {
	TransactionID uuid.UUID
	BankAccountID uuid.UUID
	Amount        decimal.Decimal
	ReconciledAt  time.Time
	Notes         *string
}
