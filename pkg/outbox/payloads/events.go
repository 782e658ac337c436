package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// TransactionReconciledEvent is emitted when a reconciliation record is created.
type TransactionReconciledEvent struct {
	TransactionID    uuid.UUID                `json:"transaction_id"`
	AccountID        uuid.UUID                `json:"account_id"`
	BankAccountID    uuid.UUID                `json:"bank_account_id"`
	ReconciliationID uuid.UUID                `json:"reconciliation_id"`
	Amount           decimal.Decimal          `json:"amount"`
	Type             enums.ReconciliationType `json:"type"`
	ReconciledAt     time.Time                `json:"reconciled_at"`
}

// TransactionFlaggedEvent is emitted when a transaction lands in the manual review queue.
type TransactionFlaggedEvent struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	AccountID     uuid.UUID `json:"account_id"`
	Reason        string    `json:"reason"`
}

// SyncCompletedEvent summarizes one account sync.
type SyncCompletedEvent struct {
	AccountID     uuid.UUID       `json:"account_id"`
	MarketplaceID uuid.UUID       `json:"marketplace_id"`
	Created       int             `json:"created"`
	GrossTotal    decimal.Decimal `json:"gross_total"`
	NetTotal      decimal.Decimal `json:"net_total"`
	SyncedAt      time.Time       `json:"synced_at"`
}
