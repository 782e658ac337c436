package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// Reconciliation links a transaction to the bank account that settled it.
// transaction_id is unique: at most one record per transaction.
type Reconciliation struct {
	ID            uuid.UUID                `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TransactionID uuid.UUID                `json:"transactionId" gorm:"column:transaction_id;type:uuid;not null;uniqueIndex:ux_reconciliations_transaction_id"`
	BankAccountID uuid.UUID                `json:"bankAccountId" gorm:"column:bank_account_id;type:uuid;not null"`
	Amount        decimal.Decimal          `json:"amount" gorm:"column:amount;type:numeric(12,2);not null"`
	ReconciledAt  time.Time                `json:"reconciledAt" gorm:"column:reconciled_at;not null"`
	Type          enums.ReconciliationType `json:"type" gorm:"column:type;type:reconciliation_type_enum;not null"`
	Notes         *string                  `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt     time.Time                `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
}
