package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
	"github.com/angelmondragon/marketrecon-backend/pkg/pagination"
)

// Flags are the reconciliation markers the engine writes on a transaction.
type Flags struct {
	AutoReconciled       bool
	RequiresManualReview bool
	ReviewReason         *string
}

// Filter narrows the transaction listing. Zero values are ignored.
type Filter struct {
	AccountID *uuid.UUID
	Status    *enums.TransactionStatus
	From      *time.Time
	To        *time.Time
}

// ListResult is one page of transactions, newest order first.
type ListResult struct {
	Items      []models.Transaction `json:"items"`
	NextCursor string               `json:"nextCursor,omitempty"`
}

// PendingReviewItem is a transaction flagged for manual review together with
// the account and marketplace it belongs to.
type PendingReviewItem struct {
	ID              uuid.UUID               `json:"id" gorm:"column:id"`
	AccountID       uuid.UUID               `json:"accountId" gorm:"column:account_id"`
	AccountName     string                  `json:"accountName" gorm:"column:account_name"`
	MarketplaceID   uuid.UUID               `json:"marketplaceId" gorm:"column:marketplace_id"`
	MarketplaceName string                  `json:"marketplaceName" gorm:"column:marketplace_name"`
	ExternalOrderID string                  `json:"externalOrderId" gorm:"column:external_order_id"`
	ProductName     string                  `json:"productName" gorm:"column:product_name"`
	Status          enums.TransactionStatus `json:"status" gorm:"column:status"`
	NetAmount       decimal.Decimal         `json:"netAmount" gorm:"column:net_amount"`
	OrderDate       time.Time               `json:"orderDate" gorm:"column:order_date"`
	ReviewReason    *string                 `json:"reviewReason,omitempty" gorm:"column:review_reason"`
}

func orderCursor(tx models.Transaction) pagination.Cursor {
	return pagination.Cursor{At: tx.OrderDate, ID: tx.ID}
}
