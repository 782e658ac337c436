package accounts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// AccountSummary is the listing view of an account.
type AccountSummary struct {
	ID               uuid.UUID           `json:"id" gorm:"column:id"`
	MarketplaceID    uuid.UUID           `json:"marketplaceId" gorm:"column:marketplace_id"`
	MarketplaceName  string              `json:"marketplaceName" gorm:"column:marketplace_name"`
	SellerID         string              `json:"sellerId" gorm:"column:seller_id"`
	Name             string              `json:"name" gorm:"column:name"`
	Status           enums.AccountStatus `json:"status" gorm:"column:status"`
	LastSyncAt       *time.Time          `json:"lastSyncAt,omitempty" gorm:"column:last_sync_at"`
	CreatedAt        time.Time           `json:"createdAt" gorm:"column:created_at"`
	TransactionCount int64               `json:"transactionCount" gorm:"column:transaction_count"`
}

// CreateInput carries a new seller account. Credentials are stored as given.
type CreateInput struct {
	MarketplaceID uuid.UUID
	SellerID      string
	Name          string
	Credentials   json.RawMessage
	Status        enums.AccountStatus
}
