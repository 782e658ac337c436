package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// MarketplaceAccount is a seller account on one marketplace.
type MarketplaceAccount struct {
	ID            uuid.UUID           `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MarketplaceID uuid.UUID           `json:"marketplaceId" gorm:"column:marketplace_id;type:uuid;not null"`
	SellerID      string              `json:"sellerId" gorm:"column:seller_id;not null"`
	Name          string              `json:"name" gorm:"column:name;not null"`
	Credentials   json.RawMessage     `json:"-" gorm:"column:credentials;type:jsonb"`
	Status        enums.AccountStatus `json:"status" gorm:"column:status;type:account_status_enum;not null;default:'ACTIVE'"`
	LastSyncAt    *time.Time          `json:"lastSyncAt,omitempty" gorm:"column:last_sync_at"`
	CreatedAt     time.Time           `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`

	Marketplace *Marketplace `json:"marketplace,omitempty" gorm:"foreignKey:MarketplaceID;references:ID"`
}

func (MarketplaceAccount) TableName() string { return "marketplace_accounts" }

func (a MarketplaceAccount) IsActive() bool {
	return a.Status == enums.AccountStatusActive
}
