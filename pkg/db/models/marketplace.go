package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Marketplace is a sales channel together with the fee schedule it charges sellers.
type Marketplace struct {
	ID             uuid.UUID       `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `json:"name" gorm:"column:name;not null;uniqueIndex"`
	Slug           string          `json:"slug" gorm:"column:slug;not null;uniqueIndex"`
	Active         bool            `json:"active" gorm:"column:active;not null"`
	CommissionRate decimal.Decimal `json:"commissionRate" gorm:"column:commission_rate;type:numeric(6,4);not null"`
	FixedFee       decimal.Decimal `json:"fixedFee" gorm:"column:fixed_fee;type:numeric(12,2);not null"`
	ProcessingRate decimal.Decimal `json:"processingRate" gorm:"column:processing_rate;type:numeric(6,4);not null"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`
}
