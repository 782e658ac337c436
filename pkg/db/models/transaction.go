package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
)

// Transaction is one marketplace sale together with its fee breakdown and
// reconciliation markers.
type Transaction struct {
	ID               uuid.UUID               `json:"id" gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID        uuid.UUID               `json:"accountId" gorm:"column:account_id;type:uuid;not null"`
	ExternalOrderID  string                  `json:"externalOrderId" gorm:"column:external_order_id;not null"`
	SKU              string                  `json:"sku" gorm:"column:sku;not null"`
	ProductName      string                  `json:"productName" gorm:"column:product_name;not null"`
	Quantity         int                     `json:"quantity" gorm:"column:quantity;not null"`
	GrossAmount      decimal.Decimal         `json:"grossAmount" gorm:"column:gross_amount;type:numeric(12,2);not null"`
	CommissionAmount decimal.Decimal         `json:"commissionAmount" gorm:"column:commission_amount;type:numeric(12,2);not null"`
	FixedFee         decimal.Decimal         `json:"fixedFee" gorm:"column:fixed_fee;type:numeric(12,2);not null"`
	ProcessingFee    decimal.Decimal         `json:"processingFee" gorm:"column:processing_fee;type:numeric(12,2);not null"`
	NetAmount        decimal.Decimal         `json:"netAmount" gorm:"column:net_amount;type:numeric(12,2);not null"`
	Status           enums.TransactionStatus `json:"status" gorm:"column:status;type:transaction_status_enum;not null"`
	OrderDate        time.Time               `json:"orderDate" gorm:"column:order_date;not null"`
	ApprovalDate     *time.Time              `json:"approvalDate,omitempty" gorm:"column:approval_date"`
	PayoutDate       *time.Time              `json:"payoutDate,omitempty" gorm:"column:payout_date"`

	AutoReconciled       bool    `json:"autoReconciled" gorm:"column:auto_reconciled;not null;default:false"`
	RequiresManualReview bool    `json:"requiresManualReview" gorm:"column:requires_manual_review;not null;default:false"`
	ReviewReason         *string `json:"reviewReason,omitempty" gorm:"column:review_reason"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at;autoUpdateTime"`

	Account        *MarketplaceAccount `json:"account,omitempty" gorm:"foreignKey:AccountID;references:ID"`
	Reconciliation *Reconciliation     `json:"reconciliation,omitempty" gorm:"foreignKey:TransactionID;references:ID"`
}
