package models

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is the settlement side of a reconciliation.
type BankAccount struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BankName      string    `gorm:"column:bank_name;not null"`
	Agency        string    `gorm:"column:agency;not null"`
	AccountNumber string    `gorm:"column:account_number;not null"`
	Active        bool      `gorm:"column:active;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
