// Package repotest provides an in-memory SQLite database with the service
// schema plus small fixture builders for repository and service tests.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
	"github.com/angelmondragon/marketrecon-backend/pkg/migrate"
)

// NewDB returns a fresh database. A single connection keeps the in-memory
// database alive for the whole test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate.ApplySQLiteSchemaNoSeed(context.Background(), conn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return conn
}

func Marketplace(t testing.TB, db *gorm.DB, name string, active bool) *models.Marketplace {
	t.Helper()
	m := &models.Marketplace{
		ID:             uuid.New(),
		Name:           name,
		Slug:           uuid.NewString()[:8],
		Active:         active,
		CommissionRate: decimal.RequireFromString("0.15"),
		FixedFee:       decimal.RequireFromString("2.50"),
		ProcessingRate: decimal.RequireFromString("0.029"),
	}
	create(t, db, m)
	return m
}

func Account(t testing.TB, db *gorm.DB, marketplaceID uuid.UUID, status enums.AccountStatus) *models.MarketplaceAccount {
	t.Helper()
	a := &models.MarketplaceAccount{
		ID:            uuid.New(),
		MarketplaceID: marketplaceID,
		SellerID:      "seller-" + uuid.NewString()[:8],
		Name:          "Loja Teste",
		Status:        status,
	}
	create(t, db, a)
	return a
}

func BankAccount(t testing.TB, db *gorm.DB, active bool) *models.BankAccount {
	t.Helper()
	b := &models.BankAccount{
		ID:            uuid.New(),
		BankName:      "Banco Teste",
		Agency:        "0001",
		AccountNumber: "99999-9",
		Active:        active,
	}
	create(t, db, b)
	return b
}

// Transaction inserts an unreconciled sale with a 100.00 gross amount.
func Transaction(t testing.TB, db *gorm.DB, accountID uuid.UUID, status enums.TransactionStatus, orderDate time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		ID:               uuid.New(),
		AccountID:        accountID,
		ExternalOrderID:  "AMZ" + uuid.NewString()[:10],
		SKU:              "SKU-123456",
		ProductName:      "Mouse Gamer",
		Quantity:         1,
		GrossAmount:      decimal.RequireFromString("100.00"),
		CommissionAmount: decimal.RequireFromString("15.00"),
		FixedFee:         decimal.RequireFromString("2.50"),
		ProcessingFee:    decimal.RequireFromString("2.90"),
		NetAmount:        decimal.RequireFromString("79.60"),
		Status:           status,
		OrderDate:        orderDate.UTC(),
	}
	if status == enums.TransactionStatusApproved {
		approved := orderDate.Add(time.Hour).UTC()
		tx.ApprovalDate = &approved
	}
	create(t, db, tx)
	return tx
}

func create(t testing.TB, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
