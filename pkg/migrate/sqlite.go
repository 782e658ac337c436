package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sqliteSchema mirrors the goose migrations for local SQLite runs and tests.
// Keep it in step with migrations/.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS marketplaces (
		id text PRIMARY KEY,
		name text NOT NULL UNIQUE,
		slug text NOT NULL UNIQUE,
		active boolean NOT NULL DEFAULT 1,
		commission_rate numeric NOT NULL,
		fixed_fee numeric NOT NULL,
		processing_rate numeric NOT NULL,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS marketplace_accounts (
		id text PRIMARY KEY,
		marketplace_id text NOT NULL REFERENCES marketplaces(id),
		seller_id text NOT NULL,
		name text NOT NULL,
		credentials blob,
		status text NOT NULL DEFAULT 'ACTIVE',
		last_sync_at datetime,
		created_at datetime,
		updated_at datetime,
		UNIQUE (marketplace_id, seller_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id text PRIMARY KEY,
		account_id text NOT NULL REFERENCES marketplace_accounts(id) ON DELETE CASCADE,
		external_order_id text NOT NULL,
		sku text NOT NULL,
		product_name text NOT NULL,
		quantity integer NOT NULL CHECK (quantity >= 1),
		gross_amount numeric NOT NULL,
		commission_amount numeric NOT NULL,
		fixed_fee numeric NOT NULL,
		processing_fee numeric NOT NULL,
		net_amount numeric NOT NULL,
		status text NOT NULL,
		order_date datetime NOT NULL,
		approval_date datetime,
		payout_date datetime,
		auto_reconciled boolean NOT NULL DEFAULT 0,
		requires_manual_review boolean NOT NULL DEFAULT 0,
		review_reason text,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS bank_accounts (
		id text PRIMARY KEY,
		bank_name text NOT NULL,
		agency text NOT NULL,
		account_number text NOT NULL,
		active boolean NOT NULL DEFAULT 1,
		created_at datetime,
		updated_at datetime
	)`,
	`CREATE TABLE IF NOT EXISTS reconciliations (
		id text PRIMARY KEY,
		transaction_id text NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
		bank_account_id text NOT NULL REFERENCES bank_accounts(id),
		amount numeric NOT NULL,
		reconciled_at datetime NOT NULL,
		type text NOT NULL,
		notes text,
		created_at datetime
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_reconciliations_transaction_id ON reconciliations (transaction_id)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id text PRIMARY KEY,
		event_type text NOT NULL,
		aggregate_type text NOT NULL,
		aggregate_id text NOT NULL,
		payload blob NOT NULL,
		created_at datetime,
		published_at datetime,
		attempt_count integer NOT NULL DEFAULT 0,
		last_error text
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_dlq (
		id text PRIMARY KEY,
		event_id text NOT NULL,
		event_type text NOT NULL,
		aggregate_type text NOT NULL,
		aggregate_id text NOT NULL,
		payload_json blob NOT NULL,
		error_reason text NOT NULL,
		error_message text,
		attempt_count integer NOT NULL DEFAULT 0,
		failed_at datetime,
		created_at datetime
	)`,
}

type seedMarketplace struct {
	name, slug                       string
	commission, fixedFee, processing string
}

var seedMarketplaces = []seedMarketplace{
	{"Amazon", "amazon", "0.15", "2.50", "0.029"},
	{"Mercado Livre", "mercado-livre", "0.16", "3.00", "0.035"},
	{"Shopee", "shopee", "0.12", "1.50", "0.025"},
	{"Magalu", "magalu", "0.14", "2.00", "0.030"},
	{"B2W", "b2w", "0.13", "2.20", "0.028"},
}

// ApplySQLiteSchema creates the tables. Seed rows are only inserted when
// the marketplaces table is empty.
func ApplySQLiteSchema(ctx context.Context, conn *gorm.DB) error {
	return applySQLite(ctx, conn, true)
}

// ApplySQLiteSchemaNoSeed creates the tables without seed rows. Used by tests.
func ApplySQLiteSchemaNoSeed(ctx context.Context, conn *gorm.DB) error {
	return applySQLite(ctx, conn, false)
}

func applySQLite(ctx context.Context, conn *gorm.DB, seed bool) error {
	db := conn.WithContext(ctx)
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	if !seed {
		return nil
	}

	var count int64
	if err := db.Table("marketplaces").Count(&count).Error; err != nil {
		return fmt.Errorf("count marketplaces: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, m := range seedMarketplaces {
		err := db.Exec(
			`INSERT INTO marketplaces (id, name, slug, active, commission_rate, fixed_fee, processing_rate, created_at, updated_at)
			 VALUES (?, ?, ?, 1, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			uuid.NewString(), m.name, m.slug, m.commission, m.fixedFee, m.processing,
		).Error
		if err != nil {
			return fmt.Errorf("seed marketplace %s: %w", m.slug, err)
		}
	}
	err := db.Exec(
		`INSERT INTO bank_accounts (id, bank_name, agency, account_number, active, created_at, updated_at)
		 VALUES (?, 'Banco do Brasil', '0001', '12345-6', 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		uuid.NewString(),
	).Error
	if err != nil {
		return fmt.Errorf("seed bank account: %w", err)
	}
	return nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return line
}
