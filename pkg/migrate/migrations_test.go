package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestReconciliationMigrationEnforcesOneRecordPerTransaction(t *testing.T) {
	content := readMigration(t, "*_create_reconciliations.sql")

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS reconciliations",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_reconciliations_transaction_id",
		"FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS reconciliations",
	} {
		require.Contains(t, content, sub)
	}
}

func TestMarketplaceMigrationSeedsFeeSchedules(t *testing.T) {
	content := readMigration(t, "*_create_marketplaces.sql")

	for _, row := range []string{
		"('Amazon', 'amazon', 0.1500, 2.50, 0.0290)",
		"('Mercado Livre', 'mercado-livre', 0.1600, 3.00, 0.0350)",
		"('Shopee', 'shopee', 0.1200, 1.50, 0.0250)",
		"('Magalu', 'magalu', 0.1400, 2.00, 0.0300)",
		"('B2W', 'b2w', 0.1300, 2.20, 0.0280)",
	} {
		require.Contains(t, content, row)
	}
}

func TestApplySQLiteSchemaSeedsOnce(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, migrate.ApplySQLiteSchema(ctx, conn))
	require.NoError(t, migrate.ApplySQLiteSchema(ctx, conn))

	var marketplaces, banks int64
	require.NoError(t, conn.Table("marketplaces").Count(&marketplaces).Error)
	require.NoError(t, conn.Table("bank_accounts").Count(&banks).Error)
	require.Equal(t, int64(5), marketplaces)
	require.Equal(t, int64(1), banks)

	var rows []models.Marketplace
	require.NoError(t, conn.Find(&rows).Error)
	for _, m := range rows {
		want, ok := fees.Catalog[m.Name]
		require.True(t, ok, "unexpected seeded marketplace %q", m.Name)
		got := fees.NewResolver(fees.DefaultSchedule()).ScheduleFor(&m)
		require.True(t, got.CommissionRate.Equal(want.CommissionRate), "%s commission", m.Name)
		require.True(t, got.FixedFee.Equal(want.FixedFee), "%s fixed fee", m.Name)
		require.True(t, got.ProcessingRate.Equal(want.ProcessingRate), "%s processing", m.Name)
	}
}

func TestCreateSQLMigrationWritesGooseTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Payout Index!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_payout_index.sql"))
	require.NoError(t, migrate.ValidateDir(dir))
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}
