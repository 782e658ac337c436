package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAtRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	path, err := createAt(dir, "Add payout index", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260301090000_add_payout_index.sql"), path)

	_, err = createAt(dir, "add payout index", now)
	assert.Error(t, err)

	_, err = createAt(dir, "!!!", now)
	assert.Error(t, err)
}

func TestValidateDirRejectsBrokenFiles(t *testing.T) {
	cases := map[string]string{
		"20260301090000_no_down.sql":    "-- +goose Up\nSELECT 1;\n",
		"20260301090000_unbalanced.sql": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
		"20260301090000_reversed.sql":   "-- +goose Down\nSELECT 1;\n-- +goose Up\nSELECT 1;\n",
		"bad-name.sql":                  "-- +goose Up\n-- +goose Down\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
			assert.Error(t, ValidateDir(dir))
		})
	}
}

func TestVersionsSorted(t *testing.T) {
	versions, err := Versions("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.IsIncreasing(t, versions)
}
