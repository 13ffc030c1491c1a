package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot/pkg/domain"
)

// Catalog returns a small catalog with one operator per rarity plus a
// second 6★, and two banners: "standard" and "exusiai" (Exusiai rate-up).
// Every call returns a fresh value.
func Catalog() *domain.Catalog {
	return &domain.Catalog{
		Operators: []domain.Operator{
			{Name: "Exusiai", CNName: "能天使", Class: "Sniper", Rarity: 6},
			{Name: "SilverAsh", CNName: "银灰", Class: "Guard", Rarity: 6},
			{Name: "Texas", CNName: "德克萨斯", Class: "Vanguard", Rarity: 5},
			{Name: "Myrtle", CNName: "桃金娘", Class: "Vanguard", Rarity: 4},
			{Name: "Fang", CNName: "芬", Class: "Vanguard", Rarity: 3},
		},
		Banners: []domain.Banner{
			{Name: "standard", Title: "标准寻访"},
			{Name: "exusiai", RateUps: []string{"能天使"}},
		},
	}
}

// SetupDataDir creates a temporary directory holding files, keyed by
// relative path. It returns the directory and fails the test on error.
func SetupDataDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "Failed to create %s", filepath.Dir(path))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	}
	return dir
}
