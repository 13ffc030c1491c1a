package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot/pkg/adapters/file"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"github.com/zojize/exusiai-bot/pkg/ports"
)

const operatorsYAML = `
operators:
  - {name: Exusiai, cn_name: 能天使, class: Sniper, rarity: 6}
  - {name: Texas, cn_name: 德克萨斯, class: Vanguard, rarity: 5}
  - {name: Myrtle, cn_name: 桃金娘, class: Vanguard, rarity: 4}
  - {name: Fang, cn_name: 芬, class: Vanguard, rarity: 3}
`

const bannersJSON = `{
  "banners": [
    {"name": "standard", "title": "Standard", "rateups": ["Exusiai", "Texas"]}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "operators.yaml", operatorsYAML)
	writeFile(t, dir, "banners/standard.json", bannersJSON)
	writeFile(t, dir, "README.md", "ignored")
	writeFile(t, dir, ".git/config.json", "{not json")

	cat, err := file.NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, cat.Operators, 4)
	assert.Equal(t, []string{"standard"}, cat.BannerNames())

	op, ok := cat.Operator("能天使")
	require.True(t, ok)
	assert.Equal(t, "Exusiai", op.Name)
}

func TestLoader_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", operatorsYAML)
	writeFile(t, dir, "b.yaml", "operators:\n  - {name: Fang, rarity: 4}\n")
	writeFile(t, dir, "c.json", bannersJSON)

	cat, err := file.NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	op, ok := cat.Operator("Fang")
	require.True(t, ok)
	assert.Equal(t, 4, op.Rarity)
}

func TestLoader_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "all.yaml", operatorsYAML+"banners:\n  - name: standard\n")

	cat, err := file.NewLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"standard"}, cat.BannerNames())
}

func TestLoader_Errors(t *testing.T) {
	t.Run("Missing Path", func(t *testing.T) {
		_, err := file.NewLoader(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("Empty Directory", func(t *testing.T) {
		_, err := file.NewLoader(t.TempDir()).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("Invalid Catalog", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ops.yaml", operatorsYAML)
		writeFile(t, dir, "banners.yaml", "banners:\n  - name: broken\n    rateups: [Nobody]\n")

		_, err := file.NewLoader(dir).Load(context.Background())
		require.Error(t, err)
		assert.NotEmpty(t, domain.ValidationErrors(err))
	})

	t.Run("Malformed File", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "ops.json", "{")
		_, err := file.NewLoader(dir).Load(context.Background())
		assert.ErrorContains(t, err, "ops.json")
	})
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "operators.yaml", operatorsYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := file.NewLoader(dir).Watch(ctx)
	require.NoError(t, err)

	writeFile(t, dir, "banners.json", bannersJSON)

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal")
	}

	cancel()
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("channel was not closed with the context")
		}
	}
}

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "state", "pity.json"))
	ports.RunPityStoreContract(t, store)
}

func TestFileStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pity.json")
	ctx := context.Background()

	require.NoError(t, file.NewStore(path).Set(ctx, "standard:alice", 12))

	n, err := file.NewStore(path).Get(ctx, "standard:alice")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pity.json", "{broken")

	_, err := file.NewStore(path).Get(context.Background(), "x")
	assert.Error(t, err)
}
