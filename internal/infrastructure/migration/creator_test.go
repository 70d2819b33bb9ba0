package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Lead Tables")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Contains(t, filepath.Base(mf.UpPath), "add_lead_tables.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_lead_tables.down.sql")

	for _, p := range []string{mf.UpPath, mf.DownPath} {
		content, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Add Lead Tables")
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2_b.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_a.up.sql"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_a.down.sql"), nil, 0o644))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_a.up.sql", "2_b.up.sql"}, names)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "add_users_table", sanitizeName("Add Users  Table"))
	assert.Equal(t, "v2_schema", sanitizeName("v2-schema!"))
	assert.Equal(t, "trailing", sanitizeName("trailing-"))
}
