package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, runMigrations(s.db))
	require.NoError(t, runMigrations(s.db))

	v := schemaVersion(s.db)
	require.Equal(t, currentSchemaVersion, v)
}

func TestSchemaVersionDefaultsToOneWhenUnset(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(`DELETE FROM app_meta WHERE key = 'schema_version'`)
	require.NoError(t, err)

	require.Equal(t, 1, schemaVersion(s.db))
}

func TestDialogTypeCheckAdmitsDM(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertDialog(Dialog{DialogID: 1, Title: "Alice", Kind: DialogDM})
	require.NoError(t, err)

	got, err := s.GetDialog(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, DialogDM, got.Kind)
}
