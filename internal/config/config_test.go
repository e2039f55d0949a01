package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	t.Setenv("ARCHIVER_DATA_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("ARCHIVER_DATA_HOME", t.TempDir())

	want := Config{CollectDMs: true}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}
