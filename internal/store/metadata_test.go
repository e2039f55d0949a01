package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetaGetSetDelete(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.GetMeta("api_id")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetMeta("api_id", "12345"))
	v, ok, err := s.GetMeta("api_id")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "12345", v)

	require.NoError(t, s.SetMeta("api_id", "67890"))
	v, ok, err = s.GetMeta("api_id")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "67890", v)

	require.NoError(t, s.DeleteMeta("api_id"))
	_, ok, err = s.GetMeta("api_id")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteMetaOnAbsentKeyIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DeleteMeta("does_not_exist"))
}
