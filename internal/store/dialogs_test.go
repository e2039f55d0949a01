package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsertDialogPreservesExcludedFlag(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertDialog(Dialog{
		DialogID: 10, Title: "Group A", Kind: DialogGroup,
	}))
	require.NoError(t, s.SetDialogExcluded(10, true))

	// Re-fetching and re-upserting (as a fresh dialog enumeration would)
	// must not clear the user's exclusion choice.
	require.NoError(t, s.UpsertDialog(Dialog{
		DialogID: 10, Title: "Group A Renamed", Kind: DialogGroup,
	}))

	got, err := s.GetDialog(10)
	require.NoError(t, err)
	require.True(t, got.IsExcluded)
	require.Equal(t, "Group A Renamed", got.Title)
}

func TestGetActiveDialogsExcludesHidden(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertDialog(Dialog{DialogID: 1, Title: "Visible", Kind: DialogChannel}))
	require.NoError(t, s.UpsertDialog(Dialog{DialogID: 2, Title: "Hidden", Kind: DialogChannel}))
	require.NoError(t, s.SetDialogExcluded(2, true))

	active, err := s.GetActiveDialogs()
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Visible", active[0].Title)

	all, err := s.GetAllDialogs()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDialogAccessHashRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertDialog(Dialog{
		DialogID: 5, Title: "Super", Kind: DialogSupergroup,
		AccessHash: 987654, HasHash: true,
	}))

	got, err := s.GetDialog(5)
	require.NoError(t, err)
	require.True(t, got.HasHash)
	require.EqualValues(t, 987654, got.AccessHash)

	// A group with no access hash round-trips as HasHash=false.
	require.NoError(t, s.UpsertDialog(Dialog{
		DialogID: 6, Title: "Plain group", Kind: DialogGroup,
	}))
	got2, err := s.GetDialog(6)
	require.NoError(t, err)
	require.False(t, got2.HasHash)
}

func TestDialogCount(t *testing.T) {
	s := newTestStore(t)

	n, err := s.DialogCount()
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, s.UpsertDialog(Dialog{DialogID: 1, Title: "A", Kind: DialogGroup}))
	require.NoError(t, s.UpsertDialog(Dialog{DialogID: 2, Title: "B", Kind: DialogGroup}))

	n, err = s.DialogCount()
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}
