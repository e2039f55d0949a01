package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sskys18/telegram-korean-search/internal/store"
)

type mockClient struct {
	dialogs    []ChatDialog
	dialogErr  error
	history    map[int64][]RawMessage
	historyErr error
}

func (m *mockClient) IsAuthorized(ctx context.Context) (bool, error) { return true, nil }

func (m *mockClient) Dialogs(ctx context.Context) ([]ChatDialog, error) {
	return m.dialogs, m.dialogErr
}

func (m *mockClient) History(ctx context.Context, peer PeerRef, beforeID int64, limit int) ([]RawMessage, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history[peer.BareID], nil
}

func (m *mockClient) RequestLoginCode(ctx context.Context, phone, apiHash string) (string, error) {
	return "", nil
}

func (m *mockClient) SignIn(ctx context.Context, loginToken, code string) (SignInResult, error) {
	return SignInResult{}, nil
}

func (m *mockClient) CheckPassword(ctx context.Context, passwordToken, password string) error {
	return nil
}

func (m *mockClient) Close() error { return nil }

func TestFetchDialogsExcludesDMsByDefault(t *testing.T) {
	client := &mockClient{dialogs: []ChatDialog{
		{ID: 1, Title: "Group", IsUser: false},
		{ID: 2, Title: "Friend", IsUser: true},
	}}

	dialogs, err := fetchDialogs(context.Background(), client, false)
	require.NoError(t, err)
	require.Len(t, dialogs, 1)
	require.Equal(t, store.DialogGroup, dialogs[0].Kind)
}

func TestFetchDialogsIncludesDMsWhenConfigured(t *testing.T) {
	client := &mockClient{dialogs: []ChatDialog{
		{ID: 1, Title: "Group", IsUser: false},
		{ID: 2, Title: "Friend", IsUser: true},
	}}

	dialogs, err := fetchDialogs(context.Background(), client, true)
	require.NoError(t, err)
	require.Len(t, dialogs, 2)
}

func TestSyncDialogsUpsertsEachDialog(t *testing.T) {
	st, err := store.NewInMemory()
	require.NoError(t, err)
	defer st.Close()

	client := &mockClient{dialogs: []ChatDialog{
		{ID: 1, Title: "Group", IsUser: false},
		{ID: 2, Title: "Friend", IsUser: true},
	}}

	n, err := SyncDialogs(context.Background(), st, client, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	dialog, err := st.GetDialog(1)
	require.NoError(t, err)
	require.NotNil(t, dialog)
	require.Equal(t, "Group", dialog.Title)

	absent, err := st.GetDialog(2)
	require.NoError(t, err)
	require.Nil(t, absent)
}

func TestSyncDialogsPreservesExclusionOnReFetch(t *testing.T) {
	st, err := store.NewInMemory()
	require.NoError(t, err)
	defer st.Close()

	client := &mockClient{dialogs: []ChatDialog{{ID: 1, Title: "Group", IsUser: false}}}

	_, err = SyncDialogs(context.Background(), st, client, false)
	require.NoError(t, err)
	require.NoError(t, st.SetDialogExcluded(1, true))

	client.dialogs[0].Title = "Group Renamed"
	_, err = SyncDialogs(context.Background(), st, client, false)
	require.NoError(t, err)

	dialog, err := st.GetDialog(1)
	require.NoError(t, err)
	require.True(t, dialog.IsExcluded)
	require.Equal(t, "Group Renamed", dialog.Title)
}

func TestSyncPriorityOrdering(t *testing.T) {
	dialogs := []store.Dialog{
		{DialogID: 1, Kind: store.DialogDM},
		{DialogID: -500, Kind: store.DialogGroup}, // old-style small group
		{DialogID: -1009999999999, Kind: store.DialogGroup}, // actual supergroup
		{DialogID: -100123, Kind: store.DialogSupergroup}, // broadcast channel
	}

	sortDialogsForSync(dialogs)

	require.Equal(t, store.DialogSupergroup, dialogs[0].Kind)
	require.EqualValues(t, -500, dialogs[1].DialogID)
	require.EqualValues(t, -1009999999999, dialogs[2].DialogID)
	require.Equal(t, store.DialogDM, dialogs[3].Kind)
}
