package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sskys18/telegram-korean-search/internal/store"
)

// keyedHistoryClient answers History per-dialog, keyed by the peer's bare
// id, so a test can make one dialog fail while its siblings succeed.
type keyedHistoryClient struct {
	rows map[int64][]RawMessage
	errs map[int64]error
}

func (c *keyedHistoryClient) IsAuthorized(ctx context.Context) (bool, error) { return true, nil }
func (c *keyedHistoryClient) Dialogs(ctx context.Context) ([]ChatDialog, error) {
	return nil, nil
}

func (c *keyedHistoryClient) History(ctx context.Context, peer PeerRef, beforeID int64, limit int) ([]RawMessage, error) {
	if err, ok := c.errs[peer.BareID]; ok {
		return nil, err
	}
	return c.rows[peer.BareID], nil
}

func (c *keyedHistoryClient) RequestLoginCode(ctx context.Context, phone, apiHash string) (string, error) {
	return "", nil
}

func (c *keyedHistoryClient) SignIn(ctx context.Context, loginToken, code string) (SignInResult, error) {
	return SignInResult{}, nil
}

func (c *keyedHistoryClient) CheckPassword(ctx context.Context, passwordToken, password string) error {
	return nil
}

func (c *keyedHistoryClient) Close() error { return nil }

func TestRunSyncInsertsMessagesAndAdvancesBookmark(t *testing.T) {
	st, err := store.NewInMemory()
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.UpsertDialog(store.Dialog{DialogID: -100, Title: "Group", Kind: store.DialogGroup}))

	client := &keyedHistoryClient{rows: map[int64][]RawMessage{
		100: {{ID: 1, Timestamp: 1000, Text: "hello"}, {ID: 2, Timestamp: 2000, Text: "world"}},
	}}

	events := make(chan Progress, 16)
	n, err := RunSync(context.Background(), st, client, events)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	state, err := st.GetSyncState(-100)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.EqualValues(t, 2, state.LastMessageID)
}

func TestRunSyncSkipsExcludedDialogs(t *testing.T) {
	st, err := store.NewInMemory()
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.UpsertDialog(store.Dialog{DialogID: -100, Title: "Group", Kind: store.DialogGroup}))
	require.NoError(t, st.SetDialogExcluded(-100, true))

	client := &keyedHistoryClient{rows: map[int64][]RawMessage{
		100: {{ID: 1, Timestamp: 1000, Text: "hello"}},
	}}

	n, err := RunSync(context.Background(), st, client, nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestRunSyncOneDialogFailureDoesNotAbortSiblings(t *testing.T) {
	st, err := store.NewInMemory()
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.UpsertDialog(store.Dialog{DialogID: -100, Title: "Flaky", Kind: store.DialogGroup}))
	require.NoError(t, st.UpsertDialog(store.Dialog{DialogID: -200, Title: "Healthy", Kind: store.DialogGroup}))

	client := &keyedHistoryClient{
		rows: map[int64][]RawMessage{
			200: {{ID: 1, Timestamp: 1000, Text: "hello"}},
		},
		errs: map[int64]error{
			100: errors.New("boom"),
		},
	}

	n, err := RunSync(context.Background(), st, client, nil)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	failed, err := st.GetSyncState(-100)
	require.NoError(t, err)
	require.Nil(t, failed)

	healthy, err := st.GetSyncState(-200)
	require.NoError(t, err)
	require.NotNil(t, healthy)
}

func TestRunSyncEmitsProgress(t *testing.T) {
	st, err := store.NewInMemory()
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.UpsertDialog(store.Dialog{DialogID: -100, Title: "Group", Kind: store.DialogGroup}))
	client := &keyedHistoryClient{rows: map[int64][]RawMessage{100: {{ID: 1, Timestamp: 1000, Text: "hi"}}}}

	events := make(chan Progress, 16)
	_, err = RunSync(context.Background(), st, client, events)
	require.NoError(t, err)

	close(events)
	var last Progress
	for p := range events {
		last = p
	}
	require.Equal(t, "messages", last.Phase)
	require.Equal(t, 1, last.DialogsDone)
	require.Equal(t, 1, last.DialogsTotal)
}
