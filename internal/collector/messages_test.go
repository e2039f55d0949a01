package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sskys18/telegram-korean-search/internal/store"
)

type floodThenSucceedClient struct {
	calls      int
	floodCount int
	seconds    int
	rows       []RawMessage
}

func (c *floodThenSucceedClient) IsAuthorized(ctx context.Context) (bool, error) { return true, nil }
func (c *floodThenSucceedClient) Dialogs(ctx context.Context) ([]ChatDialog, error) {
	return nil, nil
}

func (c *floodThenSucceedClient) History(ctx context.Context, peer PeerRef, beforeID int64, limit int) ([]RawMessage, error) {
	c.calls++
	if c.calls <= c.floodCount {
		return nil, &FloodWaitError{Seconds: c.seconds}
	}
	return c.rows, nil
}

func (c *floodThenSucceedClient) RequestLoginCode(ctx context.Context, phone, apiHash string) (string, error) {
	return "", nil
}

func (c *floodThenSucceedClient) SignIn(ctx context.Context, loginToken, code string) (SignInResult, error) {
	return SignInResult{}, nil
}

func (c *floodThenSucceedClient) CheckPassword(ctx context.Context, passwordToken, password string) error {
	return nil
}

func (c *floodThenSucceedClient) Close() error { return nil }

func TestFetchMessagesSkipsEmptyText(t *testing.T) {
	client := &floodThenSucceedClient{rows: []RawMessage{
		{ID: 1, Timestamp: 100, Text: "hello"},
		{ID: 2, Timestamp: 200, Text: ""},
	}}
	d := store.Dialog{DialogID: 1, Kind: store.DialogGroup}

	rows, err := fetchMessages(context.Background(), client, d, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 1, rows[0].MessageID)
}

func TestFetchMessagesStopsAtOldestID(t *testing.T) {
	client := &floodThenSucceedClient{rows: []RawMessage{
		{ID: 5, Timestamp: 500, Text: "five"},
		{ID: 4, Timestamp: 400, Text: "four"},
		{ID: 3, Timestamp: 300, Text: "three"},
	}}
	d := store.Dialog{DialogID: 1, Kind: store.DialogGroup}

	rows, err := fetchMessages(context.Background(), client, d, 4)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 5, rows[0].MessageID)
}

func TestFetchMessagesWithRetrySucceedsAfterFloodWait(t *testing.T) {
	client := &floodThenSucceedClient{
		floodCount: 1, seconds: 1,
		rows: []RawMessage{{ID: 1, Timestamp: 100, Text: "hi"}},
	}
	d := store.Dialog{DialogID: 1, Kind: store.DialogGroup}

	rows, err := fetchMessagesWithRetry(context.Background(), client, d, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2, client.calls)
}

func TestFetchMessagesWithRetryGivesUpAfterMaxRetries(t *testing.T) {
	client := &floodThenSucceedClient{floodCount: 99, seconds: 1}
	d := store.Dialog{DialogID: 1, Kind: store.DialogGroup}

	_, err := fetchMessagesWithRetry(context.Background(), client, d, 0)
	require.Error(t, err)
	require.Equal(t, maxFloodRetries+1, client.calls)

	var collErr *Error
	require.True(t, errors.As(err, &collErr))
	require.Equal(t, KindFloodWait, collErr.Kind)
}
