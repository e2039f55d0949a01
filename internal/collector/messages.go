package collector

import (
	"context"
	"errors"
	"time"

	"github.com/sskys18/telegram-korean-search/internal/link"
	"github.com/sskys18/telegram-korean-search/internal/store"
	"github.com/sskys18/telegram-korean-search/internal/text"
)

// batchSize is the maximum number of messages fetched per dialog per call.
const batchSize = 100

// maxFloodRetries is how many times fetchMessages retries after a
// server-requested FloodWait before giving up.
const maxFloodRetries = 2

// defaultFloodWaitSeconds is used when the server reports FloodWait
// without a duration.
const defaultFloodWaitSeconds = 5

// fetchMessages pulls up to batchSize messages newest-first for one
// dialog, stopping early at oldestID (0 meaning "fetch from the start").
// Messages with empty text are skipped; every kept message gets its
// deep link computed and whitespace-stripped copy built here, once.
func fetchMessages(ctx context.Context, client ChatClient, d store.Dialog, oldestID int64) ([]store.Message, error) {
	peer := PeerRefFromDialog(d)

	raw, err := client.History(ctx, peer, 0, batchSize)
	if err != nil {
		var fw *FloodWaitError
		if errors.As(err, &fw) {
			secs := fw.Seconds
			if secs <= 0 {
				secs = defaultFloodWaitSeconds
			}
			return nil, floodWaitErr("fetchMessages", secs)
		}
		return nil, wrapErr("fetchMessages", KindAPI, err)
	}

	rows := make([]store.Message, 0, len(raw))
	for _, m := range raw {
		if oldestID != 0 && m.ID <= oldestID {
			break
		}
		if m.Text == "" {
			continue
		}
		rows = append(rows, store.Message{
			MessageID:    m.ID,
			DialogID:     d.DialogID,
			Timestamp:    m.Timestamp,
			TextPlain:    m.Text,
			TextStripped: text.StripWhitespace(m.Text),
			Link:         link.Build(d.DialogID, d.Username, m.ID, link.Kind(d.Kind)),
		})
		if len(rows) >= batchSize {
			break
		}
	}
	return rows, nil
}

// fetchMessagesWithRetry wraps fetchMessages, sleeping for the
// server-requested duration and retrying on FloodWait up to
// maxFloodRetries times before giving up.
func fetchMessagesWithRetry(ctx context.Context, client ChatClient, d store.Dialog, oldestID int64) ([]store.Message, error) {
	var lastErr error
	for attempt := 0; attempt <= maxFloodRetries; attempt++ {
		rows, err := fetchMessages(ctx, client, d, oldestID)
		if err == nil {
			return rows, nil
		}

		var collErr *Error
		if errors.As(err, &collErr) && collErr.Kind == KindFloodWait && attempt < maxFloodRetries {
			lastErr = err
			select {
			case <-time.After(time.Duration(collErr.Seconds) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}
		return nil, err
	}
	return nil, lastErr
}
