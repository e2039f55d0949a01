package collector

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sskys18/telegram-korean-search/internal/applog"
	"github.com/sskys18/telegram-korean-search/internal/store"
)

// syncConcurrency caps how many dialogs are fetched at once.
const syncConcurrency = 3

// interTaskJitter staggers task starts to avoid bursting the API the
// instant a sync begins.
const interTaskJitter = 100 * time.Millisecond

// dialogResult is one dialog's fetch outcome, drained from the worker
// pool back onto the caller's goroutine.
type dialogResult struct {
	dialog store.Dialog
	rows   []store.Message
	err    error
}

// RunSync fetches new messages for every active dialog in st concurrently
// (syncConcurrency at a time), emitting progress on events as each dialog
// finishes. A single dialog's failure is logged and skipped — it never
// aborts its siblings, so one flaky chat cannot stall the whole run.
// Dialogs are processed in syncPriority order so broadcast channels and
// small groups land first on an initial backfill.
func RunSync(ctx context.Context, st *store.Store, client ChatClient, events chan<- Progress) (int, error) {
	dialogs, err := st.GetActiveDialogs()
	if err != nil {
		return 0, wrapErr("RunSync", KindIO, err)
	}
	sortDialogsForSync(dialogs)

	type job struct {
		dialog   store.Dialog
		oldestID int64
	}
	jobs := make([]job, 0, len(dialogs))
	for _, d := range dialogs {
		oldestID := int64(0)
		if state, err := st.GetSyncState(d.DialogID); err == nil && state != nil {
			oldestID = state.LastMessageID
		}
		jobs = append(jobs, job{dialog: d, oldestID: oldestID})
	}

	// errgroup.SetLimit caps concurrency the same way the old channel
	// semaphore did; each goroutine always returns nil so Wait() never
	// fails fast and cancels its siblings — a dialog's failure is carried
	// in its dialogResult and handled below, never propagated through the
	// group.
	g := new(errgroup.Group)
	g.SetLimit(syncConcurrency)
	results := make(chan dialogResult, len(jobs))
	tracker := newProgressTracker(len(jobs))

	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if i > 0 {
				select {
				case <-time.After(interTaskJitter):
				case <-ctx.Done():
				}
			}

			tracker.start(j.dialog.Title)
			emit(events, tracker.snapshot())

			rows, err := fetchMessagesWithRetry(ctx, client, j.dialog, j.oldestID)
			results <- dialogResult{dialog: j.dialog, rows: rows, err: err}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	total := 0

	for res := range results {
		if res.err != nil {
			// Log-and-continue: a single dialog's failure must never
			// abort the rest of the run.
			applog.Get().Warn().Err(res.err).Int64("dialog_id", res.dialog.DialogID).Msg("sync: fetching dialog failed, skipping")
			progress := tracker.finish(res.dialog.Title)
			progress.Phase = "messages"
			emit(events, progress)
			continue
		}

		if len(res.rows) > 0 {
			if err := st.InsertMessagesBatch(res.rows); err != nil {
				applog.Get().Warn().Err(err).Int64("dialog_id", res.dialog.DialogID).Msg("sync: storing dialog messages failed, skipping")
				progress := tracker.finish(res.dialog.Title)
				progress.Phase = "messages"
				emit(events, progress)
				continue
			}
			last := res.rows[0]
			for _, m := range res.rows {
				if m.MessageID > last.MessageID {
					last = m
				}
			}
			_ = st.UpdateLastMessageID(res.dialog.DialogID, last.MessageID, time.Now().UTC().Format(time.RFC3339))
		}

		total += len(res.rows)
		progress := tracker.finish(res.dialog.Title)
		progress.Phase = "messages"
		emit(events, progress)
	}

	return total, nil
}

func emit(events chan<- Progress, p Progress) {
	if events == nil {
		return
	}
	select {
	case events <- p:
	default:
		// a slow or absent listener must never block the sync
	}
}
