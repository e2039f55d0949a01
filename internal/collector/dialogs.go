package collector

import (
	"context"
	"sort"

	"github.com/sskys18/telegram-korean-search/internal/store"
)

// oldStyleGroupThreshold is the bot-API dialog id boundary above which a
// chat id refers to an old-style small group rather than a supergroup or
// channel (both of which are always below -10^12).
const oldStyleGroupThreshold = -peerOffset

// SyncDialogs enumerates every dialog visible to the logged-in account and
// upserts each one into st, preserving any existing exclusion flag (the
// upsert replaces title, kind, username and access hash). It returns the
// number of dialogs upserted, which leaves out DMs unless collectDMs is set.
func SyncDialogs(ctx context.Context, st *store.Store, client ChatClient, collectDMs bool) (int, error) {
	dialogs, err := fetchDialogs(ctx, client, collectDMs)
	if err != nil {
		return 0, err
	}
	for _, d := range dialogs {
		if err := st.UpsertDialog(d); err != nil {
			return 0, wrapErr("SyncDialogs", KindIO, err)
		}
	}
	return len(dialogs), nil
}

// fetchDialogs enumerates every dialog visible to the logged-in account
// and converts it to a store.Dialog. DMs are included only when
// collectDMs is true, matching the collector's opt-in default.
func fetchDialogs(ctx context.Context, client ChatClient, collectDMs bool) ([]store.Dialog, error) {
	raw, err := client.Dialogs(ctx)
	if err != nil {
		return nil, wrapErr("fetchDialogs", KindAPI, err)
	}

	out := make([]store.Dialog, 0, len(raw))
	for _, d := range raw {
		if d.IsUser && !collectDMs {
			continue
		}
		out = append(out, store.Dialog{
			DialogID:   d.ID,
			Title:      d.Title,
			Kind:       classifyDialog(d),
			Username:   d.Username,
			AccessHash: d.AccessHash,
			HasHash:    d.HasHash,
		})
	}
	return out, nil
}

// syncPriority orders dialogs for an initial backfill. The client library
// routes broadcast channels to the "supergroup" dialog type and routes
// both old-style small groups and true large supergroups to "group",
// distinguished only by chat id magnitude (channel-shaped ids are always
// below -10^12): broadcast channels first, old-style small groups next,
// true supergroups after that, DMs last.
func syncPriority(d store.Dialog) int {
	switch {
	case d.Kind == store.DialogSupergroup:
		return 0 // broadcast channels, mislabeled "supergroup" by the client library
	case d.Kind == store.DialogDM:
		return 3
	case d.DialogID > oldStyleGroupThreshold:
		return 1 // old-style small groups
	default:
		return 2 // actual large supergroups, routed as "group"
	}
}

// sortDialogsForSync orders dialogs in place by syncPriority, stable
// within a priority bucket so repeated runs fetch in a consistent order.
func sortDialogsForSync(dialogs []store.Dialog) {
	sort.SliceStable(dialogs, func(i, j int) bool {
		return syncPriority(dialogs[i]) < syncPriority(dialogs[j])
	})
}
