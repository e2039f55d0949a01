package collector

import "github.com/sskys18/telegram-korean-search/internal/store"

// peerOffset is the bot-API encoding offset: a channel/supergroup's dialog
// id is -(10^12 + bare_id).
const peerOffset = 1_000_000_000_000

// PeerRef is everything History needs to address a dialog over the wire.
type PeerRef struct {
	Kind       store.DialogKind
	BareID     int64
	AccessHash int64
	HasHash    bool
}

// PeerRefFromDialog reconstructs the wire peer reference for a stored
// dialog. Groups never carry an access hash — the "group" arm ignores it
// entirely even if one happens to be set, matching the upstream client's
// peer construction rules for basic (non-super) groups.
func PeerRefFromDialog(d store.Dialog) PeerRef {
	switch d.Kind {
	case store.DialogGroup:
		return PeerRef{Kind: store.DialogGroup, BareID: -d.DialogID}
	case store.DialogDM:
		return PeerRef{Kind: store.DialogDM, BareID: d.DialogID}
	default: // supergroup, channel
		bare := (-d.DialogID) - peerOffset
		return PeerRef{
			Kind:       d.Kind,
			BareID:     bare,
			AccessHash: d.AccessHash,
			HasHash:    d.HasHash,
		}
	}
}

// classifyDialog turns a raw enumerated dialog into the dialog_type the
// store persists. The client library reports both broadcast channels and
// true supergroups as the same peer kind, so both become "supergroup"
// here. Sync ordering (see syncPriority) puts every "supergroup" dialog
// first and uses the chat id's magnitude only to order "group" dialogs.
func classifyDialog(d ChatDialog) store.DialogKind {
	switch {
	case d.IsUser:
		return store.DialogDM
	case d.IsChannel:
		return store.DialogSupergroup
	default:
		return store.DialogGroup
	}
}
