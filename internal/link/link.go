// Package link builds the deep link stored alongside each archived message.
package link

import "fmt"

// Kind mirrors store.DialogKind without importing the store package, so
// link stays a dependency-free leaf.
type Kind string

const (
	Group      Kind = "group"
	Supergroup Kind = "supergroup"
	Channel    Kind = "channel"
	DM         Kind = "dm"
)

// privateChannelOffset is subtracted from the absolute dialog id to derive
// the bare channel id used as the tg://privatepost channel parameter;
// channels are addressed over the bot API as -(10^12 + bare_id).
const privateChannelOffset = 1_000_000_000_000

// Build returns the deep link for a message, following four rules in order:
//
//  1. DM with a handle           -> https://t.me/{handle}
//  2. DM without a handle        -> tg://user?id={dialogID}
//  3. Non-DM with a handle       -> https://t.me/{handle}/{messageID}
//  4. Non-DM without a handle    -> tg://privatepost?channel={c}&post={messageID}
//
// where c = max(0, |dialogID| - 10^12).
func Build(dialogID int64, handle string, messageID int64, kind Kind) string {
	if kind == DM {
		if handle != "" {
			return fmt.Sprintf("https://t.me/%s", handle)
		}
		return fmt.Sprintf("tg://user?id=%d", dialogID)
	}

	if handle != "" {
		return fmt.Sprintf("https://t.me/%s/%d", handle, messageID)
	}

	abs := dialogID
	if abs < 0 {
		abs = -abs
	}
	channelID := abs - privateChannelOffset
	if channelID < 0 {
		channelID = 0
	}
	return fmt.Sprintf("tg://privatepost?channel=%d&post=%d", channelID, messageID)
}
