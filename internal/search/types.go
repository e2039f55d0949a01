package search

import "github.com/sskys18/telegram-korean-search/internal/store"

// Cursor is the opaque pagination bookmark threaded back into Search on
// the next page request. It is the store's keyset cursor verbatim: the
// engine never interprets it beyond passing it through.
type Cursor = store.Cursor

// Scope restricts a search to every non-excluded dialog, or to one dialog.
type Scope struct {
	DialogID int64
	All      bool
}

// AllDialogs is the unscoped search scope.
func AllDialogs() Scope { return Scope{All: true} }

// InDialog scopes a search to a single dialog id.
func InDialog(dialogID int64) Scope { return Scope{DialogID: dialogID} }

// Item is one search result: a message plus its highlight ranges.
type Item struct {
	MessageID   int64
	DialogID    int64
	Timestamp   int64
	Text        string
	Link        string
	DialogTitle string
	Highlights  []Range
}

// Result is one page of search results plus the cursor for the next page,
// nil when there is no more data.
type Result struct {
	Items      []Item
	NextCursor *Cursor
}
