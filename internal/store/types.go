package store

// DialogKind is the discriminator for the four dialog shapes the archiver
// recognizes. It is also the literal value stored in dialogs.dialog_type,
// so its string value must match the CHECK constraint exactly.
type DialogKind string

const (
	DialogGroup      DialogKind = "group"
	DialogSupergroup DialogKind = "supergroup"
	DialogChannel    DialogKind = "channel"
	DialogDM         DialogKind = "dm"
)

// Dialog is one row of the dialogs table.
type Dialog struct {
	DialogID   int64
	Title      string
	Kind       DialogKind
	Username   string // empty if none
	AccessHash int64  // 0 if none
	HasHash    bool
	IsExcluded bool
}

// Message is one row of the messages table.
type Message struct {
	MessageID    int64
	DialogID     int64
	Timestamp    int64
	TextPlain    string
	TextStripped string
	Link         string // empty if none
}

// MessageWithDialog is a search-result row joined against its dialog title.
type MessageWithDialog struct {
	MessageID   int64
	DialogID    int64
	Timestamp   int64
	TextPlain   string
	Link        string
	DialogTitle string
}

// Cursor is a keyset pagination bookmark: the sort key of the last row
// emitted on the previous page.
type Cursor struct {
	Timestamp int64
	DialogID  int64
	MessageID int64
}

// SyncState is one row of the sync_state table.
type SyncState struct {
	DialogID        int64
	LastMessageID   int64
	OldestMessageID int64
	HasOldest       bool
	InitialDone     bool
	LastSyncAt      string
}
