package collector

import "context"

// ChatDialog is the minimal dialog shape the Telegram client returns during
// enumeration, before it is classified into a store.Dialog.
type ChatDialog struct {
	ID         int64
	Title      string
	Username   string
	AccessHash int64
	HasHash    bool
	IsUser     bool // true for a one-to-one DM peer
	IsChannel  bool // true for a broadcast channel or supergroup
}

// RawMessage is the minimal message shape the client returns during
// history fetch.
type RawMessage struct {
	ID        int64
	Timestamp int64
	Text      string
}

// ChatClient abstracts the Telegram client the collector drives, so the
// sync, dialog-enumeration, and message-fetch logic can be tested against
// a mock instead of a live account. A production implementation wraps the
// chosen MTProto client library's session and dialog/history calls.
type ChatClient interface {
	// IsAuthorized reports whether the current session is logged in.
	IsAuthorized(ctx context.Context) (bool, error)

	// Dialogs returns every dialog (chat, group, channel, DM) visible to
	// the logged-in account.
	Dialogs(ctx context.Context) ([]ChatDialog, error)

	// History fetches up to limit messages for the given peer reference,
	// strictly older than beforeID (0 meaning "most recent"). Returned
	// messages are newest-first, matching the wire protocol's paging order.
	History(ctx context.Context, peer PeerRef, beforeID int64, limit int) ([]RawMessage, error)

	// RequestLoginCode asks the server to send a login code to phone and
	// returns an opaque token that must be passed back to SignIn.
	RequestLoginCode(ctx context.Context, phone, apiHash string) (string, error)

	// SignIn submits the code the user received for the login token
	// returned by RequestLoginCode.
	SignIn(ctx context.Context, loginToken, code string) (SignInResult, error)

	// CheckPassword submits the 2FA password for the token returned in a
	// SignInResult's PasswordToken field.
	CheckPassword(ctx context.Context, passwordToken, password string) error

	// Close releases any network resources held by the client.
	Close() error
}

// SignInResult is the outcome of submitting a login code. Success means
// the session is now authenticated; otherwise PasswordToken and Hint
// describe the pending 2FA challenge.
type SignInResult struct {
	Success       bool
	PasswordToken string
	Hint          string
}

// ClientFactory opens a ChatClient against the given session file,
// creating a fresh session if none exists yet. The collector package
// never imports a concrete MTProto library directly — the orchestrator
// supplies a factory for whichever client library is wired in.
//
// If the underlying library panics on a corrupted or half-written session
// file instead of returning an error for it, the factory should recover
// that panic itself and re-panic with StaleSessionPanic so Session.openClient
// can route it into the existing stale-session reconnect path; any other
// panic propagates as-is and is treated as a genuine bug.
type ClientFactory func(ctx context.Context, apiID int32, sessionPath string) (ChatClient, error)

// FloodWaitError is returned by a ChatClient when the server asks the
// caller to back off before retrying.
type FloodWaitError struct {
	Seconds int
}

func (e *FloodWaitError) Error() string {
	return "collector: flood wait"
}
