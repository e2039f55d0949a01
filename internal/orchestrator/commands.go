package orchestrator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	"github.com/sskys18/telegram-korean-search/internal/collector"
	"github.com/sskys18/telegram-korean-search/internal/config"
	"github.com/sskys18/telegram-korean-search/internal/search"
	"github.com/sskys18/telegram-korean-search/internal/store"
	"github.com/sskys18/telegram-korean-search/internal/vault"
)

// APICredentials is the persisted api_id/api_hash pair a user enters once.
type APICredentials struct {
	APIID   int32
	APIHash string
}

// SignInResponse mirrors the UI-facing shape of a login-code submission.
type SignInResponse struct {
	Success     bool
	Requires2FA bool
	Hint        string
}

// DBStats summarizes the database for the UI's status bar.
type DBStats struct {
	Chats    int64
	Messages int64
}

// GetAPICredentials returns the saved api_id/api_hash, or ok=false if
// none has been saved yet.
func (o *Orchestrator) GetAPICredentials() (creds APICredentials, ok bool, err error) {
	id, hash, found, err := o.apiCreds()
	if err != nil || !found {
		return APICredentials{}, found, err
	}
	return APICredentials{APIID: id, APIHash: hash}, true, nil
}

// SaveAPICredentials persists the api_id/api_hash pair used to open a
// client connection. The hash is a secret, so it is AES-256-GCM sealed
// under the vault key before it ever reaches app_meta; api_id is not
// sensitive and is stored in the clear.
func (o *Orchestrator) SaveAPICredentials(apiID int32, apiHash string) error {
	if err := o.store.SetMeta(metaAPIID, strconv.FormatInt(int64(apiID), 10)); err != nil {
		return err
	}
	sealed, err := o.sealSecret(apiHash)
	if err != nil {
		return err
	}
	return o.store.SetMeta(metaAPIHash, sealed)
}

// sealSecret encrypts plaintext under the orchestrator's vault key and
// returns it base64-encoded so it round-trips through a text column.
func (o *Orchestrator) sealSecret(plaintext string) (string, error) {
	sealed, err := vault.Encrypt(o.vaultKey, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("orchestrator: sealing secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// openSecret reverses sealSecret.
func (o *Orchestrator) openSecret(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("orchestrator: decoding sealed secret: %w", err)
	}
	plaintext, err := vault.Decrypt(o.vaultKey, sealed)
	if err != nil {
		return "", fmt.Errorf("orchestrator: opening sealed secret: %w", err)
	}
	return string(plaintext), nil
}

// Connect opens (or reopens) the chat client using the saved
// credentials, reusing a prior session when login was already completed.
func (o *Orchestrator) Connect(ctx context.Context) (collector.ConnectResult, error) {
	idStr, found, err := o.store.GetMeta(metaAPIID)
	if err != nil {
		return collector.ConnectResult{}, err
	}
	if !found {
		return collector.ConnectResult{}, errors.New("API credentials not configured")
	}
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return collector.ConnectResult{}, fmt.Errorf("orchestrator: invalid api_id in database: %w", err)
	}

	authValue, _, err := o.store.GetMeta(metaAuthenticated)
	if err != nil {
		return collector.ConnectResult{}, err
	}
	wasAuthenticated := authValue == authenticatedValue

	result, err := o.session.Connect(ctx, int32(id), wasAuthenticated)
	if err != nil {
		return collector.ConnectResult{}, err
	}
	if result.WasStale {
		_ = o.store.DeleteMeta(metaAuthenticated)
	}
	return result, nil
}

// RequestLoginCode asks the server to text a login code to phone.
func (o *Orchestrator) RequestLoginCode(ctx context.Context, phone string) error {
	_, hash, found, err := o.apiCreds()
	if err != nil {
		return err
	}
	if !found {
		return errors.New("API credentials not configured")
	}
	return o.session.RequestLoginCode(ctx, phone, hash)
}

// SubmitLoginCode completes sign-in with the received code.
func (o *Orchestrator) SubmitLoginCode(ctx context.Context, code string) (SignInResponse, error) {
	result, err := o.session.SubmitLoginCode(ctx, code)
	if err != nil {
		return SignInResponse{}, err
	}
	if result.Success {
		if err := o.store.SetMeta(metaAuthenticated, authenticatedValue); err != nil {
			return SignInResponse{}, err
		}
		return SignInResponse{Success: true}, nil
	}
	return SignInResponse{Requires2FA: true, Hint: result.Hint}, nil
}

// SubmitPassword completes a pending 2FA challenge.
func (o *Orchestrator) SubmitPassword(ctx context.Context, password string) error {
	if err := o.session.SubmitPassword(ctx, password); err != nil {
		return err
	}
	return o.store.SetMeta(metaAuthenticated, authenticatedValue)
}

// StartCollection launches a sync run on its own goroutine and returns
// immediately. A second call while one is already running is rejected
// with ErrAlreadyRunning rather than queued.
func (o *Orchestrator) StartCollection(ctx context.Context) error {
	client := o.session.Client()
	if client == nil {
		return errors.New("client not connected")
	}
	if !o.beginCollecting() {
		return ErrAlreadyRunning
	}

	go o.runCollection(ctx, client)
	return nil
}

func (o *Orchestrator) runCollection(ctx context.Context, client collector.ChatClient) {
	defer o.endCollecting()

	o.publish(Event{Type: EventProgress, Progress: collector.Progress{Phase: "chats"}})

	cfg, _ := config.Load()
	if _, err := collector.SyncDialogs(ctx, o.store, client, cfg.CollectDMs); err != nil {
		o.publish(Event{Type: EventError, Message: err.Error()})
		return
	}

	// RunSync publishes plain collector.Progress snapshots; forward each
	// one onto the Orchestrator's typed event bus until the sync ends,
	// then let the forwarder goroutine drain out when progressCh closes.
	progressCh := make(chan collector.Progress, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progressCh {
			o.publish(Event{Type: EventProgress, Progress: p})
		}
	}()

	n, err := collector.RunSync(ctx, o.store, client, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		o.publish(Event{Type: EventError, Message: err.Error()})
		return
	}
	o.publish(Event{Type: EventComplete, Chats: n})
}

// GetDBStats reports the database's chat and message counts.
func (o *Orchestrator) GetDBStats() (DBStats, error) {
	chats, err := o.store.DialogCount()
	if err != nil {
		return DBStats{}, err
	}
	messages, err := o.store.MessageCount()
	if err != nil {
		return DBStats{}, err
	}
	return DBStats{Chats: chats, Messages: messages}, nil
}

// SearchMessages runs a search, scoped to one dialog when dialogID is
// non-nil, and returns one page of results.
func (o *Orchestrator) SearchMessages(query string, dialogID *int64, cursor *search.Cursor, limit int) (*search.Result, error) {
	scope := search.AllDialogs()
	if dialogID != nil {
		scope = search.InDialog(*dialogID)
	}
	return search.Search(o.store, query, scope, cursor, limit)
}

// GetChats lists every dialog, including excluded ones, for the chat
// management view.
func (o *Orchestrator) GetChats() ([]store.Dialog, error) {
	return o.store.GetAllDialogs()
}

// SetChatExcluded toggles whether a dialog is collected and searched.
func (o *Orchestrator) SetChatExcluded(dialogID int64, excluded bool) error {
	return o.store.SetDialogExcluded(dialogID, excluded)
}

func (o *Orchestrator) apiCreds() (id int32, hash string, found bool, err error) {
	idStr, found, err := o.store.GetMeta(metaAPIID)
	if err != nil || !found {
		return 0, "", found, err
	}
	sealed, _, err := o.store.GetMeta(metaAPIHash)
	if err != nil {
		return 0, "", false, err
	}
	hash, err = o.openSecret(sealed)
	if err != nil {
		return 0, "", false, err
	}
	parsed, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return 0, "", false, fmt.Errorf("orchestrator: invalid api_id in database: %w", err)
	}
	return int32(parsed), hash, true, nil
}
