// Package orchestrator wires the store, the collector, and the search
// engine behind the command surface a shell (CLI or future UI) drives.
// It owns every process-wide singleton — the database handle, the chat
// session, the "is a collection running" flag — each behind its own
// lock, and never lets a long-running collection block command
// dispatch: StartCollection always returns immediately.
package orchestrator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sskys18/telegram-korean-search/internal/collector"
	"github.com/sskys18/telegram-korean-search/internal/store"
	"github.com/sskys18/telegram-korean-search/internal/vault"
)

// ErrAlreadyRunning is returned by StartCollection when a collection is
// already in flight.
var ErrAlreadyRunning = errors.New("orchestrator: collection already running")

// metaAPIID, metaAPIHash, and metaAuthenticated are the app_meta keys the
// orchestrator persists credentials and login state under.
const (
	metaAPIID          = "tg_api_id"
	metaAPIHash        = "tg_api_hash"
	metaAuthenticated  = "tg_authenticated"
	authenticatedValue = "1"
)

// Orchestrator is the single entry point cmd/archiver drives. All of its
// exported methods are safe to call concurrently.
type Orchestrator struct {
	store    *store.Store
	session  *collector.Session
	vaultKey [vault.KeySize]byte

	mu         sync.Mutex
	collecting bool

	events chan Event
}

// New builds an Orchestrator around an already-open store and a client
// factory for whichever chat-client library backs the session. It loads
// (or creates) the OS-keyring-backed vault key used to seal the API hash
// at rest in app_meta.
func New(st *store.Store, factory collector.ClientFactory) (*Orchestrator, error) {
	key, err := vault.GetOrCreateKey()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: loading vault key: %w", err)
	}
	return &Orchestrator{
		store:    st,
		session:  collector.NewSession(factory),
		vaultKey: key,
		events:   make(chan Event, 64),
	}, nil
}

// Events returns the channel collection progress/completion/error events
// are published on. The caller should keep draining it for the lifetime
// of the Orchestrator; when the buffer is full the event being published
// is dropped rather than blocking collection (see emit in sync.go's
// collector counterpart for the same non-blocking policy).
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Close releases the underlying session and store.
func (o *Orchestrator) Close() error {
	sessErr := o.session.Close()
	storeErr := o.store.Close()
	if sessErr != nil {
		return sessErr
	}
	return storeErr
}

func (o *Orchestrator) publish(e Event) {
	select {
	case o.events <- e:
	default:
	}
}

func (o *Orchestrator) beginCollecting() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.collecting {
		return false
	}
	o.collecting = true
	return true
}

func (o *Orchestrator) endCollecting() {
	o.mu.Lock()
	o.collecting = false
	o.mu.Unlock()
}
