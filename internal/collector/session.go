package collector

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/sskys18/telegram-korean-search/internal/appdir"
	"github.com/sskys18/telegram-korean-search/internal/applog"
)

// authProbeTimeout bounds how long Connect waits for IsAuthorized before
// treating a reused session as stale.
const authProbeTimeout = 5 * time.Second

// loginTimeout bounds each step of the login code / 2FA state machine.
const loginTimeout = 15 * time.Second

// LoginState tracks where a Session sits in the login flow.
type LoginState int

const (
	StateUnconnected LoginState = iota
	StateConnected
	StateCodeRequested
	StateTwoFactorPending
	StateAuthenticated
)

// ConnectResult reports the outcome of Connect.
type ConnectResult struct {
	Authorized bool
	// WasStale is true when a previously-authenticated session turned out
	// to be invalid (the server rejected it, the auth probe timed out, or
	// opening it raised StaleSessionPanic) and had to be discarded and
	// reconnected fresh. The caller
	// should clear whatever persisted "authenticated" flag it keeps.
	WasStale bool
}

// Session owns the single ChatClient the archiver drives, guarding it
// with a mutex since it is shared between the sync loop and whatever
// command surface drives login. The collector package never imports a
// concrete MTProto client library directly; Session is handed a
// ClientFactory that knows how to build one.
type Session struct {
	mu      sync.Mutex
	factory ClientFactory

	client        ChatClient
	state         LoginState
	loginToken    string
	passwordToken string
}

// NewSession builds a Session around the given client factory.
func NewSession(factory ClientFactory) *Session {
	return &Session{factory: factory, state: StateUnconnected}
}

// Client returns the currently connected client, or nil if none.
func (s *Session) Client() ChatClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client
}

// State returns the session's current LoginState.
func (s *Session) State() LoginState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect opens (or reopens) the client for apiID. When wasAuthenticated
// is true and a session file already exists, it reuses the session and
// probes IsAuthorized with a short timeout; a rejected or timed-out probe
// discards the stale session file and reconnects fresh. When no prior
// session exists — or login was never completed — any leftover session
// file is removed before connecting, since grammers-style client
// libraries can misbehave on a half-finished session.
func (s *Session) Connect(ctx context.Context, apiID int32, wasAuthenticated bool) (ConnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	sessionPath, err := appdir.SessionPath()
	if err != nil {
		return ConnectResult{}, wrapErr("Connect", KindIO, err)
	}
	sessionExists := fileExists(sessionPath)

	if wasAuthenticated && sessionExists {
		client, err := s.openClient(ctx, apiID, sessionPath)
		var openErr *Error
		if err != nil && !(errors.As(err, &openErr) && openErr.Kind == KindSession) {
			return ConnectResult{}, err
		}

		authorized, probeErr := false, err
		if err == nil {
			probeCtx, cancel := context.WithTimeout(ctx, authProbeTimeout)
			authorized, probeErr = client.IsAuthorized(probeCtx)
			cancel()
		}

		if probeErr == nil && authorized {
			s.client = client
			s.state = StateAuthenticated
			return ConnectResult{Authorized: true}, nil
		}

		if client != nil {
			_ = client.Close()
		}
		_ = os.Remove(sessionPath)

		fresh, err := s.openClient(ctx, apiID, sessionPath)
		if err != nil {
			return ConnectResult{}, err
		}
		s.client = fresh
		s.state = StateConnected
		return ConnectResult{Authorized: false, WasStale: true}, nil
	}

	if sessionExists {
		_ = os.Remove(sessionPath)
	}

	client, err := s.openClient(ctx, apiID, sessionPath)
	if err != nil {
		return ConnectResult{}, err
	}
	s.client = client
	s.state = StateConnected
	return ConnectResult{Authorized: false}, nil
}

// RequestLoginCode asks the server to text a login code to phone.
func (s *Session) RequestLoginCode(ctx context.Context, phone, apiHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return wrapErr("RequestLoginCode", KindSession, errors.New("client not connected"))
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	token, err := s.client.RequestLoginCode(ctx, phone, apiHash)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return wrapErr("RequestLoginCode", KindSession, errors.New("connection timed out, please try again"))
		}
		return wrapErr("RequestLoginCode", KindAuth, err)
	}

	s.loginToken = token
	s.state = StateCodeRequested
	return nil
}

// SubmitLoginCode completes sign-in with the code the user received. A
// non-success result means 2FA is required; the password token is kept
// for a following SubmitPassword call.
func (s *Session) SubmitLoginCode(ctx context.Context, code string) (SignInResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return SignInResult{}, wrapErr("SubmitLoginCode", KindSession, errors.New("client not connected"))
	}
	if s.loginToken == "" {
		return SignInResult{}, wrapErr("SubmitLoginCode", KindAuth, errors.New("no login token, call RequestLoginCode first"))
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	result, err := s.client.SignIn(ctx, s.loginToken, code)
	s.loginToken = ""
	if err != nil {
		return SignInResult{}, wrapErr("SubmitLoginCode", KindAuth, err)
	}

	if result.Success {
		s.state = StateAuthenticated
	} else {
		s.passwordToken = result.PasswordToken
		s.state = StateTwoFactorPending
	}
	return result, nil
}

// SubmitPassword completes a pending 2FA challenge.
func (s *Session) SubmitPassword(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return wrapErr("SubmitPassword", KindSession, errors.New("client not connected"))
	}
	if s.passwordToken == "" {
		return wrapErr("SubmitPassword", KindAuth, errors.New("no password token, complete sign-in first"))
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	err := s.client.CheckPassword(ctx, s.passwordToken, password)
	s.passwordToken = ""
	if err != nil {
		return wrapErr("SubmitPassword", KindAuth, err)
	}

	s.state = StateAuthenticated
	return nil
}

// Close releases the underlying client, if any.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if s.client == nil {
		s.state = StateUnconnected
		return nil
	}
	err := s.client.Close()
	s.client = nil
	s.state = StateUnconnected
	return err
}

// openClient builds a client via the factory, recovering from a panic.
// Some MTProto client libraries panic rather than return an error when
// handed a corrupted or half-written session file; a caller one layer up
// deletes the stale file and retries in that case, so a factory that
// detects this condition signals it by panicking with StaleSessionPanic,
// which is converted here into an ordinary KindSession error. Any other
// recovered value is logged and re-panicked, preserving visibility into
// genuine bugs instead of silently reporting them as an ordinary connect
// failure.
func (s *Session) openClient(ctx context.Context, apiID int32, sessionPath string) (client ChatClient, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if sp, ok := r.(StaleSessionPanic); ok {
			err = wrapErr("openClient", KindSession, sp.Err)
			return
		}
		applog.Get().Error().Interface("panic", r).Msg("openClient: non-session panic, re-panicking")
		panic(r)
	}()
	return s.factory(ctx, apiID, sessionPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
