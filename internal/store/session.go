package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/existflow/folio/internal/logger"
	"github.com/existflow/folio/internal/model"
	"github.com/existflow/folio/internal/tokenstore"
)

// AdminGateway is the part of the API gateway the session store needs
type AdminGateway interface {
	AdminLogin(ctx context.Context, email, password string) (model.LoginResult, error)
	AdminLogout(ctx context.Context) error
	GetAdminProfile(ctx context.Context) (model.AdminProfile, error)
}

// SessionPhase is the admin authentication state
type SessionPhase int

const (
	Unauthenticated SessionPhase = iota
	Authenticating
	Authenticated
)

func (p SessionPhase) String() string {
	switch p {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("SessionPhase(%d)", int(p))
	}
}

// SessionState is an immutable snapshot of the session store
type SessionState struct {
	Phase SessionPhase
	Token string
	Admin model.AdminProfile
	Err   error
}

// IsAuthenticated reports whether an admin token is held and accepted
func (s SessionState) IsAuthenticated() bool {
	return s.Phase == Authenticated && s.Token != ""
}

// Loading reports whether a login or token check is outstanding
func (s SessionState) Loading() bool {
	return s.Phase == Authenticating
}

type sessionAction interface {
	sessionAction()
}

type (
	authStarted   struct{}
	authSucceeded struct {
		token string
		admin model.AdminProfile
	}
	authFailed   struct{ err error }
	sessionEnded struct{}
)

func (authStarted) sessionAction()   {}
func (authSucceeded) sessionAction() {}
func (authFailed) sessionAction()    {}
func (sessionEnded) sessionAction()  {}

func reduceSession(s SessionState, a sessionAction) SessionState {
	switch a := a.(type) {
	case authStarted:
		s.Phase = Authenticating
		s.Err = nil
	case authSucceeded:
		return SessionState{Phase: Authenticated, Token: a.token, Admin: a.admin}
	case authFailed:
		return SessionState{Phase: Unauthenticated, Err: a.err}
	case sessionEnded:
		return SessionState{Phase: Unauthenticated}
	}
	return s
}

// Session tracks whether the caller is the authenticated admin. The token
// is persisted through a tokenstore.Store so it survives restarts.
type Session struct {
	gw     AdminGateway
	tokens tokenstore.Store

	mu     sync.Mutex
	state  SessionState
	closed bool

	subs subscribers[SessionState]
}

// NewSession creates an unauthenticated session. Call Restore to pick up
// a persisted token.
func NewSession(gw AdminGateway, tokens tokenstore.Store) *Session {
	return &Session{gw: gw, tokens: tokens}
}

// State returns the current snapshot
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated is shorthand for State().IsAuthenticated()
func (s *Session) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// Subscribe calls fn after every state change until the returned func is
// called or the session is closed.
func (s *Session) Subscribe(fn func(SessionState)) func() {
	return s.subs.add(fn)
}

// Close disposes the session store. The persisted token is left alone.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.subs.clear()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) dispatch(a sessionAction) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		logger.Debug("Dropping session action after close", logger.F("action", fmt.Sprintf("%T", a)))
		return
	}
	s.state = reduceSession(s.state, a)
	snapshot := s.state
	s.mu.Unlock()

	s.subs.notify(snapshot)
}

// Login authenticates and persists the token. Invalid input is rejected
// before any request and leaves the state untouched. A rejected login
// clears any previously persisted token.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if s.isClosed() {
		return ErrClosed
	}

	creds := model.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := creds.Validate(); err != nil {
		return err
	}

	s.dispatch(authStarted{})
	res, err := s.gw.AdminLogin(ctx, creds.Email, creds.Password)
	if err != nil {
		logger.Warn("Admin login failed", logger.F("email", creds.Email), logger.F("error", err))
		s.discardToken()
		s.dispatch(authFailed{err: err})
		return err
	}

	if err := s.tokens.Set(tokenstore.Credentials{Token: res.Token, Email: res.Admin.Email}); err != nil {
		err = fmt.Errorf("failed to save session: %w", err)
		logger.Error("Admin login failed", logger.F("error", err))
		s.discardToken()
		s.dispatch(authFailed{err: err})
		return err
	}

	logger.Info("Admin logged in", logger.F("email", res.Admin.Email))
	s.dispatch(authSucceeded{token: res.Token, admin: res.Admin})
	return nil
}

// Logout ends the session. The remote logout is best effort: the local
// token is cleared whatever the backend says. Only a failure to clear the
// persisted token is returned.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.gw.AdminLogout(ctx); err != nil {
		logger.Warn("Remote logout failed, clearing local session anyway", logger.F("error", err))
	}
	return s.end("logout")
}

// Invalidate ends a session whose token the backend has rejected. No
// request is made.
func (s *Session) Invalidate() error {
	return s.end("token rejected")
}

// discardToken drops any token left from an earlier session, so a failed
// login never leaves a token behind.
func (s *Session) discardToken() {
	if err := s.tokens.Clear(); err != nil {
		logger.Error("Failed to clear session token", logger.F("error", err))
	}
}

func (s *Session) end(reason string) error {
	err := s.tokens.Clear()
	if err != nil {
		logger.Error("Failed to clear session token", logger.F("error", err))
	}
	logger.Info("Admin session ended", logger.F("reason", reason))
	s.dispatch(sessionEnded{})
	return err
}

// Restore picks up a persisted token and validates it against the
// backend. Any failure discards the token and leaves the session
// unauthenticated.
func (s *Session) Restore(ctx context.Context) {
	if s.isClosed() {
		return
	}

	creds, err := s.tokens.Get()
	if err != nil {
		logger.Warn("Failed to read persisted session", logger.F("error", err))
		_ = s.end("unreadable session")
		return
	}
	if creds.Empty() {
		return
	}

	s.dispatch(authStarted{})
	profile, err := s.gw.GetAdminProfile(ctx)
	if err != nil {
		logger.Info("Persisted token rejected", logger.F("error", err))
		_ = s.end("token check failed")
		return
	}

	if profile.Email == "" {
		profile.Email = creds.Email
	}
	s.dispatch(authSucceeded{token: creds.Token, admin: profile})
}
