// Package session owns the authenticated-user identity. A Session exists in
// memory only while a valid persisted credential backs it; any discovery of
// credential invalidity clears both together.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yashpandey06/E-Commerce-Application/internal/api"
	"github.com/yashpandey06/E-Commerce-Application/internal/domain"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
	"github.com/yashpandey06/E-Commerce-Application/internal/metrics"
	"github.com/yashpandey06/E-Commerce-Application/internal/validator"
)

// State is the session lifecycle state.
type State int

const (
	// StateUnknown is the initial state before the startup verification ran.
	// Consumers must treat it as neither authenticated nor anonymous.
	StateUnknown State = iota
	// StateVerifying means the persisted credential is being presented to the
	// whoami endpoint.
	StateVerifying
	// StateAuthenticated means a verified user identity is held in memory.
	StateAuthenticated
	// StateAnonymous means no valid credential exists.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// AuthAPI is the slice of the backend client the manager depends on.
type AuthAPI interface {
	Login(ctx context.Context, input api.LoginInput) (*domain.TokenPair, error)
	Signup(ctx context.Context, input api.SignupInput) error
	Me(ctx context.Context) (*domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	UpdateProfile(ctx context.Context, input api.UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, input api.ChangePasswordInput) error
}

// CredentialStore is the slice of the credential store the manager depends on.
type CredentialStore interface {
	Save(token, refreshToken string) error
	Read() (string, bool)
	ReadRefresh() (string, bool)
	Clear()
}

// Observer is notified after every state transition. Observers must not
// block; they run on the mutating goroutine.
type Observer func(state State, user *domain.User)

// Manager is the session state machine:
// Unknown → (Verifying) → {Authenticated | Anonymous}.
type Manager struct {
	api    AuthAPI
	creds  CredentialStore
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	user      *domain.User
	observers []Observer
}

// NewManager creates a session manager in the Unknown state. The composition
// root must call Verify once at startup before consumers rely on
// IsAuthenticated.
func NewManager(authAPI AuthAPI, creds CredentialStore, logger *slog.Logger) *Manager {
	return &Manager{
		api:    authAPI,
		creds:  creds,
		logger: logger,
		state:  StateUnknown,
	}
}

// Subscribe registers an observer for state transitions. The cart store's
// lifecycle binding hangs off this.
func (m *Manager) Subscribe(fn Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated is true iff the session is Authenticated. It is never true
// during Unknown or Verifying, so consumers cannot redirect prematurely while
// the startup verification is in flight.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// User returns a copy of the authenticated identity, or nil.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Verify performs the one-time startup verification: present the persisted
// credential to the whoami endpoint. Absent credential or any rejection lands
// in Anonymous; a rejection also clears the credential. Verify itself never
// returns an error; the resulting state is the answer.
func (m *Manager) Verify(ctx context.Context) {
	if _, ok := m.creds.Read(); !ok {
		m.setState(StateAnonymous, nil)
		return
	}

	m.setState(StateVerifying, nil)

	user, err := m.api.Me(ctx)
	if err != nil {
		m.logger.InfoContext(ctx, "startup verification rejected, clearing credential",
			slog.String("error", err.Error()),
		)
		m.creds.Clear()
		m.setState(StateAnonymous, nil)
		return
	}

	m.logger.InfoContext(ctx, "session verified",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)
	m.setState(StateAuthenticated, user)
}

// Login exchanges credentials for a token pair, persists it, then verifies
// the new credential to transition into Authenticated. On rejection the state
// is unchanged and an ErrInvalidCredentials carrying the server message is
// returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	input := api.LoginInput{Email: email, Password: password}
	if err := validator.Validate(input); err != nil {
		return apperrors.InvalidCredentials(err.Error())
	}

	pair, err := m.api.Login(ctx, input)
	if err != nil {
		return err
	}

	if err := m.creds.Save(pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		// The freshly issued token failed verification; do not keep it.
		m.creds.Clear()
		m.setState(StateAnonymous, nil)
		return fmt.Errorf("verify new session: %w", err)
	}

	m.logger.InfoContext(ctx, "login succeeded",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)
	m.setState(StateAuthenticated, user)
	return nil
}

// Signup registers a new account, then logs in with the same credentials
// (signup does not itself authenticate). A rejection is returned as
// ErrSignupRejected carrying the server message.
func (m *Manager) Signup(ctx context.Context, email, username, password, role string) error {
	if role == "" {
		role = domain.RoleCustomer
	}
	input := api.SignupInput{Email: email, Username: username, Password: password, Role: role}
	if err := validator.Validate(input); err != nil {
		return apperrors.SignupRejected(err.Error())
	}

	if err := m.api.Signup(ctx, input); err != nil {
		return err
	}

	return m.Login(ctx, email, password)
}

// Logout clears the credential store and transitions to Anonymous
// unconditionally. It never fails and is idempotent: calling it while already
// Anonymous still clears storage.
func (m *Manager) Logout() {
	m.creds.Clear()
	m.setState(StateAnonymous, nil)
}

// InvalidateOn applies the cross-cutting recovery rule: any component that
// receives a 401 from an authenticated request must invalidate the session.
// Returns true when a logout was performed.
func (m *Manager) InvalidateOn(err error) bool {
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		m.logger.Info("unauthorized response, invalidating session")
		m.Logout()
		return true
	}
	return false
}

// RefreshToken rotates the persisted token pair using the stored refresh
// token. It is an explicit operation; the startup verification never falls
// back to it.
func (m *Manager) RefreshToken(ctx context.Context) error {
	refresh, ok := m.creds.ReadRefresh()
	if !ok {
		return apperrors.Unauthenticated("no refresh token")
	}

	pair, err := m.api.Refresh(ctx, refresh)
	if err != nil {
		m.InvalidateOn(err)
		return err
	}

	if err := m.creds.Save(pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("persist rotated credential: %w", err)
	}
	return nil
}

// UpdateProfile updates the authenticated user's profile and replaces the
// in-memory identity with the backend's answer.
func (m *Manager) UpdateProfile(ctx context.Context, input api.UpdateProfileInput) error {
	if err := validator.Validate(input); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	user, err := m.api.UpdateProfile(ctx, input)
	if err != nil {
		m.InvalidateOn(err)
		return err
	}

	m.setState(StateAuthenticated, user)
	return nil
}

// ChangePassword rotates the authenticated user's password.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) error {
	input := api.ChangePasswordInput{CurrentPassword: current, NewPassword: next}
	if err := validator.Validate(input); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	if err := m.api.ChangePassword(ctx, input); err != nil {
		m.InvalidateOn(err)
		return err
	}
	return nil
}

// setState records the transition and notifies observers outside the lock so
// an observer may call back into the manager.
func (m *Manager) setState(state State, user *domain.User) {
	m.mu.Lock()
	changed := m.state != state || m.user != user
	m.state = state
	m.user = user
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	if !changed {
		return
	}

	metrics.ObserveSessionTransition(state.String())
	for _, fn := range observers {
		fn(state, user)
	}
}
