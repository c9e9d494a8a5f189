// Package session holds the client-side authentication state: which user (if
// any) is signed in, the startup loading flag and the last displayable error.
// One Store exists per process, constructed at the entry point and passed by
// reference to everything that needs it. All operations are serialized by a
// single mutex, so overlapping calls apply in issuance order.
package session

import (
	"context"
	"sync"

	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/transport"
	"go.uber.org/zap"
)

// MsgSessionExpired is the fixed message set when the startup credential
// check fails.
const MsgSessionExpired = "session expired, please sign in again"

// TokenStore is the durable credential store the session writes through.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Result is what Login/Register/UpdateProfile/ChangePassword hand back to
// their callers. The store never returns Go errors: every failure collapses
// to the displayable Error string.
type Result struct {
	OK    bool
	User  *model.UserRecord
	Error string
}

func failure(msg string) Result { return Result{Error: msg} }

// Store is the process-wide session authority.
type Store struct {
	api    *transport.Client
	tokens TokenStore
	log    *zap.Logger

	mu      sync.Mutex
	user    *model.UserRecord
	loading bool
	err     string
}

// New constructs a Store in the Checking state: loading stays true until
// Initialize resolves it.
func New(api *transport.Client, tokens TokenStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{api: api, tokens: tokens, log: log, loading: true}
}

// authResponse is the flat login/register body: the user record plus a token.
type authResponse struct {
	model.UserRecord
	Token string `json:"token"`
}

// Initialize runs once at startup. With no persisted token it resolves to an
// empty session immediately; otherwise it validates the token against
// /auth/me. A failed validation deletes the token and records the fixed
// session-expired message. This is the only path that touches loading.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	if _, err := s.tokens.Load(); err != nil {
		return
	}

	var u model.UserRecord
	if err := s.api.Get(ctx, "/auth/me", &u); err != nil {
		s.log.Debug("startup credential check failed", zap.Error(err))
		_ = s.tokens.Clear()
		s.user = nil
		s.err = MsgSessionExpired
		return
	}
	s.user = &u
	s.err = ""
}

// Login authenticates with email/password. On success the token is persisted
// and the user record replaced wholesale; on failure the current user (if
// any) is left untouched and the backend's message (or the generic fallback)
// is recorded and returned. Never touches loading.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""

	var resp authResponse
	err := s.api.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return s.fail(err)
	}
	return s.establish(resp)
}

// RegisterData is the account-creation input. Optional fields are stripped
// from the payload when empty, so the backend never sees empty keys.
type RegisterData struct {
	Name         string     `validate:"required"`
	Email        string     `validate:"required,email"`
	Password     string     `validate:"required,min=6"`
	Role         model.Role `validate:"required,oneof=user business"`
	Phone        string     `validate:"omitempty"`
	BusinessName string     `validate:"omitempty"`
}

// payload builds the transmitted body, omitting empty optional fields.
func (d RegisterData) payload() map[string]any {
	p := map[string]any{
		"name":     d.Name,
		"email":    d.Email,
		"password": d.Password,
		"role":     d.Role,
	}
	if d.Phone != "" {
		p["phone"] = d.Phone
	}
	if d.BusinessName != "" {
		p["businessName"] = d.BusinessName
	}
	return p
}

// Register creates an account and signs in. Same contract as Login.
func (s *Store) Register(ctx context.Context, data RegisterData) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""

	var resp authResponse
	if err := s.api.Post(ctx, "/auth/register", data.payload(), &resp); err != nil {
		return s.fail(err)
	}
	return s.establish(resp)
}

// establish persists the token and installs the user record. A success
// response without a token is treated as a failure rather than replicating
// the original's silent no-op.
func (s *Store) establish(resp authResponse) Result {
	if resp.Token == "" {
		s.err = transport.GenericMessage
		return failure(s.err)
	}
	if err := s.tokens.Save(resp.Token); err != nil {
		s.log.Warn("persist token", zap.Error(err))
		s.err = transport.GenericMessage
		return failure(s.err)
	}
	u := resp.UserRecord
	s.user = &u
	s.err = ""
	return Result{OK: true, User: &u}
}

// fail records and returns the displayable message for err.
func (s *Store) fail(err error) Result {
	s.err = transport.Message(err)
	return failure(s.err)
}

// ProfileData updates account fields; empty optional fields are omitted.
type ProfileData struct {
	Name         string `validate:"required"`
	Phone        string `validate:"omitempty"`
	BusinessName string `validate:"omitempty"`
	Address      string `validate:"omitempty"`
}

// UpdateProfile saves profile fields; success replaces the user record.
func (s *Store) UpdateProfile(ctx context.Context, data ProfileData) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""

	p := map[string]any{"name": data.Name}
	if data.Phone != "" {
		p["phone"] = data.Phone
	}
	if data.BusinessName != "" {
		p["businessName"] = data.BusinessName
	}
	if data.Address != "" {
		p["address"] = data.Address
	}

	var u model.UserRecord
	if err := s.api.Put(ctx, "/auth/profile", p, &u); err != nil {
		return s.fail(err)
	}
	s.user = &u
	return Result{OK: true, User: &u}
}

// ChangePassword swaps the account password; the session itself is unchanged.
func (s *Store) ChangePassword(ctx context.Context, current, next string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""

	body := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}
	if err := s.api.Put(ctx, "/auth/change-password", body, nil); err != nil {
		return s.fail(err)
	}
	return Result{OK: true, User: s.user}
}

// Logout deletes the persisted token and clears the session. Synchronous, no
// backend call, idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.tokens.Clear()
	s.user = nil
	s.err = ""
}

// ClearError clears only the error message (dismissed banner).
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// User returns the signed-in user, or nil while anonymous.
func (s *Store) User() *model.UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether the startup credential check is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last displayable failure message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
