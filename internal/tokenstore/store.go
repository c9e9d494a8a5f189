// Package tokenstore persists the backend-issued credential token across runs.
// A single opaque string under a well-known path is the only durable session
// state; the user record is always re-derived from the backend.
package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/avtohub/avtohub/internal/errs"
	"github.com/golang-jwt/jwt/v5"
)

type tokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps the token in a JSON file under dir.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. Empty dir falls back to
// $XDG_CONFIG_HOME/avtohub (or ~/.config/avtohub).
func New(dir string) *Store {
	if dir == "" {
		dir = defaultDir()
	}
	return &Store{dir: dir}
}

func defaultDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "avtohub")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "avtohub")
}

func (s *Store) path() string { return filepath.Join(s.dir, "token.json") }

// Save persists the token. Expiry is lifted from the JWT exp claim when
// present (parsed without signature validation; the backend owns the key).
// An opaque non-JWT token gets no local expiry: its staleness is only ever
// discovered reactively, when the backend rejects it.
func (s *Store) Save(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	var exp time.Time
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	b, err := json.MarshalIndent(tokenFile{Token: token, ExpiresAt: exp}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o600)
}

// Load returns the persisted token, or errs.ErrNoToken when none is usable.
// A locally expired token is pruned so the next Load resolves fast.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return "", errs.ErrNoToken
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", errs.ErrNoToken
	}
	if tf.Token == "" {
		return "", errs.ErrNoToken
	}
	if !tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt) {
		_ = s.Clear()
		return "", errs.ErrNoToken
	}
	return tf.Token, nil
}

// Clear deletes the persisted token. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
