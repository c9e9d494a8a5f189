package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avtohub/avtohub/internal/errs"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Load()
	require.ErrorIs(t, err, errs.ErrNoToken)

	tok := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Save(tok))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, tok, got)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, errs.ErrNoToken)

	// clearing twice stays silent
	require.NoError(t, s.Clear())
}

func TestStore_Save_Empty(t *testing.T) {
	s := New(t.TempDir())
	require.Error(t, s.Save(""))
}

func TestStore_Load_ExpiredPruned(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Save(signedToken(t, time.Now().Add(-time.Minute))))

	_, err := s.Load()
	require.ErrorIs(t, err, errs.ErrNoToken)

	// the file itself must be gone after pruning
	_, statErr := os.Stat(filepath.Join(dir, "token.json"))
	require.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestStore_Load_GarbageFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.json"), []byte("not-json"), 0o600))

	_, err := New(dir).Load()
	require.ErrorIs(t, err, errs.ErrNoToken)
}

func TestStore_Save_OpaqueTokenNeverExpiresLocally(t *testing.T) {
	// a non-JWT token round-trips with no local expiry; only the backend can
	// declare it stale
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Save("opaque-string-token"))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "opaque-string-token", got)

	b, err := os.ReadFile(filepath.Join(dir, "token.json"))
	require.NoError(t, err)
	var tf struct {
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(b, &tf))
	require.True(t, tf.ExpiresAt.IsZero())
}
