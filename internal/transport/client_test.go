package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avtohub/avtohub/internal/errs"
	"github.com/stretchr/testify/require"
)

// memTokens is an in-memory TokenSource for tests.
type memTokens struct {
	token  string
	clears int
}

func (m *memTokens) Load() (string, error) {
	if m.token == "" {
		return "", errs.ErrNoToken
	}
	return m.token, nil
}

func (m *memTokens) Clear() error {
	m.clears++
	m.token = ""
	return nil
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRID = r.Header.Get("X-Request-ID")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok-123"})
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.Get(context.Background(), "/ping", &out))
	require.True(t, out.OK)
	require.Equal(t, "Bearer tok-123", gotAuth)
	require.NotEmpty(t, gotRID)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{})
	require.NoError(t, c.Get(context.Background(), "/public", nil))
	require.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsTokenAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"token expired"}`)
	}))
	defer srv.Close()

	tokens := &memTokens{token: "stale"}
	notified := 0
	c := New(srv.URL, tokens, WithUnauthorizedHandler(func() { notified++ }))

	err := c.Get(context.Background(), "/orders", nil)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.Equal(t, 1, tokens.clears)
	require.Equal(t, 1, notified)
	require.Empty(t, tokens.token)
	require.Equal(t, "token expired", Message(err))
}

func TestClient_StatusSentinels(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{})

	err := c.Get(context.Background(), "/x", nil)
	require.ErrorIs(t, err, errs.ErrNotFound)

	status = http.StatusForbidden
	err = c.Get(context.Background(), "/x", nil)
	require.ErrorIs(t, err, errs.ErrForbidden)

	status = http.StatusConflict
	err = c.Post(context.Background(), "/x", map[string]string{"a": "b"}, nil)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	// unmapped statuses still surface as APIError
	status = http.StatusInternalServerError
	err = c.Get(context.Background(), "/x", nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusInternalServerError, ae.Status)
}

func TestMessage(t *testing.T) {
	require.Equal(t, "duplicate email", Message(&APIError{Status: 409, Msg: "duplicate email"}))
	require.Equal(t, GenericMessage, Message(&APIError{Status: 500}))
	require.Equal(t, GenericMessage, Message(errors.New("dial tcp: connection refused")))
	require.Equal(t, GenericMessage, Message(nil))
}

func TestClient_NetworkErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	c := New(srv.URL, &memTokens{})
	err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	require.Equal(t, GenericMessage, Message(err))
}

func TestClient_DecodesErrorEnvelopeOnlyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"scheduledDate is required"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{})
	err := c.Post(context.Background(), "/orders", map[string]string{}, nil)
	require.Equal(t, "scheduledDate is required", Message(err))
}
