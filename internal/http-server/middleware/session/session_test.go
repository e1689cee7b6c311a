package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog-api/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	tokens map[string]models.User
}

func (f fakeResolver) ResolveToken(_ context.Context, token string) (models.User, error) {
	user, ok := f.tokens[token]
	if !ok {
		return models.User{}, errors.New("invalid token")
	}
	return user, nil
}

func newGate() func(http.Handler) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, fakeResolver{tokens: map[string]models.User{
		"good": {ID: "u1", Email: "a@x.com"},
	}})
}

func TestGate_AttachesUser(t *testing.T) {
	var got models.User
	h := newGate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		got, ok = UserFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/auth", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "good"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", got.ID)
}

func TestGate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "unknown token", cookie: &http.Cookie{Name: CookieName, Value: "stale"}},
		{name: "wrong cookie name", cookie: &http.Cookie{Name: "jwt", Value: "good"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := newGate()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/auth", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"isAuth":false,"success":false,"message":"invalid token"}`, rr.Body.String())
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
