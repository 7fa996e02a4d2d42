package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashpandey06/E-Commerce-Application/internal/config"
	apperrors "github.com/yashpandey06/E-Commerce-Application/internal/errors"
	"github.com/yashpandey06/E-Commerce-Application/internal/session"
)

// fakeBackend is a minimal in-memory commerce backend covering the auth and
// cart surface the client graph exercises.
type fakeBackend struct {
	mu         sync.Mutex
	validToken string
	items      []map[string]any
	nextItemID int64
	rejectAll  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{validToken: "tok-good", nextItemID: 1}
}

func (b *fakeBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rejectAll {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+b.validToken
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "incorrect email or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": b.validToken, "refresh_token": "ref-good",
		})
	})

	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "not authenticated"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "email": "jo@example.com", "username": "jo", "role": "customer",
		})
	})

	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "not authenticated"}`))
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"items": b.items})
	})

	mux.HandleFunc("POST /cart/items", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "not authenticated"}`))
			return
		}
		var body struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.items = append(b.items, map[string]any{
			"id": b.nextItemID, "product_id": body.ProductID, "quantity": body.Quantity,
			"product": map[string]any{"id": body.ProductID, "name": "Widget", "price": 9.99},
		})
		b.nextItemID++
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("DELETE /cart/items/", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		idStr := strings.TrimPrefix(r.URL.Path, "/cart/items/")
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.items[:0]
		for _, it := range b.items {
			if idOf(it) != idStr {
				kept = append(kept, it)
			}
		}
		b.items = kept
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func idOf(item map[string]any) string {
	switch v := item["id"].(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

func newTestApp(t *testing.T, backendURL, stateDir string) *App {
	t.Helper()
	t.Setenv("STOREFRONT_API_URL", backendURL)
	t.Setenv("STOREFRONT_STATE_DIR", stateDir)
	t.Setenv("HTTP_MAX_RETRIES", "0")
	t.Setenv("OTEL_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	a, err := NewApp(context.Background(), cfg, log)
	require.NoError(t, err)
	return a
}

func TestApp_ColdStartWithoutCredentialIsAnonymous(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	a := newTestApp(t, srv.URL, t.TempDir())
	a.Start(context.Background())

	assert.Equal(t, session.StateAnonymous, a.Session.State())
	assert.Empty(t, a.Cart.Items())
}

func TestApp_LoginPersistsAcrossRestart(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	stateDir := t.TempDir()
	ctx := context.Background()

	a := newTestApp(t, srv.URL, stateDir)
	a.Start(ctx)
	require.NoError(t, a.Session.Login(ctx, "jo@example.com", "hunter22"))
	require.NoError(t, a.Cart.AddItem(ctx, 10, 2))
	require.Equal(t, 2, a.Cart.ItemCount())

	// A fresh graph over the same state dir replays the persisted session.
	restarted := newTestApp(t, srv.URL, stateDir)
	restarted.Start(ctx)

	assert.Equal(t, session.StateAuthenticated, restarted.Session.State())
	assert.Equal(t, "jo", restarted.Session.User().Username)
	assert.Equal(t, 2, restarted.Cart.ItemCount(), "cart loads on startup via the lifecycle binding")
}

func TestApp_LoginLoadsCartThroughLifecycleBinding(t *testing.T) {
	backend := newFakeBackend()
	backend.items = []map[string]any{
		{"id": int64(1), "product_id": int64(10), "quantity": 3,
			"product": map[string]any{"id": int64(10), "name": "Widget", "price": 9.99}},
	}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	a := newTestApp(t, srv.URL, t.TempDir())
	a.Start(context.Background())
	require.NoError(t, a.Session.Login(context.Background(), "jo@example.com", "hunter22"))

	assert.Equal(t, 3, a.Cart.ItemCount())
	assert.InDelta(t, 29.97, a.Cart.Total(), 0.001)
}

func TestApp_UnauthorizedResponseCascadesToLogout(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	a := newTestApp(t, srv.URL, t.TempDir())
	ctx := context.Background()
	a.Start(ctx)
	require.NoError(t, a.Session.Login(ctx, "jo@example.com", "hunter22"))
	require.NoError(t, a.Cart.AddItem(ctx, 10, 1))
	require.True(t, a.Session.IsAuthenticated())

	// Token revoked server-side; the next cart operation observes a 401.
	backend.mu.Lock()
	backend.rejectAll = true
	backend.mu.Unlock()

	err := a.Cart.Refresh(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	assert.Equal(t, session.StateAnonymous, a.Session.State())
	assert.Empty(t, a.Cart.Items(), "logout cascade empties the cart")
	_, ok := a.Creds.Read()
	assert.False(t, ok, "credential cleared")
}

func TestApp_LogoutClearsEverything(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	a := newTestApp(t, srv.URL, t.TempDir())
	ctx := context.Background()
	a.Start(ctx)
	require.NoError(t, a.Session.Login(ctx, "jo@example.com", "hunter22"))
	require.NoError(t, a.Cart.AddItem(ctx, 10, 1))

	a.Session.Logout()

	assert.Equal(t, session.StateAnonymous, a.Session.State())
	assert.Empty(t, a.Cart.Items())
	_, ok := a.Creds.Read()
	assert.False(t, ok)
}

func TestApp_AnonymousCartMutationFailsFast(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	a := newTestApp(t, srv.URL, t.TempDir())
	ctx := context.Background()
	a.Start(ctx)

	err := a.Cart.AddItem(ctx, 10, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
