package screen

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/api"
	"github.com/atinyakov/JapaKeeper/internal/apitest"
	"github.com/atinyakov/JapaKeeper/internal/client/storage"
	"github.com/atinyakov/JapaKeeper/internal/models"
	"github.com/atinyakov/JapaKeeper/internal/nav"
	"github.com/atinyakov/JapaKeeper/internal/session"
)

var fixedNow = time.Date(2024, 2, 1, 6, 30, 15, 0, time.UTC)

type harness struct {
	srv     *apitest.Server
	kv      *storage.FileStore
	store   *session.Store
	nav     *nav.Navigator
	events  []nav.Event
	deps    Deps
	backend *api.Client
}

func newHarness(t *testing.T, start nav.Screen) *harness {
	t.Helper()
	kv := storage.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	h := &harness{
		srv:   apitest.New(t),
		kv:    kv,
		store: session.NewStore(kv, zap.NewNop()),
		nav:   nav.New(start),
	}
	h.nav.Subscribe(func(e nav.Event) { h.events = append(h.events, e) })
	h.backend = api.New(h.srv.URL, h.srv.Client())
	h.deps = Deps{
		Session: h.store,
		API:     h.backend,
		Nav:     h.nav,
		Log:     zap.NewNop(),
		Now:     func() time.Time { return fixedNow },
	}
	return h
}

// offline swaps the backend for one whose transport always fails.
func (h *harness) offline() {
	h.deps.API = api.New("http://japa.invalid", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: no route to host")
		}),
	})
}

func (h *harness) login(t *testing.T, s models.Session) {
	t.Helper()
	if err := h.store.Save(context.Background(), s); err != nil {
		t.Fatalf("save session: %v", err)
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
