package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mpetrov/studhelper-go/internal/api"
	"github.com/mpetrov/studhelper-go/internal/config"
	"github.com/mpetrov/studhelper-go/internal/model"
	"github.com/mpetrov/studhelper-go/internal/store"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(config.APIConfig{BaseURL: srv.URL}, api.StaticToken("tok"), nil)
}

func TestSyncReplacesStore(t *testing.T) {
	backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"s1","title":"Algebra","date":"2025-01-10","messages":[]},
			{"id":"s2","title":"History","date":"2025-01-09","messages":[]}
		]`))
	})

	st := store.New()
	st.Upsert(model.ChatSession{ID: "stale", Title: "Stale", Messages: []model.ChatMessage{}})

	New(backend, st).Sync(context.Background())

	sessions := st.Sessions()
	require.Len(t, sessions, 2)
	require.Equal(t, "s1", sessions[0].ID)
	require.Equal(t, "s2", sessions[1].ID)
}

func TestSyncNonArrayBodyDegradesToEmpty(t *testing.T) {
	backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"database offline"}`))
	})

	st := store.New()
	st.Upsert(model.ChatSession{ID: "stale", Title: "Stale", Messages: []model.ChatMessage{}})

	require.NotPanics(t, func() {
		New(backend, st).Sync(context.Background())
	})
	require.Zero(t, st.Len())
}

func TestSyncServerErrorDegradesToEmpty(t *testing.T) {
	backend := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	st := store.New()
	New(backend, st).Sync(context.Background())
	require.Zero(t, st.Len())
}
