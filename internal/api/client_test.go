package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdoering/marquee/internal/domain"
)

// fakeTokens is a mutable TokenSource for tests.
type fakeTokens struct {
	mu       sync.Mutex
	token    string
	username string
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.username
}

func (f *fakeTokens) set(token, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.username = username
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *fakeTokens, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &fakeTokens{token: "tok-1", username: "lina"}
	return NewClient(srv.URL, tokens, nil), tokens, srv
}

func TestClient_TokenReadAtCallTime(t *testing.T) {
	var seen []string
	client, tokens, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))

	ctx := context.Background()

	_, err := client.ListMovies(ctx)
	require.NoError(t, err)

	// Rotate the token; the next call must pick it up
	tokens.set("tok-2", "lina")

	_, err = client.ListMovies(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok-1", "Bearer tok-2"}, seen)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Guarantee connection refused

	client := NewClient(srv.URL, &fakeTokens{}, nil)

	_, err := client.ListMovies(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerUnreachable)
}

func TestClient_Unauthorized(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.ListMovies(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestClient_NotFound(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetMovieByTitle(context.Background(), "Nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_RemoteError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))

	_, err := client.ListMovies(context.Background())

	var remote *domain.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
	assert.Equal(t, "boom", remote.Body)
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", &fakeTokens{}, nil)
	_, err := client.ListMovies(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/movies", path)
}
