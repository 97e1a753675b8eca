// Package service orchestrates the API client, the durable store and the
// session into the views the TUI consumes: the cached catalog, the
// favorites view and the image gallery.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/store"
)

const catalogKey = "movies:all"

// CatalogService handles catalog browsing with caching. The catalog is
// read-only, so the cache is replaced wholesale on refresh rather than
// patched.
type CatalogService struct {
	repo   domain.CatalogRepository
	kv     *store.Store
	logger *slog.Logger

	mu     sync.RWMutex
	movies []*domain.Movie
	byID   map[string]*domain.Movie
	loaded bool
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo domain.CatalogRepository, kv *store.Store, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		repo:   repo,
		kv:     kv,
		logger: logger,
		byID:   make(map[string]*domain.Movie),
	}
}

// Movies returns the catalog: memory cache first, then the durable
// store, then the server.
func (s *CatalogService) Movies(ctx context.Context) ([]*domain.Movie, error) {
	s.mu.RLock()
	if s.loaded {
		movies := s.movies
		s.mu.RUnlock()
		s.logger.Debug("catalog memory cache hit", "count", len(movies))
		return movies, nil
	}
	s.mu.RUnlock()

	var cached []*domain.Movie
	if s.kv != nil && s.kv.Get(store.BucketCatalog, catalogKey, &cached) {
		s.logger.Debug("catalog store cache hit", "count", len(cached))
		s.replace(cached)
		return cached, nil
	}

	return s.Refresh(ctx)
}

// Refresh fetches the catalog from the server and replaces both caches.
func (s *CatalogService) Refresh(ctx context.Context) ([]*domain.Movie, error) {
	movies, err := s.repo.ListMovies(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog", "error", err)
		return nil, err
	}

	s.replace(movies)
	if s.kv != nil {
		if err := s.kv.Set(store.BucketCatalog, catalogKey, movies); err != nil {
			s.logger.Warn("failed to persist catalog cache", "error", err)
		}
	}

	s.logger.Info("catalog loaded", "count", len(movies))
	return movies, nil
}

// MovieByID returns a movie from the cached catalog.
func (s *CatalogService) MovieByID(id string) (*domain.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movie, ok := s.byID[id]
	return movie, ok
}

// MovieByTitle fetches a single movie by its exact title.
func (s *CatalogService) MovieByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return s.repo.GetMovieByTitle(ctx, title)
}

// MoviesByDirector fetches the movies directed by name.
func (s *CatalogService) MoviesByDirector(ctx context.Context, name string) ([]*domain.Movie, error) {
	return s.repo.GetMoviesByDirector(ctx, name)
}

// MoviesByGenre fetches the movies in the named genre.
func (s *CatalogService) MoviesByGenre(ctx context.Context, name string) ([]*domain.Movie, error) {
	return s.repo.GetMoviesByGenre(ctx, name)
}

// Invalidate drops both cache layers.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	s.movies = nil
	s.byID = make(map[string]*domain.Movie)
	s.loaded = false
	s.mu.Unlock()

	if s.kv != nil {
		s.kv.DeletePrefix(store.BucketCatalog, "movies:")
	}
}

func (s *CatalogService) replace(movies []*domain.Movie) {
	byID := make(map[string]*domain.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	s.mu.Lock()
	s.movies = movies
	s.byID = byID
	s.loaded = true
	s.mu.Unlock()
}
