package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/session"
)

// FavoritesService keeps the favorite-movie view consistent with the
// server of record. It never mutates the view optimistically: every
// toggle re-fetches, so the view always reflects the server's last
// answer even after partial failures. Toggles are serialized so two
// rapid presses cannot leave a stale refresh as the last writer.
type FavoritesService struct {
	catalog *CatalogService
	repo    domain.FavoritesRepository
	session *session.Store
	logger  *slog.Logger

	mu   sync.Mutex // Serializes toggle/refresh cycles
	view []*domain.Movie
	ids  map[string]bool
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(catalog *CatalogService, repo domain.FavoritesRepository, sess *session.Store, logger *slog.Logger) *FavoritesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoritesService{
		catalog: catalog,
		repo:    repo,
		session: sess,
		logger:  logger,
	}
}

// Favorites returns the current favorite view (last successful refresh).
func (s *FavoritesService) Favorites() []*domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// IsFavorite reports membership as of the last refresh. Before the
// first refresh it falls back to the IDs mirrored into the session, so
// a restored session shows its favorites while the refresh is still in
// flight.
func (s *FavoritesService) IsFavorite(movieID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isFavoriteLocked(movieID)
}

func (s *FavoritesService) isFavoriteLocked(movieID string) bool {
	if s.ids == nil {
		sess := s.session.Current()
		return sess.User.HasFavorite(movieID)
	}
	return s.ids[movieID]
}

// Refresh fetches the catalog and the user's favorite-ID list, replaces
// the view with their intersection and mirrors the IDs into the session.
// A fetch failure degrades to an empty view rather than an error: the
// profile page renders without favorites instead of failing outright.
func (s *FavoritesService) Refresh(ctx context.Context) []*domain.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *FavoritesService) refreshLocked(ctx context.Context) []*domain.Movie {
	movies, err := s.catalog.Movies(ctx)
	if err != nil {
		s.logger.Error("favorites refresh: catalog fetch failed", "error", err)
		s.replaceLocked(nil, nil)
		return nil
	}

	ids, err := s.repo.GetFavorites(ctx, s.session.Username())
	if err != nil {
		s.logger.Error("favorites refresh: favorites fetch failed", "error", err)
		s.replaceLocked(nil, nil)
		return nil
	}

	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}

	var view []*domain.Movie
	for _, movie := range movies {
		if idSet[movie.ID] {
			view = append(view, movie)
		}
	}

	s.replaceLocked(view, idSet)

	if err := s.session.SetFavorites(ids); err != nil {
		s.logger.Warn("failed to mirror favorites into session", "error", err)
	}

	s.logger.Debug("favorites refreshed", "count", len(view))
	return view
}

// Toggle adds or removes the movie depending on the current view's
// membership, then refreshes unconditionally. The returned flag is the
// post-refresh membership — the server's last word, not the client's
// guess.
func (s *FavoritesService) Toggle(ctx context.Context, movieID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *domain.User
	var err error
	if s.isFavoriteLocked(movieID) {
		user, err = s.repo.RemoveFavorite(ctx, movieID)
	} else {
		user, err = s.repo.AddFavorite(ctx, movieID)
	}

	if err == nil && user != nil {
		if serr := s.session.SetUser(*user); serr != nil {
			s.logger.Warn("failed to store updated user", "error", serr)
		}
	}

	// Re-fetch regardless of the mutation's outcome so the view cannot
	// diverge from the server after a partial failure.
	s.refreshLocked(ctx)

	if err != nil {
		s.logger.Error("favorite toggle failed", "movieID", movieID, "error", err)
		return s.ids[movieID], err
	}

	return s.ids[movieID], nil
}

func (s *FavoritesService) replaceLocked(view []*domain.Movie, ids map[string]bool) {
	if ids == nil {
		ids = make(map[string]bool)
	}
	s.view = view
	s.ids = ids
}
