package service

import (
	"context"
	"sync"
	"time"

	"github.com/mdoering/marquee/internal/domain"
)

// fakeCatalog implements domain.CatalogRepository over a fixed slice.
type fakeCatalog struct {
	movies []*domain.Movie
	err    error
	calls  int
}

func (f *fakeCatalog) ListMovies(ctx context.Context) ([]*domain.Movie, error) {
	f.calls++
	return f.movies, f.err
}

func (f *fakeCatalog) GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	for _, m := range f.movies {
		if m.Title == title {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) GetMoviesByDirector(ctx context.Context, name string) ([]*domain.Movie, error) {
	var out []*domain.Movie
	for _, m := range f.movies {
		if m.Director.Name == name {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetMoviesByGenre(ctx context.Context, name string) ([]*domain.Movie, error) {
	var out []*domain.Movie
	for _, m := range f.movies {
		if m.Genre.Name == name {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeFavorites implements domain.FavoritesRepository with server-side state.
type fakeFavorites struct {
	mu       sync.Mutex
	username string
	ids      []string
	getErr   error
	mutErr   error

	addCalls    []string
	removeCalls []string
}

func (f *fakeFavorites) GetFavorites(ctx context.Context, username string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]string(nil), f.ids...), nil
}

func (f *fakeFavorites) AddFavorite(ctx context.Context, movieID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls = append(f.addCalls, movieID)
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	found := false
	for _, id := range f.ids {
		if id == movieID {
			found = true
		}
	}
	if !found {
		f.ids = append(f.ids, movieID)
	}
	return f.user(), nil
}

func (f *fakeFavorites) RemoveFavorite(ctx context.Context, movieID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, movieID)
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	kept := f.ids[:0]
	for _, id := range f.ids {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	f.ids = kept
	return f.user(), nil
}

func (f *fakeFavorites) user() *domain.User {
	return &domain.User{
		Username:         f.username,
		FavoriteMovieIDs: append([]string(nil), f.ids...),
	}
}

// fakeImages implements domain.ImageRepository. Listings are served per
// call so tests can script what each poll sees.
type fakeImages struct {
	mu       sync.Mutex
	listings [][]domain.ImageObject // consumed one per ListImages call; last repeats
	listErr  error

	getCalls    []string
	listCalls   int
	uploadCalls []string
	uploadErr   error
}

func (f *fakeImages) ListImages(ctx context.Context, prefix string) ([]domain.ImageObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.listings) == 0 {
		return nil, nil
	}
	listing := f.listings[0]
	if len(f.listings) > 1 {
		f.listings = f.listings[1:]
	}
	return listing, nil
}

func (f *fakeImages) GetImage(ctx context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, key)
	return []byte("image-bytes:" + key), "image/png", nil
}

func (f *fakeImages) UploadImage(ctx context.Context, filename string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls = append(f.uploadCalls, filename)
	return f.uploadErr
}

// recordingSleep captures requested delays without waiting.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func obj(key string, modified time.Time, size int64) domain.ImageObject {
	return domain.ImageObject{Key: key, LastModified: modified, Size: size}
}
