package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdoering/marquee/internal/domain"
)

var searchMovies = []*domain.Movie{
	{ID: "m1", Title: "Stalker", Director: domain.Director{Name: "Andrei Tarkovsky"}, Genre: domain.Genre{Name: "Science Fiction"}},
	{ID: "m2", Title: "Solaris", Director: domain.Director{Name: "Andrei Tarkovsky"}, Genre: domain.Genre{Name: "Science Fiction"}},
	{ID: "m3", Title: "Paris, Texas", Director: domain.Director{Name: "Wim Wenders"}, Genre: domain.Genre{Name: "Drama"}},
}

func newSearchFixture(t *testing.T) *SearchService {
	t.Helper()

	catalog := NewCatalogService(&fakeCatalog{movies: searchMovies}, nil, nil)
	svc := NewSearchService(catalog, nil)
	require.NoError(t, svc.Reindex(context.Background()))
	return svc
}

func TestSearch_FilterByTitle(t *testing.T) {
	svc := newSearchFixture(t)

	results := svc.Filter("stalker")
	require.NotEmpty(t, results)
	assert.Equal(t, "m1", results[0].Movie.ID)
	assert.Equal(t, FieldTitle, results[0].Field)
	assert.NotEmpty(t, results[0].MatchedIndexes)
}

func TestSearch_FilterByDirector(t *testing.T) {
	svc := newSearchFixture(t)

	results := svc.Filter("tarkovsky")
	ids := make(map[string]bool)
	for _, r := range results {
		if r.Field == FieldDirector {
			ids[r.Movie.ID] = true
		}
	}
	assert.True(t, ids["m1"])
	assert.True(t, ids["m2"])
}

func TestSearch_OneResultPerMovie(t *testing.T) {
	svc := newSearchFixture(t)

	// "s" matches every movie through several fields; each movie must
	// still appear at most once.
	results := svc.Filter("s")
	seen := make(map[string]int)
	for _, r := range results {
		seen[r.Movie.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "movie %s returned %d times", id, n)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newSearchFixture(t)
	assert.Nil(t, svc.Filter(""))
}

func TestSearch_TypoFallsBackToEditDistance(t *testing.T) {
	svc := newSearchFixture(t)

	// "solarris" is not a subsequence of any entry, so the edit
	// distance fallback has to rank it.
	results := svc.Filter("solarris")
	require.NotEmpty(t, results)
	assert.Equal(t, "m2", results[0].Movie.ID)
	assert.Equal(t, FieldTitle, results[0].Field)
}

func TestSearch_TypoBeyondCutoffFindsNothing(t *testing.T) {
	svc := newSearchFixture(t)
	assert.Empty(t, svc.Filter("zzzzqqqq"))
}

func TestSearch_ReindexReplacesEntries(t *testing.T) {
	repo := &fakeCatalog{movies: searchMovies}
	catalog := NewCatalogService(repo, nil, nil)
	svc := NewSearchService(catalog, nil)

	ctx := context.Background()
	require.NoError(t, svc.Reindex(ctx))
	assert.Equal(t, 9, svc.IndexCount())

	repo.movies = searchMovies[:1]
	_, err := catalog.Refresh(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Reindex(ctx))
	assert.Equal(t, 3, svc.IndexCount())

	assert.Empty(t, svc.Filter("wenders"))
}
