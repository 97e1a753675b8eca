package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moviesJSON = `[
	{
		"_id": "m1",
		"Title": "Stalker",
		"Description": "A guide leads two men through the Zone.",
		"ImagePath": "stalker.png",
		"Featured": true,
		"Genre": {"Name": "Science Fiction", "Description": "Speculative futures."},
		"Director": {"Name": "Andrei Tarkovsky", "Bio": "Soviet filmmaker.", "Birth": "1932-04-04", "Death": "1986-12-29"}
	},
	{
		"_id": "m2",
		"Title": "Paris, Texas",
		"Description": "A drifter reunites with his family.",
		"ImagePath": "paris-texas.png",
		"Genre": {"Name": "Drama", "Description": "Character-driven stories."},
		"Director": {"Name": "Wim Wenders", "Bio": "German filmmaker.", "Birth": "1945-08-14"}
	}
]`

func TestListMovies(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies", r.URL.Path)
		w.Write([]byte(moviesJSON))
	}))

	movies, err := client.ListMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)

	stalker := movies[0]
	assert.Equal(t, "m1", stalker.ID)
	assert.Equal(t, "Stalker", stalker.Title)
	assert.Equal(t, "stalker.png", stalker.ImageRef)
	assert.True(t, stalker.Featured)
	assert.Equal(t, "Science Fiction", stalker.Genre.Name)
	assert.Equal(t, "Andrei Tarkovsky", stalker.Director.Name)
	assert.Equal(t, 1932, stalker.Director.BirthYear)
	assert.Equal(t, 1986, stalker.Director.DeathYear)

	// No death date means still alive
	assert.Equal(t, 0, movies[1].Director.DeathYear)
}

func TestGetMovieByTitle_EscapesPath(t *testing.T) {
	var gotPath string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"_id":"m2","Title":"Paris, Texas"}`))
	}))

	movie, err := client.GetMovieByTitle(context.Background(), "Paris, Texas")
	require.NoError(t, err)

	assert.Equal(t, "/movies/title/Paris,%20Texas", gotPath)
	assert.Equal(t, "Paris, Texas", movie.Title)
}

func TestGetMoviesByDirector(t *testing.T) {
	var gotPath string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(moviesJSON))
	}))

	movies, err := client.GetMoviesByDirector(context.Background(), "Wim Wenders")
	require.NoError(t, err)

	assert.Equal(t, "/movies/director/Wim Wenders", gotPath)
	assert.Len(t, movies, 2)
}

func TestGetMoviesByGenre(t *testing.T) {
	var gotPath string
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(moviesJSON))
	}))

	movies, err := client.GetMoviesByGenre(context.Background(), "Drama")
	require.NoError(t, err)

	assert.Equal(t, "/movies/genre/Drama", gotPath)
	assert.Len(t, movies, 2)
}
