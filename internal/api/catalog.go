package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mdoering/marquee/internal/domain"
)

// ListMovies returns the full catalog via GET movies.
func (c *Client) ListMovies(ctx context.Context) ([]*domain.Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "movies", nil, true)
	if err != nil {
		return nil, err
	}

	var dtos []movieDTO
	if err := decode(body, &dtos); err != nil {
		return nil, err
	}

	return mapMovies(dtos), nil
}

// GetMovieByTitle returns a single movie via GET movies/title/{title}.
func (c *Client) GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "movies/title/"+url.PathEscape(title), nil, true)
	if err != nil {
		return nil, err
	}

	var dto movieDTO
	if err := decode(body, &dto); err != nil {
		return nil, err
	}

	return dto.toDomain(), nil
}

// GetMoviesByDirector returns the named director's movies via
// GET movies/director/{name}.
func (c *Client) GetMoviesByDirector(ctx context.Context, name string) ([]*domain.Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "movies/director/"+url.PathEscape(name), nil, true)
	if err != nil {
		return nil, err
	}

	var dtos []movieDTO
	if err := decode(body, &dtos); err != nil {
		return nil, err
	}

	return mapMovies(dtos), nil
}

// GetMoviesByGenre returns the named genre's movies via
// GET movies/genre/{name}.
func (c *Client) GetMoviesByGenre(ctx context.Context, name string) ([]*domain.Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "movies/genre/"+url.PathEscape(name), nil, true)
	if err != nil {
		return nil, err
	}

	var dtos []movieDTO
	if err := decode(body, &dtos); err != nil {
		return nil, err
	}

	return mapMovies(dtos), nil
}
