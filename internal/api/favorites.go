package api

import (
	"context"
	"net/http"

	"github.com/mdoering/marquee/internal/domain"
)

// GetFavorites returns the user's favorite movie IDs via
// GET users/{username}. A record without the FavoriteMovies field is a
// *domain.DataShapeError: the server contract promises the field, so its
// absence must not be read as an empty list.
func (c *Client) GetFavorites(ctx context.Context, username string) ([]string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "users/"+username, nil, true)
	if err != nil {
		return nil, err
	}

	var dto userDTO
	if err := decode(body, &dto); err != nil {
		return nil, err
	}
	if dto.FavoriteMovies == nil {
		return nil, &domain.DataShapeError{Field: "FavoriteMovies"}
	}

	return *dto.FavoriteMovies, nil
}

// AddFavorite adds the movie via PUT users/{username}/movies/add/{id}
// and returns the updated user record.
func (c *Client) AddFavorite(ctx context.Context, movieID string) (*domain.User, error) {
	username := c.tokens.Username()
	if username == "" {
		return nil, domain.ErrNoSession
	}

	body, err := c.doRequest(ctx, http.MethodPut, "users/"+username+"/movies/add/"+movieID, nil, true)
	if err != nil {
		return nil, err
	}

	user, err := decodeUpdatedUser(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("favorite added", "movieID", movieID, "username", username)
	return user, nil
}

// RemoveFavorite removes the movie via
// DELETE users/{username}/movies/remove/{id} and returns the updated
// user record.
func (c *Client) RemoveFavorite(ctx context.Context, movieID string) (*domain.User, error) {
	username := c.tokens.Username()
	if username == "" {
		return nil, domain.ErrNoSession
	}

	body, err := c.doRequest(ctx, http.MethodDelete, "users/"+username+"/movies/remove/"+movieID, nil, true)
	if err != nil {
		return nil, err
	}

	user, err := decodeUpdatedUser(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("favorite removed", "movieID", movieID, "username", username)
	return user, nil
}

// decodeUpdatedUser handles both response shapes the mutation endpoints
// use: {"user": {...}} and a bare user record.
func decodeUpdatedUser(body []byte) (*domain.User, error) {
	var wrapped favoriteResponse
	if decode(body, &wrapped) == nil && wrapped.User != nil {
		return wrapped.User.toDomain(), nil
	}

	var dto userDTO
	if err := decode(body, &dto); err != nil {
		return nil, err
	}
	if dto.Username == "" {
		return nil, &domain.DataShapeError{Field: "user"}
	}
	return dto.toDomain(), nil
}
