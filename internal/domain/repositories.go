package domain

import "context"

// TokenSource supplies the current session identity to the API client.
// Implementations must return live values at call time so a token
// rotation is picked up by the next request.
type TokenSource interface {
	// Token returns the current bearer token, or "" when logged out
	Token() string

	// Username returns the current account name, or "" when logged out
	Username() string
}

// AccountRepository covers registration, login and profile management.
type AccountRepository interface {
	// Register creates a new account. Field validation failures surface
	// as *ValidationError.
	Register(ctx context.Context, reg Registration) error

	// Login exchanges credentials for a user record and a bearer token.
	// The caller is responsible for persisting the session.
	Login(ctx context.Context, creds Credentials) (*Session, error)

	// GetUser fetches the current user's record
	GetUser(ctx context.Context) (*User, error)

	// UpdateProfile applies the given changes and returns the updated record
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)

	// DeleteAccount removes the account on the server
	DeleteAccount(ctx context.Context) error
}

// CatalogRepository provides read access to the movie catalog.
type CatalogRepository interface {
	// ListMovies returns the full catalog
	ListMovies(ctx context.Context) ([]*Movie, error)

	// GetMovieByTitle returns a single movie by exact title
	GetMovieByTitle(ctx context.Context, title string) (*Movie, error)

	// GetMoviesByDirector returns the movies directed by name
	GetMoviesByDirector(ctx context.Context, name string) ([]*Movie, error)

	// GetMoviesByGenre returns the movies in the named genre
	GetMoviesByGenre(ctx context.Context, name string) ([]*Movie, error)
}

// FavoritesRepository mutates and reads the server-side favorites list.
type FavoritesRepository interface {
	// GetFavorites returns the user's favorite movie IDs. A response
	// without the favorites field is a *DataShapeError, not an empty set.
	GetFavorites(ctx context.Context, username string) ([]string, error)

	// AddFavorite adds the movie and returns the updated user record
	AddFavorite(ctx context.Context, movieID string) (*User, error)

	// RemoveFavorite removes the movie and returns the updated user record
	RemoveFavorite(ctx context.Context, movieID string) (*User, error)
}

// ImageRepository provides access to stored profile images.
type ImageRepository interface {
	// ListImages returns the objects under a logical prefix
	ListImages(ctx context.Context, prefix string) ([]ImageObject, error)

	// GetImage downloads the binary body of an image
	GetImage(ctx context.Context, key string) (data []byte, contentType string, err error)

	// UploadImage posts the file as multipart form field "image".
	// Server-side processing is asynchronous: the image may not appear
	// in ListImages immediately.
	UploadImage(ctx context.Context, filename string, data []byte) error
}
