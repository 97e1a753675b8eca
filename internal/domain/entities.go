package domain

import "time"

// Movie is a single catalog entry. Movies are read-only from the client's
// perspective; the server of record owns them.
type Movie struct {
	ID          string   // Server-assigned unique identifier
	Title       string   // Display title
	Description string   // Plot synopsis
	ImageRef    string   // Poster object reference on the server
	Genre       Genre    // Genre with its description
	Director    Director // Director with bio
	Featured    bool     // Highlighted on the server's landing view
}

// Genre describes a movie's genre classification.
type Genre struct {
	Name        string
	Description string
}

// Director describes a movie's director.
type Director struct {
	Name      string
	Bio       string
	BirthYear int
	DeathYear int // 0 if still alive
}

// User is the account record as returned by the server. FavoriteMovieIDs
// mirrors the server-side favorites list; the client never guesses
// membership from partial updates.
type User struct {
	Username         string
	Email            string
	Birthday         string // ISO date string, as the server stores it
	FavoriteMovieIDs []string
}

// HasFavorite reports whether the given movie ID is in the user's
// favorites as of the last server response.
func (u *User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovieIDs {
		if id == movieID {
			return true
		}
	}
	return false
}

// Session is the authenticated user's state: the last known user record
// plus the bearer token issued at login. Replaced wholesale on login and
// profile update, cleared on logout.
type Session struct {
	User  User
	Token string
}

// Valid reports whether the session carries a usable token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.Username != ""
}

// Credentials carries login form input.
type Credentials struct {
	Username string
	Password string
}

// Registration carries signup form input.
type Registration struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// ProfileUpdate carries the fields a user may change. Empty fields are
// omitted from the request body so the server keeps the current value.
type ProfileUpdate struct {
	Username string
	Password string
	Email    string
	Birthday string
}

// ImageObject is one stored image entry under a logical prefix
// (e.g. "thumbnail"). Key is opaque; listings with Size zero or a
// trailing slash are folder placeholders, not images.
type ImageObject struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// IsPlaceholder reports whether the entry is a prefix/folder marker
// rather than a real image.
func (o ImageObject) IsPlaceholder() bool {
	return o.Size == 0 || o.Key == "" || o.Key[len(o.Key)-1] == '/'
}
