package tui

import (
	"github.com/mdoering/marquee/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogLoadedMsg signals that the movie catalog has been loaded
type CatalogLoadedMsg struct {
	Movies []*domain.Movie
}

// FavoritesRefreshedMsg signals that the favorites view was rebuilt
type FavoritesRefreshedMsg struct {
	Favorites []*domain.Movie
}

// FavoriteToggledMsg signals the outcome of a favorite toggle
type FavoriteToggledMsg struct {
	MovieID    string
	Title      string
	IsFavorite bool
}

// LoggedInMsg signals a successful login
type LoggedInMsg struct {
	Session domain.Session
}

// RegisteredMsg signals a successful signup
type RegisteredMsg struct {
	Username string
}

// ProfileUpdatedMsg signals that the profile was saved
type ProfileUpdatedMsg struct {
	User domain.User
}

// AccountDeletedMsg signals that the account was removed server-side
type AccountDeletedMsg struct{}

// LoggedOutMsg signals that the session was cleared
type LoggedOutMsg struct{}

// ServerClearedMsg signals that the saved server URL was forgotten;
// the app quits so the next start runs setup again
type ServerClearedMsg struct{}

// ThumbnailsLoadedMsg signals that the gallery thumbnail list is ready
type ThumbnailsLoadedMsg struct {
	Thumbnails []domain.ImageObject
}

// GalleryLoadedMsg signals that full images have been fetched and cached
type GalleryLoadedMsg struct {
	URLs map[string]string
}

// ImageUploadedMsg signals that an upload completed and its thumbnail
// appeared
type ImageUploadedMsg struct {
	Filename string
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}
