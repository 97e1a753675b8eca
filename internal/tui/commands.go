package tui

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdoering/marquee/internal/config"
	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/service"
	"github.com/mdoering/marquee/internal/session"
)

// Command factories for async operations

// LoadCatalogCmd loads the movie catalog through the cache
func LoadCatalogCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movies, err := svc.Movies(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading catalog"}
		}
		return CatalogLoadedMsg{Movies: movies}
	}
}

// RefreshCatalogCmd forces a server fetch, replacing both cache layers
func RefreshCatalogCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		movies, err := svc.Refresh(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "refreshing catalog"}
		}
		return CatalogLoadedMsg{Movies: movies}
	}
}

// RefreshFavoritesCmd rebuilds the favorites view from the server
func RefreshFavoritesCmd(svc *service.FavoritesService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return FavoritesRefreshedMsg{Favorites: svc.Refresh(ctx)}
	}
}

// ToggleFavoriteCmd flips a movie's favorite membership
func ToggleFavoriteCmd(svc *service.FavoritesService, movie *domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		isFavorite, err := svc.Toggle(ctx, movie.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating favorites"}
		}
		return FavoriteToggledMsg{MovieID: movie.ID, Title: movie.Title, IsFavorite: isFavorite}
	}
}

// LoginCmd exchanges credentials for a session and persists it
func LoginCmd(repo domain.AccountRepository, sess *session.Store, creds domain.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := repo.Login(ctx, creds)
		if err != nil {
			return ErrMsg{Err: err, Context: "logging in"}
		}
		if err := sess.SetSession(result.User, result.Token); err != nil {
			return ErrMsg{Err: err, Context: "saving session"}
		}
		return LoggedInMsg{Session: *result}
	}
}

// RegisterCmd creates a new account
func RegisterCmd(repo domain.AccountRepository, reg domain.Registration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := repo.Register(ctx, reg); err != nil {
			return ErrMsg{Err: err, Context: "creating account"}
		}
		return RegisteredMsg{Username: reg.Username}
	}
}

// UpdateProfileCmd saves profile changes and stores the updated record
func UpdateProfileCmd(repo domain.AccountRepository, sess *session.Store, update domain.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := repo.UpdateProfile(ctx, update)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating profile"}
		}
		if err := sess.SetUser(*user); err != nil {
			return ErrMsg{Err: err, Context: "saving session"}
		}
		return ProfileUpdatedMsg{User: *user}
	}
}

// DeleteAccountCmd removes the account and destroys the local session
func DeleteAccountCmd(repo domain.AccountRepository, sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := repo.DeleteAccount(ctx); err != nil {
			return ErrMsg{Err: err, Context: "deleting account"}
		}
		sess.Destroy()
		return AccountDeletedMsg{}
	}
}

// LogoutCmd clears the local session
func LogoutCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		if err := sess.Clear(); err != nil {
			return ErrMsg{Err: err, Context: "logging out"}
		}
		return LoggedOutMsg{}
	}
}

// ChangeServerCmd clears the local session and forgets the saved
// server URL so setup can point at a different server
func ChangeServerCmd(sess *session.Store) tea.Cmd {
	return func() tea.Msg {
		if err := sess.Clear(); err != nil {
			return ErrMsg{Err: err, Context: "clearing session"}
		}
		if err := config.ClearServerConfig(); err != nil {
			return ErrMsg{Err: err, Context: "clearing server config"}
		}
		return ServerClearedMsg{}
	}
}

// LoadThumbnailsCmd lists the gallery thumbnails
func LoadThumbnailsCmd(svc *service.GalleryService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.LoadThumbnails(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading gallery"}
		}
		return ThumbnailsLoadedMsg{Thumbnails: svc.Thumbnails()}
	}
}

// LoadGalleryCmd downloads and caches the full images
func LoadGalleryCmd(svc *service.GalleryService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := svc.LoadImages(ctx); err != nil {
			return ErrMsg{Err: err, Context: "downloading images"}
		}

		urls := make(map[string]string)
		for _, thumb := range svc.Thumbnails() {
			if url, ok := svc.URL(thumb.Key); ok {
				urls[thumb.Key] = url
			}
		}
		return GalleryLoadedMsg{URLs: urls}
	}
}

// UploadImageCmd uploads a file and waits for its thumbnail to appear.
// The timeout covers the full backoff schedule.
func UploadImageCmd(svc *service.GalleryService, filename, contentType string, data []byte) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := svc.Upload(ctx, filename, contentType, data); err != nil {
			return ErrMsg{Err: err, Context: "uploading image"}
		}
		return ImageUploadedMsg{Filename: filename}
	}
}

// ReindexCmd rebuilds the search index from the cached catalog
func ReindexCmd(svc *service.SearchService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := svc.Reindex(ctx); err != nil {
			return ErrMsg{Err: err, Context: "indexing catalog"}
		}
		return nil
	}
}

// UploadFileCmd reads a local file and runs the upload workflow. The
// content type comes from the file extension; the server-side check
// still applies after upload.
func UploadFileCmd(svc *service.GalleryService, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "reading file"}
		}

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		return UploadImageCmd(svc, filepath.Base(path), contentType, data)()
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
