package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/service"
	"github.com/mdoering/marquee/internal/session"
	"github.com/mdoering/marquee/internal/tui/components"
)

// ApplicationState represents the current screen
type ApplicationState int

const (
	StateLogin ApplicationState = iota
	StateRegister
	StateBrowsing
	StateDetail
	StateProfile
	StateEditProfile
	StateUpload
	StateHelp
	StateConfirmLogout
	StateConfirmDelete
)

const statusDuration = 4 * time.Second

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	// Services
	Account      domain.AccountRepository
	Session      *session.Store
	CatalogSvc   *service.CatalogService
	FavoritesSvc *service.FavoritesService
	GallerySvc   *service.GalleryService
	SearchSvc    *service.SearchService

	// UI components
	List         components.MovieList
	LoginForm    components.Form
	RegisterForm components.Form
	ProfileForm  components.Form
	UploadForm   components.Form

	// Data
	Detail      *domain.Movie
	Thumbnails  []domain.ImageObject
	GalleryURLs map[string]string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	SpinnerFrame int

	// Where to return after detail/help
	prevState ApplicationState
}

// NewModel creates a new application model
func NewModel(
	account domain.AccountRepository,
	sess *session.Store,
	catalogSvc *service.CatalogService,
	favoritesSvc *service.FavoritesService,
	gallerySvc *service.GalleryService,
	searchSvc *service.SearchService,
) Model {
	state := StateLogin
	if current := sess.Current(); current.Valid() {
		state = StateBrowsing
	}

	m := Model{
		State:        state,
		Account:      account,
		Session:      sess,
		CatalogSvc:   catalogSvc,
		FavoritesSvc: favoritesSvc,
		GallerySvc:   gallerySvc,
		SearchSvc:    searchSvc,
		List:         components.NewMovieList(favoritesSvc.IsFavorite, searchSvc.Filter),
		LoginForm:    newLoginForm(),
		RegisterForm: newRegisterForm(),
		ProfileForm:  newProfileForm(),
		UploadForm:   newUploadForm(),
		GalleryURLs:  make(map[string]string),
	}
	if state == StateBrowsing {
		m.Loading = true
	}
	return m
}

func newLoginForm() components.Form {
	return components.NewForm("Log in", []components.FormField{
		{Label: "Username"},
		{Label: "Password", Secret: true},
	})
}

func newRegisterForm() components.Form {
	return components.NewForm("Create account", []components.FormField{
		{Label: "Username"},
		{Label: "Password", Secret: true},
		{Label: "Email"},
		{Label: "Birthday"},
	})
}

func newProfileForm() components.Form {
	return components.NewForm("Edit profile", []components.FormField{
		{Label: "Username"},
		{Label: "Password", Secret: true},
		{Label: "Email"},
		{Label: "Birthday"},
	})
}

func newUploadForm() components.Form {
	return components.NewForm("Upload image", []components.FormField{
		{Label: "File path"},
	})
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(100 * time.Millisecond)}
	if m.State == StateBrowsing {
		cmds = append(cmds, LoadCatalogCmd(m.CatalogSvc))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.List.SetSize(msg.Width, msg.Height-chromeHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.SpinnerFrame++
		if m.Loading {
			return m, TickCmd(100 * time.Millisecond)
		}
		return m, TickCmd(500 * time.Millisecond)

	case ErrMsg:
		m.Loading = false
		return m.withStatus(friendlyError(msg), true)

	case CatalogLoadedMsg:
		m.Loading = false
		m.List.SetMovies(msg.Movies)
		return m, tea.Batch(
			RefreshFavoritesCmd(m.FavoritesSvc),
			ReindexCmd(m.SearchSvc),
		)

	case FavoritesRefreshedMsg:
		m.List.Refilter()
		return m, nil

	case FavoriteToggledMsg:
		m.List.Refilter()
		verb := "removed from"
		if msg.IsFavorite {
			verb = "added to"
		}
		return m.withStatus("\""+msg.Title+"\" "+verb+" favorites", false)

	case LoggedInMsg:
		m.State = StateBrowsing
		m.Loading = true
		m.LoginForm.Reset()
		return m, LoadCatalogCmd(m.CatalogSvc)

	case RegisteredMsg:
		m.State = StateLogin
		m.RegisterForm.Reset()
		return m.withStatus("Account created, log in to continue", false)

	case ProfileUpdatedMsg:
		m.State = StateProfile
		m.ProfileForm.Reset()
		return m.withStatus("Profile saved", false)

	case ServerClearedMsg:
		// Setup runs again on the next start
		return m, tea.Quit

	case AccountDeletedMsg, LoggedOutMsg:
		m.State = StateLogin
		m.Detail = nil
		m.Thumbnails = nil
		m.GalleryURLs = make(map[string]string)
		m.List.SetMovies(nil)
		return m.withStatus("Signed out", false)

	case ThumbnailsLoadedMsg:
		m.Loading = false
		m.Thumbnails = msg.Thumbnails
		return m, LoadGalleryCmd(m.GallerySvc)

	case GalleryLoadedMsg:
		m.GalleryURLs = msg.URLs
		return m, nil

	case ImageUploadedMsg:
		m.Loading = false
		m.State = StateProfile
		m.UploadForm.Reset()
		return m, tea.Batch(
			statusCmd("Uploaded "+msg.Filename, false),
			LoadThumbnailsCmd(m.GallerySvc),
		)

	case StatusMsg:
		return m.withStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.State {
	case StateLogin:
		return m.updateLogin(msg)
	case StateRegister:
		return m.updateRegister(msg)
	case StateBrowsing:
		return m.updateBrowsing(msg)
	case StateDetail:
		return m.updateDetail(msg)
	case StateProfile:
		return m.updateProfile(msg)
	case StateEditProfile:
		return m.updateEditProfile(msg)
	case StateUpload:
		return m.updateUpload(msg)
	case StateHelp:
		if msg.String() == "esc" || msg.String() == "?" || msg.String() == "q" {
			m.State = m.prevState
		}
		return m, nil
	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateLogin
			return m, LogoutCmd(m.Session)
		case key.Matches(msg, Keys.Deny):
			m.State = StateProfile
		}
		return m, nil
	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return m, DeleteAccountCmd(m.Account, m.Session)
		case key.Matches(msg, Keys.Deny):
			m.State = StateProfile
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "ctrl+r":
		m.State = StateRegister
		return m, nil
	case "ctrl+s":
		return m, ChangeServerCmd(m.Session)
	}

	var cmd tea.Cmd
	var submitted bool
	m.LoginForm, cmd, submitted = m.LoginForm.Update(msg)
	if !submitted {
		return m, cmd
	}

	values := m.LoginForm.Values()
	creds := domain.Credentials{Username: values[0], Password: values[1]}
	if creds.Username == "" || creds.Password == "" {
		m.LoginForm.SetError("Username and password are required")
		return m, nil
	}

	m.Loading = true
	return m, LoginCmd(m.Account, m.Session, creds)
}

func (m Model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.State = StateLogin
		m.RegisterForm.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.RegisterForm, cmd, submitted = m.RegisterForm.Update(msg)
	if !submitted {
		return m, cmd
	}

	values := m.RegisterForm.Values()
	reg := domain.Registration{
		Username: values[0],
		Password: values[1],
		Email:    values[2],
		Birthday: values[3],
	}
	if reg.Username == "" || reg.Password == "" {
		m.RegisterForm.SetError("Username and password are required")
		return m, nil
	}

	m.Loading = true
	return m, RegisterCmd(m.Account, reg)
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// the filter input owns the keyboard while open
	if m.List.Filtering() {
		var cmd tea.Cmd
		m.List, cmd = m.List.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	case key.Matches(msg, Keys.Filter):
		m.List.StartFilter()
		return m, nil
	case key.Matches(msg, Keys.Escape):
		m.List.ClearFilter()
		return m, nil
	case key.Matches(msg, Keys.Enter):
		if movie := m.List.Selected(); movie != nil {
			m.Detail = movie
			m.prevState = StateBrowsing
			m.State = StateDetail
		}
		return m, nil
	case key.Matches(msg, Keys.Favorite):
		if movie := m.List.Selected(); movie != nil {
			return m, ToggleFavoriteCmd(m.FavoritesSvc, movie)
		}
		return m, nil
	case key.Matches(msg, Keys.Favorites):
		m.List.ToggleFavoritesOnly()
		return m, nil
	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, RefreshCatalogCmd(m.CatalogSvc)
	case key.Matches(msg, Keys.Profile):
		m.State = StateProfile
		m.Loading = true
		return m, LoadThumbnailsCmd(m.GallerySvc)
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Quit):
		m.State = StateBrowsing
		m.Detail = nil
		return m, nil
	case key.Matches(msg, Keys.Favorite):
		if m.Detail != nil {
			return m, ToggleFavoriteCmd(m.FavoritesSvc, m.Detail)
		}
	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
	}
	return m, nil
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Quit):
		m.State = StateBrowsing
		return m, nil
	case key.Matches(msg, Keys.EditProfile):
		user := m.Session.Current().User
		m.ProfileForm.Reset()
		m.ProfileForm.SetValue(0, user.Username)
		m.ProfileForm.SetValue(2, user.Email)
		m.ProfileForm.SetValue(3, user.Birthday)
		m.State = StateEditProfile
		return m, nil
	case key.Matches(msg, Keys.Upload):
		m.UploadForm.Reset()
		m.State = StateUpload
		return m, nil
	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, tea.Batch(
			RefreshFavoritesCmd(m.FavoritesSvc),
			LoadThumbnailsCmd(m.GallerySvc),
		)
	case key.Matches(msg, Keys.Logout):
		m.State = StateConfirmLogout
		return m, nil
	case key.Matches(msg, Keys.DeleteAccount):
		m.State = StateConfirmDelete
		return m, nil
	case key.Matches(msg, Keys.Help):
		m.prevState = m.State
		m.State = StateHelp
		return m, nil
	}
	return m, nil
}

func (m Model) updateEditProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.State = StateProfile
		m.ProfileForm.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.ProfileForm, cmd, submitted = m.ProfileForm.Update(msg)
	if !submitted {
		return m, cmd
	}

	values := m.ProfileForm.Values()
	update := domain.ProfileUpdate{
		Username: values[0],
		Password: values[1],
		Email:    values[2],
		Birthday: values[3],
	}

	m.Loading = true
	return m, UpdateProfileCmd(m.Account, m.Session, update)
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.State = StateProfile
		m.UploadForm.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	var submitted bool
	m.UploadForm, cmd, submitted = m.UploadForm.Update(msg)
	if !submitted {
		return m, cmd
	}

	path := m.UploadForm.Values()[0]
	if path == "" {
		m.UploadForm.SetError("File path is required")
		return m, nil
	}

	m.Loading = true
	return m, UploadFileCmd(m.GallerySvc, path)
}

func (m Model) withStatus(message string, isErr bool) (tea.Model, tea.Cmd) {
	m.StatusMsg = message
	m.StatusIsErr = isErr
	return m, ClearStatusCmd(statusDuration)
}

func statusCmd(message string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: message, IsError: isErr}
	}
}

// friendlyError maps the client's error taxonomy to user-facing text
func friendlyError(msg ErrMsg) string {
	err := msg.Err

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return validation.Message()
	}

	switch {
	case errors.Is(err, domain.ErrServerUnreachable):
		return "Cannot reach the server, check your connection"
	case errors.Is(err, domain.ErrAuthFailed):
		return "Invalid username or password"
	case errors.Is(err, domain.ErrRetryExhausted):
		return "The image did not finish processing, try refreshing later"
	case errors.Is(err, domain.ErrNoSession):
		return "You are not logged in"
	}

	var unsupported *domain.UnsupportedImageError
	if errors.As(err, &unsupported) {
		return "Unsupported image type " + unsupported.ContentType
	}

	return msg.Error()
}
