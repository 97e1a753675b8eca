package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mdoering/marquee/internal/tui/styles"
)

// chromeHeight is the vertical space taken by the header and status bar
const chromeHeight = 4

// View renders the current screen
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}

	var body string
	switch m.State {
	case StateLogin:
		body = m.centered(m.LoginForm.View() + "\n" + styles.DimStyle.Render("ctrl+r create account · ctrl+s change server · esc quit"))
	case StateRegister:
		body = m.centered(m.RegisterForm.View())
	case StateBrowsing:
		body = m.browsingView()
	case StateDetail:
		body = m.detailView()
	case StateProfile:
		body = m.profileView()
	case StateEditProfile:
		body = m.centered(m.ProfileForm.View() + "\n" + styles.DimStyle.Render("empty fields keep their current value"))
	case StateUpload:
		body = m.centered(m.UploadForm.View())
	case StateHelp:
		body = m.centered(m.helpView())
	case StateConfirmLogout:
		body = m.centered(m.confirmView("Log out?"))
	case StateConfirmDelete:
		body = m.centered(m.confirmView("Delete this account? This cannot be undone."))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.statusView(),
	)
}

func (m Model) headerView() string {
	title := styles.TitleStyle.Render("marquee")

	var right string
	if current := m.Session.Current(); current.Valid() {
		right = styles.SubtitleStyle.Render(current.User.Username)
	}

	gap := m.Width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return styles.PanelStyle.Padding(0, 2).Render(
		title + strings.Repeat(" ", gap) + right,
	)
}

func (m Model) statusView() string {
	if m.Loading {
		frame := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
		return styles.PanelStyle.Padding(0, 2).Render(styles.SpinnerStyle.Render(frame) + " working...")
	}
	if m.StatusMsg != "" {
		style := styles.SuccessStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		return styles.PanelStyle.Padding(0, 2).Render(style.Render(m.StatusMsg))
	}
	return styles.PanelStyle.Padding(0, 2).Render(styles.DimStyle.Render("? help"))
}

func (m Model) browsingView() string {
	header := styles.SubtitleStyle.Render("Movies")
	if m.List.FavoritesOnly() {
		header = styles.AccentStyle.Render("Favorites")
	}
	return styles.PanelStyle.Render(header + "\n\n" + m.List.View())
}

func (m Model) detailView() string {
	if m.Detail == nil {
		return ""
	}
	movie := m.Detail

	mark := ""
	if m.FavoritesSvc.IsFavorite(movie.ID) {
		mark = " " + styles.FavoriteMark
	}
	if movie.Featured {
		mark += " " + styles.FeaturedMark
	}

	rows := []string{
		styles.TitleStyle.Render(movie.Title) + mark,
		"",
		styles.SubtitleStyle.Render(wrap(movie.Description, m.Width-12)),
		"",
		styles.DimStyle.Render("Genre     ") + movie.Genre.Name,
		styles.DimStyle.Render("Director  ") + movie.Director.Name,
	}
	if movie.Director.BirthYear > 0 {
		span := strconv.Itoa(movie.Director.BirthYear)
		if movie.Director.DeathYear > 0 {
			span += "-" + strconv.Itoa(movie.Director.DeathYear)
		}
		rows = append(rows, styles.DimStyle.Render("          ")+span)
	}
	if movie.Director.Bio != "" {
		rows = append(rows, "", styles.DimStyle.Render(wrap(movie.Director.Bio, m.Width-12)))
	}
	if movie.Genre.Description != "" {
		rows = append(rows, "", styles.DimStyle.Render(wrap(movie.Genre.Description, m.Width-12)))
	}
	rows = append(rows, "", styles.DimStyle.Render("f favorite · esc back"))

	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) profileView() string {
	user := m.Session.Current().User

	rows := []string{
		styles.TitleStyle.Render("Profile"),
		"",
		styles.DimStyle.Render("Username  ") + user.Username,
		styles.DimStyle.Render("Email     ") + user.Email,
		styles.DimStyle.Render("Birthday  ") + user.Birthday,
		"",
		styles.SubtitleStyle.Render("Favorites: " + strconv.Itoa(len(m.FavoritesSvc.Favorites()))),
	}

	for _, movie := range m.FavoritesSvc.Favorites() {
		rows = append(rows, "  "+styles.FavoriteMark+" "+movie.Title)
	}

	rows = append(rows, "", styles.SubtitleStyle.Render("Gallery: "+strconv.Itoa(len(m.Thumbnails))+" images"))
	for _, thumb := range m.Thumbnails {
		line := "  " + thumb.Key
		if url, ok := m.GalleryURLs[thumb.Key]; ok {
			line += "  " + styles.DimStyle.Render(url)
		}
		rows = append(rows, line)
	}

	rows = append(rows, "", styles.DimStyle.Render("e edit · u upload · r refresh · L logout · X delete account · esc back"))

	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) helpView() string {
	bindings := [][2]string{
		{"j/k", "move"},
		{"enter", "open movie"},
		{"/", "filter titles"},
		{"f", "toggle favorite"},
		{"F", "favorites only"},
		{"r", "refresh"},
		{"p", "profile"},
		{"?", "help"},
		{"q", "quit"},
	}

	rows := []string{styles.ModalTitleStyle.Render("Keys")}
	for _, b := range bindings {
		rows = append(rows, styles.HelpKeyStyle.Render(styles.Pad(b[0], 8))+styles.HelpDescStyle.Render(b[1]))
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) confirmView(question string) string {
	return styles.ModalStyle.Render(
		question + "\n\n" + styles.HelpKeyStyle.Render("y") + " yes   " + styles.HelpKeyStyle.Render("n") + " no",
	)
}

func (m Model) centered(content string) string {
	height := m.Height - chromeHeight
	if height < 1 {
		height = 1
	}
	return lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center, content)
}

// wrap breaks text into lines at word boundaries
func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}

	words := strings.Fields(text)
	var lines []string
	var line string
	for _, word := range words {
		if line == "" {
			line = word
			continue
		}
		if lipgloss.Width(line)+1+lipgloss.Width(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
