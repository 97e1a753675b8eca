package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/service"
	"github.com/mdoering/marquee/internal/tui/styles"
)

// listRow is one visible row: a movie plus the filter's match data.
// field/text describe which movie attribute matched, so non-title hits
// can be annotated next to the title.
type listRow struct {
	movie   *domain.Movie
	matched []int
	field   service.SearchField
	text    string
}

// MovieList is a scrollable, filterable movie list. Filtering goes
// through the search index, so titles, directors and genres all match;
// `/` opens the filter input, esc clears it.
type MovieList struct {
	movies []*domain.Movie
	rows   []listRow

	cursor int
	offset int
	width  int
	height int

	filtering     bool
	filter        textinput.Model
	search        func(string) []service.FilterResult
	isFavorite    func(string) bool
	favoritesOnly bool
}

// NewMovieList creates an empty movie list backed by the given search
// function
func NewMovieList(isFavorite func(string) bool, search func(string) []service.FilterResult) MovieList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = styles.FilterPromptStyle
	ti.CharLimit = 60

	return MovieList{
		filter:     ti,
		search:     search,
		isFavorite: isFavorite,
	}
}

// SetMovies replaces the backing catalog and re-applies the filter
func (l *MovieList) SetMovies(movies []*domain.Movie) {
	l.movies = movies
	l.applyFilter()
}

// SetSize updates the viewport dimensions
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.clampCursor()
}

// Selected returns the movie under the cursor, or nil when empty
func (l *MovieList) Selected() *domain.Movie {
	if l.cursor < 0 || l.cursor >= len(l.rows) {
		return nil
	}
	return l.rows[l.cursor].movie
}

// Filtering reports whether the filter input owns the keyboard
func (l *MovieList) Filtering() bool {
	return l.filtering
}

// StartFilter opens the filter input
func (l *MovieList) StartFilter() {
	l.filtering = true
	l.filter.Focus()
}

// ClearFilter closes and resets the filter
func (l *MovieList) ClearFilter() {
	l.filtering = false
	l.filter.Blur()
	l.filter.SetValue("")
	l.applyFilter()
}

// Refilter re-applies the current filter, for when favorite
// membership changes underneath the list
func (l *MovieList) Refilter() {
	l.applyFilter()
}

// ToggleFavoritesOnly flips the favorites-only view
func (l *MovieList) ToggleFavoritesOnly() {
	l.favoritesOnly = !l.favoritesOnly
	l.applyFilter()
}

// FavoritesOnly reports whether the favorites-only view is active
func (l *MovieList) FavoritesOnly() bool {
	return l.favoritesOnly
}

// Update handles key events. While the filter input is open, printable
// keys go to the input; enter keeps the filter and returns focus to the
// list.
func (l MovieList) Update(msg tea.Msg) (MovieList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	if l.filtering {
		switch keyMsg.String() {
		case "enter":
			l.filtering = false
			l.filter.Blur()
			return l, nil
		case "esc":
			l.ClearFilter()
			return l, nil
		}
		var cmd tea.Cmd
		l.filter, cmd = l.filter.Update(msg)
		l.applyFilter()
		return l, cmd
	}

	switch keyMsg.String() {
	case "k", "up":
		l.moveCursor(-1)
	case "j", "down":
		l.moveCursor(1)
	case "ctrl+u":
		l.moveCursor(-l.pageSize() / 2)
	case "ctrl+d":
		l.moveCursor(l.pageSize() / 2)
	case "g", "home":
		l.cursor = 0
		l.offset = 0
	case "G", "end":
		l.moveCursor(len(l.rows))
	}
	return l, nil
}

func (l *MovieList) moveCursor(delta int) {
	l.cursor += delta
	l.clampCursor()
}

func (l *MovieList) clampCursor() {
	if l.cursor >= len(l.rows) {
		l.cursor = len(l.rows) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}

	page := l.pageSize()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+page {
		l.offset = l.cursor - page + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *MovieList) pageSize() int {
	if l.height <= 0 {
		return 1
	}
	return l.height
}

func (l *MovieList) applyFilter() {
	var candidates []*domain.Movie
	if l.favoritesOnly && l.isFavorite != nil {
		for _, m := range l.movies {
			if l.isFavorite(m.ID) {
				candidates = append(candidates, m)
			}
		}
	} else {
		candidates = l.movies
	}

	query := strings.TrimSpace(l.filter.Value())
	if query == "" || l.search == nil {
		l.rows = make([]listRow, len(candidates))
		for i, m := range candidates {
			l.rows[i] = listRow{movie: m}
		}
	} else {
		visible := make(map[string]bool, len(candidates))
		for _, m := range candidates {
			visible[m.ID] = true
		}

		results := l.search(query)
		l.rows = make([]listRow, 0, len(results))
		for _, r := range results {
			if !visible[r.Movie.ID] {
				continue
			}
			l.rows = append(l.rows, listRow{
				movie:   r.Movie,
				matched: r.MatchedIndexes,
				field:   r.Field,
				text:    r.Text,
			})
		}
	}

	l.clampCursor()
}

// View renders the visible window of the list
func (l MovieList) View() string {
	var b strings.Builder

	if l.filtering || l.filter.Value() != "" {
		b.WriteString(l.filter.View())
		b.WriteString("\n")
	}

	if len(l.rows) == 0 {
		b.WriteString(styles.DimStyle.Render("  no movies"))
		return b.String()
	}

	end := l.offset + l.pageSize()
	if end > len(l.rows) {
		end = len(l.rows)
	}

	for i := l.offset; i < end; i++ {
		row := l.rows[i]
		selected := i == l.cursor

		mark := styles.NonFavoriteChar
		if l.isFavorite != nil && l.isFavorite(row.movie.ID) {
			mark = styles.FavoriteChar
		}

		title := row.movie.Title
		if l.width > 8 {
			title = styles.Truncate(title, l.width-8)
		}

		var label string
		switch row.field {
		case service.FieldDirector, service.FieldGenre:
			note := string(row.field) + ": " + renderHighlighted(row.text, row.matched, selected)
			label = title + styles.DimStyle.Render(" · "+note)
		default:
			label = renderHighlighted(title, row.matched, selected)
		}
		if row.movie.Featured {
			label += " " + styles.FeaturedMark
		}
		line := mark + " " + label

		if selected {
			line = styles.SelectedItemStyle.Render(line)
		} else {
			line = styles.NormalItemStyle.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderHighlighted styles the matched character positions
func renderHighlighted(text string, matched []int, selected bool) string {
	if len(matched) == 0 {
		return text
	}

	matchSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		matchSet[idx] = true
	}

	highlight := styles.MatchHighlightStyle
	if selected {
		highlight = styles.MatchHighlightSelectedStyle
	}

	var b strings.Builder
	for i, r := range []rune(text) {
		if matchSet[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
