package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/mdoering/marquee/internal/domain"
)

// SearchField names the movie attribute a filter entry was built from.
type SearchField string

const (
	FieldTitle    SearchField = "title"
	FieldDirector SearchField = "director"
	FieldGenre    SearchField = "genre"
)

// FilterItem is one searchable entry in the filter index. A movie
// contributes up to three entries: its title, its director and its
// genre.
type FilterItem struct {
	Movie *domain.Movie
	Text  string // the display text that was matched
	Field SearchField
}

// FilterResult is a match with the metadata the list view needs for
// highlighting.
type FilterResult struct {
	FilterItem
	MatchedIndexes []int
	Score          int
}

// filterIndex implements sahilm/fuzzy.Source over pre-lowercased text.
type filterIndex struct {
	items     []FilterItem
	lowerText []string
}

func (idx *filterIndex) String(i int) string { return idx.lowerText[i] }
func (idx *filterIndex) Len() int            { return len(idx.items) }

// SearchService handles fuzzy search across the catalog. The index is
// rebuilt whenever the catalog refreshes; searches never touch the
// server.
type SearchService struct {
	catalog *CatalogService
	logger  *slog.Logger

	mu      sync.RWMutex
	index   *filterIndex
	indexed map[string]bool // "field:id" keys already in the index
}

// NewSearchService creates a new search service
func NewSearchService(catalog *CatalogService, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		catalog: catalog,
		logger:  logger,
		index:   &filterIndex{},
		indexed: make(map[string]bool),
	}
}

// Reindex rebuilds the filter index from the current catalog.
func (s *SearchService) Reindex(ctx context.Context) error {
	movies, err := s.catalog.Movies(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = &filterIndex{}
	s.indexed = make(map[string]bool)
	for _, movie := range movies {
		s.addLocked(movie, movie.Title, FieldTitle)
		s.addLocked(movie, movie.Director.Name, FieldDirector)
		s.addLocked(movie, movie.Genre.Name, FieldGenre)
	}

	s.logger.Debug("search index rebuilt", "entries", s.index.Len(), "movies", len(movies))
	return nil
}

func (s *SearchService) addLocked(movie *domain.Movie, text string, field SearchField) {
	if text == "" {
		return
	}
	key := string(field) + ":" + movie.ID
	if s.indexed[key] {
		return
	}
	s.indexed[key] = true
	s.index.items = append(s.index.items, FilterItem{Movie: movie, Text: text, Field: field})
	s.index.lowerText = append(s.index.lowerText, strings.ToLower(text))
}

// Filter performs fuzzy search against the index, returning matches
// with highlight positions. At most one result per movie is returned,
// keeping the best-scoring field.
func (s *SearchService) Filter(query string) []FilterResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" || s.index.Len() == 0 {
		return nil
	}

	matches := sahilm.FindFrom(strings.ToLower(query), s.index)

	best := make(map[string]int, len(matches)) // movie ID -> result index
	results := make([]FilterResult, 0, len(matches))
	for _, match := range matches {
		item := s.index.items[match.Index]
		if _, seen := best[item.Movie.ID]; seen {
			continue // matches arrive best-first
		}
		best[item.Movie.ID] = len(results)
		results = append(results, FilterResult{
			FilterItem:     item,
			MatchedIndexes: match.MatchedIndexes,
			Score:          match.Score,
		})
	}

	if len(results) == 0 {
		return s.nearestLocked(strings.ToLower(query))
	}
	return results
}

// nearestLocked handles queries the subsequence matcher rejects,
// typically typos. Entries are ranked by edit distance, with a cutoff
// proportional to the query length. Caller holds at least a read lock.
func (s *SearchService) nearestLocked(query string) []FilterResult {
	type ranked struct {
		item FilterItem
		dist int
	}

	limit := len(query)/3 + 1
	var near []ranked
	for i, text := range s.index.lowerText {
		dist := fuzzy.LevenshteinDistance(query, text)
		if dist > limit {
			continue
		}
		near = append(near, ranked{item: s.index.items[i], dist: dist})
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })

	seen := make(map[string]bool, len(near))
	results := make([]FilterResult, 0, len(near))
	for _, r := range near {
		if seen[r.item.Movie.ID] {
			continue
		}
		seen[r.item.Movie.ID] = true
		results = append(results, FilterResult{FilterItem: r.item, Score: r.dist})
	}
	return results
}

// IndexCount returns the number of entries in the filter index.
func (s *SearchService) IndexCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}
