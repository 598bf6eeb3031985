package list

import "github.com/noah-isme/sma-adp-console/internal/schema"

// Page is the canonical paginated result every list response normalises to.
// PageIndex is zero-based.
type Page struct {
	Items         []schema.Entity
	PageIndex     int
	PageSize      int
	TotalElements int
	TotalPages    int
}

// FilterState holds the client-side search and dropdown filter selection.
// It only narrows the already-fetched page, it never triggers a new request.
type FilterState struct {
	SearchText   string
	FieldFilters map[string]string
}

// Store caches the most recently fetched page and the active filter state.
// It performs no I/O and trusts the controller to hand it well-formed pages.
type Store struct {
	page    Page
	filters FilterState
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{filters: ResetState()}
}

// Load replaces the cached items and pagination metadata.
func (s *Store) Load(page Page) {
	s.page = page
}

// CurrentItems returns the cached entities. Callers must not mutate the
// returned slice; replacement goes through Load.
func (s *Store) CurrentItems() []schema.Entity {
	return s.page.Items
}

// CurrentPage returns the cached pagination metadata.
func (s *Store) CurrentPage() Page {
	return s.page
}

// Filters returns the active filter state.
func (s *Store) Filters() FilterState {
	return s.filters
}

// SetSearch updates the free-text search term.
func (s *Store) SetSearch(text string) {
	s.filters.SearchText = text
}

// SetFieldFilter updates one dropdown filter. An empty value clears it.
func (s *Store) SetFieldFilter(key, value string) {
	if s.filters.FieldFilters == nil {
		s.filters.FieldFilters = make(map[string]string)
	}
	if value == "" {
		delete(s.filters.FieldFilters, key)
		return
	}
	s.filters.FieldFilters[key] = value
}

// ResetFilters restores the pristine filter state.
func (s *Store) ResetFilters() {
	s.filters = ResetState()
}

// Reset clears cached items and resets pagination to the first page.
func (s *Store) Reset() {
	s.page = Page{PageIndex: 0, PageSize: s.page.PageSize}
}
