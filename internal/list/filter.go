package list

import (
	"strings"

	"github.com/noah-isme/sma-adp-console/internal/schema"
)

// Engine derives the visible subset of a page from the filter state. Free
// text matches case-insensitively as a substring of the schema's searchable
// fields; dropdown filters match exactly after string normalisation.
type Engine struct {
	schema schema.Schema
}

// NewEngine builds a filter engine for one entity schema.
func NewEngine(s schema.Schema) *Engine {
	return &Engine{schema: s}
}

// Apply returns the items visible under the given state, preserving order.
// Filtering is purely in-memory over the current page.
func (e *Engine) Apply(items []schema.Entity, state FilterState) []schema.Entity {
	search := strings.ToLower(strings.TrimSpace(state.SearchText))
	if search == "" && len(state.FieldFilters) == 0 {
		return items
	}

	visible := make([]schema.Entity, 0, len(items))
	for _, item := range items {
		if !e.matchesSearch(item, search) {
			continue
		}
		if !matchesFilters(item, state.FieldFilters) {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

func (e *Engine) matchesSearch(item schema.Entity, search string) bool {
	if search == "" {
		return true
	}
	for _, key := range e.schema.SearchableKeys() {
		if strings.Contains(strings.ToLower(item.String(key)), search) {
			return true
		}
	}
	return false
}

func matchesFilters(item schema.Entity, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(item.String(key)), strings.TrimSpace(want)) {
			return false
		}
	}
	return true
}

// ResetState returns the pristine filter state.
func ResetState() FilterState {
	return FilterState{SearchText: "", FieldFilters: map[string]string{}}
}
