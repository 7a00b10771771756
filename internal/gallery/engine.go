// Package gallery holds the filter/sort engine behind the public gallery view
// and the modal viewer state machine paired with it. Both operate on plain
// painting slices and never touch the database; handlers feed them a fresh
// read per request. Neither type is safe for concurrent use.
package gallery

import (
	"sort"

	"github.com/aquarela/backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the gallery ordering.
type SortMode string

const (
	SortOriginal SortMode = "order"     // display_order ascending
	SortYearAsc  SortMode = "year-asc"  // oldest first
	SortYearDesc SortMode = "year-desc" // newest first
	SortTitle    SortMode = "title"     // alphabetical, locale-aware
)

// ParseSortMode maps a query-string value onto a SortMode, defaulting to the
// original display order for anything unrecognized.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortYearAsc, SortYearDesc, SortTitle:
		return SortMode(s)
	default:
		return SortOriginal
	}
}

// KeywordCount is one entry of the AI-keyword filter vocabulary. Count is
// always taken against the unfiltered source list so the numbers stay stable
// while filters are toggled.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Engine turns the full painting list plus the active filter/sort criteria
// into the ordered view actually shown. The source list is copied in and
// never mutated; View always returns a fresh slice.
type Engine struct {
	source   []models.Painting
	category string
	keywords map[string]bool
	sortMode SortMode
	collator *collate.Collator
}

func NewEngine(paintings []models.Painting) *Engine {
	e := &Engine{
		keywords: make(map[string]bool),
		sortMode: SortOriginal,
		collator: collate.New(language.Portuguese),
	}
	e.SetSource(paintings)
	return e
}

// SetSource replaces the underlying painting list.
func (e *Engine) SetSource(paintings []models.Painting) {
	e.source = make([]models.Painting, len(paintings))
	copy(e.source, paintings)
}

// SetCategory activates a single category filter; empty string means all.
func (e *Engine) SetCategory(category string) {
	e.category = category
}

// Category returns the active category filter.
func (e *Engine) Category() string {
	return e.category
}

// ToggleKeyword flips one keyword in the active set.
func (e *Engine) ToggleKeyword(keyword string) {
	if e.keywords[keyword] {
		delete(e.keywords, keyword)
	} else {
		e.keywords[keyword] = true
	}
}

// SetKeywords replaces the active keyword set.
func (e *Engine) SetKeywords(keywords []string) {
	e.keywords = make(map[string]bool, len(keywords))
	for _, k := range keywords {
		if k != "" {
			e.keywords[k] = true
		}
	}
}

// ClearKeywords deactivates all keyword filters.
func (e *Engine) ClearKeywords() {
	e.keywords = make(map[string]bool)
}

// SetSort selects the ordering applied to the view.
func (e *Engine) SetSort(mode SortMode) {
	e.sortMode = mode
}

func (e *Engine) matches(p *models.Painting) bool {
	if e.category != "" && p.Category != e.category {
		return false
	}
	if len(e.keywords) == 0 {
		return true
	}
	// OR semantics: any one active keyword qualifies.
	for k := range e.keywords {
		if p.HasKeyword(k) {
			return true
		}
	}
	return false
}

// View computes the filtered, sorted list. An empty source or a filter
// combination with zero matches yields an empty slice, not an error.
func (e *Engine) View() []models.Painting {
	view := make([]models.Painting, 0, len(e.source))
	for i := range e.source {
		if e.matches(&e.source[i]) {
			view = append(view, e.source[i])
		}
	}

	switch e.sortMode {
	case SortYearAsc:
		sort.SliceStable(view, func(i, j int) bool {
			if view[i].SortYear() != view[j].SortYear() {
				return view[i].SortYear() < view[j].SortYear()
			}
			return view[i].CreatedAt.Before(view[j].CreatedAt)
		})
	case SortYearDesc:
		sort.SliceStable(view, func(i, j int) bool {
			if view[i].SortYear() != view[j].SortYear() {
				return view[i].SortYear() > view[j].SortYear()
			}
			return view[i].CreatedAt.After(view[j].CreatedAt)
		})
	case SortTitle:
		sort.SliceStable(view, func(i, j int) bool {
			return e.collator.CompareString(view[i].Title, view[j].Title) < 0
		})
	default:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].DisplayOrder < view[j].DisplayOrder
		})
	}

	return view
}

// Keywords derives the filter vocabulary: the union of every painting's
// ai_keywords, deduplicated and sorted alphabetically. Counts are computed
// against the unfiltered source list regardless of active filters, and a
// keyword counts once per painting no matter how often it is repeated.
func (e *Engine) Keywords() []KeywordCount {
	counts := make(map[string]int)
	for i := range e.source {
		seen := make(map[string]bool, len(e.source[i].AIKeywords))
		for _, k := range e.source[i].AIKeywords {
			if seen[k] {
				continue
			}
			seen[k] = true
			counts[k]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KeywordCount{Keyword: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return e.collator.CompareString(out[i].Keyword, out[j].Keyword) < 0
	})
	return out
}

// IndexOf returns the position of the painting with the given id inside the
// current view, or -1 when it is filtered out or unknown.
func (e *Engine) IndexOf(id uuid.UUID) int {
	for i, p := range e.View() {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Neighbors returns the paintings before and after the given id in the
// current view. Either may be nil at the view bounds or when the id is not
// part of the view.
func (e *Engine) Neighbors(id uuid.UUID) (prev, next *models.Painting) {
	view := e.View()
	for i := range view {
		if view[i].ID == id {
			if i > 0 {
				prev = &view[i-1]
			}
			if i < len(view)-1 {
				next = &view[i+1]
			}
			return prev, next
		}
	}
	return nil, nil
}
