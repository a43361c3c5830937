package usecase

import (
	"sort"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// BrandSet is a set of canonical brand ids.
type BrandSet map[string]bool

// Sorted returns the brand ids in lexical order.
func (b BrandSet) Sorted() []string {
	out := make([]string, 0, len(b))
	for brand := range b {
		out = append(out, brand)
	}
	sort.Strings(out)
	return out
}

// BrandExtractor finds brand mentions in normalized text using an alias table.
type BrandExtractor struct {
	compound []domain.BrandAlias // multi-word aliases, checked first
	single   []domain.BrandAlias
}

// NewBrandExtractor builds an extractor. Aliases and brand ids are
// normalized so accented spellings ("ypê") resolve like plain ones.
func NewBrandExtractor(aliases []domain.BrandAlias) *BrandExtractor {
	e := &BrandExtractor{}
	for _, a := range aliases {
		alias := domain.BrandAlias{Alias: Normalize(a.Alias), Brand: Normalize(a.Brand)}
		if alias.Alias == "" || alias.Brand == "" {
			continue
		}
		if strings.Contains(alias.Alias, " ") {
			e.compound = append(e.compound, alias)
		} else {
			e.single = append(e.single, alias)
		}
	}
	return e
}

// Extract returns the brands mentioned in text. Matching is substring
// containment. Two-word brands such as "pinho sol" are looked up before the
// single-word aliases so a generic word cannot claim the mention first.
func (e *BrandExtractor) Extract(text string) BrandSet {
	brands := BrandSet{}
	for _, a := range e.compound {
		if strings.Contains(text, a.Alias) {
			brands[a.Brand] = true
		}
	}
	for _, a := range e.single {
		if strings.Contains(text, a.Alias) {
			brands[a.Brand] = true
		}
	}
	return brands
}
