package usecase

import (
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
)

// matchFacts carries the normalized text of one product name plus the
// brand and size facts derived from it, computed at most once per name.
type matchFacts struct {
	text      string
	extractor *BrandExtractor

	brands     BrandSet
	haveBrands bool
	size       PackageSize
	haveSize   bool
}

func (f *matchFacts) Brands() BrandSet {
	if !f.haveBrands {
		f.brands = f.extractor.Extract(f.text)
		f.haveBrands = true
	}
	return f.brands
}

func (f *matchFacts) Size() PackageSize {
	if !f.haveSize {
		f.size = ParseSize(f.text)
		f.haveSize = true
	}
	return f.size
}

// predicate is one rule of a catalog entry.
type predicate func(f *matchFacts) bool

type compiledEntry struct {
	key        domain.CanonicalKey
	predicates []predicate
}

func (e compiledEntry) matches(f *matchFacts) bool {
	for _, p := range e.predicates {
		if !p(f) {
			return false
		}
	}
	return true
}

// CatalogMatcher classifies free-text product names against a fixed catalog.
// Entries are tried in authoring order and the first full match wins.
type CatalogMatcher struct {
	catalog   domain.Catalog
	entries   []compiledEntry
	extractor *BrandExtractor
	logger    zerolog.Logger
}

// NewCatalogMatcher compiles every catalog entry into its predicate list.
func NewCatalogMatcher(catalog domain.Catalog, logger zerolog.Logger) *CatalogMatcher {
	m := &CatalogMatcher{
		catalog:   catalog,
		extractor: NewBrandExtractor(catalog.BrandAliases),
		logger:    logger.With().Str("component", "matcher").Logger(),
	}

	for _, section := range catalog.Sections {
		for _, entry := range section.Entries {
			m.entries = append(m.entries, compiledEntry{
				key:        domain.CanonicalKey{Section: section.Name, Product: entry.Key},
				predicates: compileEntry(entry),
			})
		}
	}

	return m
}

// compileEntry turns a declarative entry into predicates. Empty rules are
// vacuously true and are left out.
func compileEntry(entry domain.CatalogEntry) []predicate {
	var preds []predicate

	if must := normalizeTokens(entry.Must); len(must) > 0 {
		preds = append(preds, func(f *matchFacts) bool {
			return containsAll(f.text, must)
		})
	}

	if len(entry.AltAny) > 0 {
		groups := make([][]string, 0, len(entry.AltAny))
		for _, g := range entry.AltAny {
			groups = append(groups, normalizeTokens(g))
		}
		preds = append(preds, func(f *matchFacts) bool {
			for _, g := range groups {
				if containsAll(f.text, g) {
					return true
				}
			}
			return false
		})
	}

	if allowed := normalizeTokens(entry.BrandAny); len(allowed) > 0 {
		preds = append(preds, func(f *matchFacts) bool {
			brands := f.Brands()
			for _, b := range allowed {
				if brands[b] {
					return true
				}
			}
			return false
		})
	}

	spec := entry.Size
	switch spec.Dimension {
	case domain.SizeMass:
		preds = append(preds, func(f *matchFacts) bool {
			s := f.Size()
			return WithinTolerance(s.Grams, s.HasGrams, spec.Target, spec.Tolerance)
		})
	case domain.SizeVolume:
		preds = append(preds, func(f *matchFacts) bool {
			s := f.Size()
			return WithinTolerance(s.Milliliters, s.HasMilliliters, spec.Target, spec.Tolerance)
		})
	}

	return preds
}

// Match normalizes rawName and returns the first catalog entry it satisfies.
// The second result is false when no entry matches, which is the common case.
func (m *CatalogMatcher) Match(rawName string) (domain.CanonicalKey, bool) {
	return m.MatchNormalized(Normalize(rawName))
}

// MatchNormalized is Match for text that is already normalized.
func (m *CatalogMatcher) MatchNormalized(text string) (domain.CanonicalKey, bool) {
	if text == "" {
		return domain.CanonicalKey{}, false
	}

	facts := &matchFacts{text: text, extractor: m.extractor}
	for _, entry := range m.entries {
		if entry.matches(facts) {
			m.logger.Debug().Str("text", text).Str("key", entry.key.String()).Msg("catalog match")
			return entry.key, true
		}
	}

	return domain.CanonicalKey{}, false
}

// Catalog returns the catalog the matcher was built from.
func (m *CatalogMatcher) Catalog() domain.Catalog {
	return m.catalog
}

// containsAll reports whether every token is a substring of text.
func containsAll(text string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if n := Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
