package usecase

import (
	"strings"
	"unicode"

	"github.com/pricelens/backend/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Punctuation kept by the normalizers besides letters, digits and spaces.
const (
	catalogPunctuation  = "xµ/.-"
	freeTextPunctuation = "xµ/.-_,+"
)

// stopWords are dropped from free-text keys: units, connectors and
// promotional boilerplate found on product cards and flyers.
var stopWords = map[string]bool{
	// units
	"kg": true, "g": true, "gr": true, "grs": true, "ml": true, "l": true, "lt": true,
	"un": true, "und": true, "unid": true, "unidade": true, "pct": true, "pc": true,
	"cx": true,
	// connectors
	"de": true, "da": true, "do": true, "das": true, "dos": true, "e": true,
	"com": true, "sem": true, "para": true, "p/": true, "c/": true, "s/": true,
	"em": true, "a": true, "o": true,
	// promotional
	"promo": true, "promocao": true, "oferta": true, "ofertas": true, "leve": true,
	"pague": true, "apenas": true, "so": true, "por": true, "cada": true,
	"preco": true, "r": true, "rs": true, "clube": true, "desconto": true,
}

// Normalize lowercases raw text, strips diacritics and keeps only letters,
// digits, whitespace and the catalog punctuation set. Runs of whitespace
// collapse to one space.
func Normalize(raw string) string {
	return normalizeWith(raw, catalogPunctuation)
}

// NormalizeFreeText is Normalize with the wider free-text punctuation set.
func NormalizeFreeText(raw string) string {
	return normalizeWith(raw, freeTextPunctuation)
}

func normalizeWith(raw, allowed string) string {
	lowered := strings.ToLower(raw)

	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(stripper, lowered)
	if err != nil {
		decomposed = lowered
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || strings.ContainsRune(allowed, r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// CanonicalizeForMatching builds a free-text comparison key: amounts are
// removed, the text is normalized, then stop words and tokens without any
// letter (bare numbers, stray punctuation) are dropped.
func CanonicalizeForMatching(raw string) string {
	cleaned := NormalizeFreeText(domain.StripMoney(raw))

	var kept []string
	for _, token := range strings.Fields(cleaned) {
		if stopWords[token] || !hasLetter(token) {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

// hasLetter reports whether s carries at least one letter other than the
// pack separator "x" on its own.
func hasLetter(s string) bool {
	if s == "x" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
