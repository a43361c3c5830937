package usecase

import (
	"testing"

	"github.com/pricelens/backend/internal/catalog"
	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogMatcher_DefaultCatalog(t *testing.T) {
	matcher := NewCatalogMatcher(catalog.Default(), zerolog.Nop())

	testCases := []struct {
		raw     string
		section string
		product string // empty: no match
	}{
		{raw: "Arroz Tio João Tipo 1 5kg", section: catalog.SectionFood, product: "Arroz 5 kg"},
		{raw: "Arroz Integral Camil 1kg"},
		{raw: "Feijão Carioca Kicaldo 1kg", section: catalog.SectionFood, product: "Feijão 1 kg"},
		{raw: "Leite em Pó Ninho Integral 380g", section: catalog.SectionFood, product: "Leite em pó Ninho 380 g"},
		{raw: "Leite em Pó Itambé 400g"},
		{raw: "Leite em Pó Nestlé Ninho 750g"},
		{raw: "Café Pilão Tradicional 500g", section: catalog.SectionFood, product: "Café 500 g"},
		{raw: "Massa de Milho Fubá Sinhá 1kg", section: catalog.SectionFood, product: "Massa de milho (Fubá) 1 kg"},
		{raw: "Fubá Mimoso 1kg"},
		{raw: "Carne Bovina Patinho kg", section: catalog.SectionFood, product: "Carne bovina (kg)"},
		{raw: "Carne Suína Pernil kg"},
		{raw: "Banana Prata kg", section: catalog.SectionFruit, product: "Banana (kg)"},
		{raw: "Tangerina Mexerica kg", section: catalog.SectionFruit, product: "Tangerina (kg)"},
		{raw: "Tangerina Ponkan kg"},
		{raw: "Sabão Líquido OMO Lavagem Perfeita 3L", section: catalog.SectionCleaning, product: "Sabão líquido OMO 3 L"},
		{raw: "Amaciante Comfort Concentrado 1L", section: catalog.SectionCleaning, product: "Amaciante Downy 1 L"},
		{raw: "Pinho Sol Original 1L", section: catalog.SectionCleaning, product: "Pinho Sol 1 L"},
		{raw: "Detergente Líquido Ypê Neutro 500ml", section: catalog.SectionCleaning, product: "Detergente Ypê 500 ml"},
		{raw: "Detergente Limpol 500ml"},
		{raw: "Água Sanitária Cândida 1L", section: catalog.SectionCleaning, product: "Água sanitária 1 L"},
		{raw: "Iogurte Integral Nestlé 170g", section: catalog.SectionDairy, product: "Iogurte integral Nestlé 170 g"},
		{raw: "Iogurte Integral Danone 170g", section: catalog.SectionDairy, product: "Iogurte integral Danone 170 g"},
		{raw: "Sabonete Dove 90g"},
		{raw: ""},
		{raw: "!!!"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			key, ok := matcher.Match(tc.raw)
			if tc.product == "" {
				assert.False(t, ok, "unexpected match %s", key)
				return
			}
			require.True(t, ok)
			assert.Equal(t, domain.CanonicalKey{Section: tc.section, Product: tc.product}, key)
		})
	}
}

func TestCatalogMatcher_SubstringContainment(t *testing.T) {
	matcher := NewCatalogMatcher(catalog.Default(), zerolog.Nop())

	// tokens match inside longer words
	key, ok := matcher.Match("Salgadinho Sortido 1kg")
	require.True(t, ok)
	assert.Equal(t, "Sal 1 kg", key.Product)

	// "promo" contains the "omo" alias
	key, ok = matcher.Match("Sabão Líquido Promo 3L")
	require.True(t, ok)
	assert.Equal(t, "Sabão líquido OMO 3 L", key.Product)
}

func TestCatalogMatcher_Deterministic(t *testing.T) {
	matcher := NewCatalogMatcher(catalog.Default(), zerolog.Nop())

	first, ok := matcher.Match("Café Pilão Tradicional 500g")
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		_, _ = matcher.Match("Arroz Tio João 5kg")
		again, ok := matcher.Match("Café Pilão Tradicional 500g")
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestCatalogMatcher_FirstMatchWins(t *testing.T) {
	ambiguous := func(first, second string) domain.Catalog {
		return domain.Catalog{Sections: []domain.Section{
			{Name: "S1", Entries: []domain.CatalogEntry{{Key: first, Must: []string{"leite"}}}},
			{Name: "S2", Entries: []domain.CatalogEntry{{Key: second, Must: []string{"leite", "integral"}}}},
		}}
	}

	matcher := NewCatalogMatcher(ambiguous("Leite", "Leite integral"), zerolog.Nop())
	key, ok := matcher.Match("Leite Integral Italac 1L")
	require.True(t, ok)
	assert.Equal(t, domain.CanonicalKey{Section: "S1", Product: "Leite"}, key)

	// same rules, other order
	reversed := domain.Catalog{Sections: []domain.Section{
		{Name: "S2", Entries: []domain.CatalogEntry{{Key: "Leite integral", Must: []string{"leite", "integral"}}}},
		{Name: "S1", Entries: []domain.CatalogEntry{{Key: "Leite", Must: []string{"leite"}}}},
	}}
	key, ok = NewCatalogMatcher(reversed, zerolog.Nop()).Match("Leite Integral Italac 1L")
	require.True(t, ok)
	assert.Equal(t, "Leite integral", key.Product)
}

func TestCatalogMatcher_BrandRequired(t *testing.T) {
	cat := domain.Catalog{
		BrandAliases: []domain.BrandAlias{{Alias: "ypê", Brand: "ype"}},
		Sections: []domain.Section{{Name: "LIMPEZA", Entries: []domain.CatalogEntry{{
			Key:      "Detergente Ypê",
			Must:     []string{"detergente"},
			BrandAny: []string{"Ypê"},
			Size:     domain.SizeSpec{Dimension: domain.SizeVolume, Target: 500, Tolerance: 150},
		}}}},
	}
	matcher := NewCatalogMatcher(cat, zerolog.Nop())

	_, ok := matcher.Match("Detergente Ypê 500ml")
	assert.True(t, ok)

	_, ok = matcher.Match("Detergente Limpol 500ml")
	assert.False(t, ok, "brand missing")

	_, ok = matcher.Match("Detergente Ypê")
	assert.False(t, ok, "size missing")

	_, ok = matcher.Match("Detergente Ypê 5L")
	assert.False(t, ok, "size out of window")
}

func TestCatalogMatcher_MatchNormalized(t *testing.T) {
	matcher := NewCatalogMatcher(catalog.Default(), zerolog.Nop())

	key, ok := matcher.MatchNormalized("banana nanica kg")
	require.True(t, ok)
	assert.Equal(t, "Banana (kg)", key.Product)

	_, ok = matcher.MatchNormalized("")
	assert.False(t, ok)

	assert.Equal(t, catalog.Default(), matcher.Catalog())
}
