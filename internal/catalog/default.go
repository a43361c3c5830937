// Package catalog provides the built-in product catalog and a YAML loader
// for operator-supplied catalogs.
package catalog

import "github.com/pricelens/backend/internal/domain"

// Section names of the built-in catalog
const (
	SectionFood     = "ALIMENTOS"
	SectionFruit    = "FRUTAS"
	SectionCleaning = "PRODUTO DE LIMPEZA"
	SectionDairy    = "BEBIDA LÁCTEA"
)

// DefaultBrandAliases maps spellings found in product names to brand ids.
func DefaultBrandAliases() []domain.BrandAlias {
	return []domain.BrandAlias{
		{Alias: "nestle", Brand: "nestle"},
		{Alias: "nestlé", Brand: "nestle"},
		{Alias: "ninho", Brand: "ninho"},
		{Alias: "danone", Brand: "danone"},
		{Alias: "omo", Brand: "omo"},
		{Alias: "ype", Brand: "ype"},
		{Alias: "ypê", Brand: "ype"},
		{Alias: "veja", Brand: "veja"},
		{Alias: "pinho", Brand: "pinho sol"},
		{Alias: "pinho sol", Brand: "pinho sol"},
		{Alias: "downy", Brand: "downy"},
		{Alias: "comfort", Brand: "comfort"},
	}
}

func mass(grams, tol float64) domain.SizeSpec {
	return domain.SizeSpec{Dimension: domain.SizeMass, Target: grams, Tolerance: tol}
}

func volume(ml, tol float64) domain.SizeSpec {
	return domain.SizeSpec{Dimension: domain.SizeVolume, Target: ml, Tolerance: tol}
}

var perKg = domain.SizeSpec{Dimension: domain.SizePerKg}

// Default returns the built-in grocery basket. Each call builds a new value.
func Default() domain.Catalog {
	return domain.Catalog{
		BrandAliases: DefaultBrandAliases(),
		Sections: []domain.Section{
			{
				Name: SectionFood,
				Entries: []domain.CatalogEntry{
					{Key: "Arroz 5 kg", Must: []string{"arroz"}, Size: mass(5000, 600), Query: "arroz 5kg"},
					{Key: "Feijão 1 kg", Must: []string{"feijao"}, Size: mass(1000, 200), Query: "feijao 1kg"},
					{Key: "Leite em pó Ninho 380 g", Must: []string{"leite", "po"}, BrandAny: []string{"ninho", "nestle"}, Size: mass(380, 60), Query: "leite po ninho 380g"},
					{Key: "Macarrão 500 g", Must: []string{"macarrao"}, Size: mass(500, 100), Query: "macarrao 500g"},
					{Key: "Açúcar 1 kg", Must: []string{"acucar"}, Size: mass(1000, 200), Query: "acucar 1kg"},
					{Key: "Sal 1 kg", Must: []string{"sal"}, Size: mass(1000, 200), Query: "sal 1kg"},
					{Key: "Café 500 g", Must: []string{"cafe"}, Size: mass(500, 100), Query: "cafe 500g"},
					{Key: "Farinha de trigo 1 kg", Must: []string{"farinha", "trigo"}, Size: mass(1000, 200), Query: "farinha trigo 1kg"},
					{Key: "Massa de milho (Fubá) 1 kg", Must: []string{"fuba"}, AltAny: [][]string{{"massa", "milho"}}, Size: mass(1000, 300), Query: "fuba 1kg"},
					{
						Key:    "Carne bovina (kg)",
						Must:   []string{"carne"},
						AltAny: [][]string{{"bovina"}, {"patinho"}, {"contrafile"}, {"alcatra"}, {"acem"}, {"coxao"}},
						Size:   perKg,
						Query:  "carne bovina kg",
					},
				},
			},
			{
				Name: SectionFruit,
				Entries: []domain.CatalogEntry{
					{Key: "Mamão (kg)", Must: []string{"mamao"}, AltAny: [][]string{{"papaya"}, {"formosa"}}, Size: perKg, Query: "mamao kg"},
					{Key: "Banana (kg)", Must: []string{"banana"}, Size: perKg, Query: "banana kg"},
					{Key: "Pera (kg)", Must: []string{"pera"}, Size: perKg, Query: "pera kg"},
					{Key: "Uva (kg)", Must: []string{"uva"}, Size: perKg, Query: "uva kg"},
					{Key: "Tangerina (kg)", Must: []string{"tangerina"}, AltAny: [][]string{{"mexerica"}, {"bergamota"}}, Size: perKg, Query: "tangerina kg"},
				},
			},
			{
				Name: SectionCleaning,
				Entries: []domain.CatalogEntry{
					{Key: "Sabão líquido OMO 3 L", Must: []string{"sabao", "liquido"}, BrandAny: []string{"omo"}, Size: volume(3000, 600), Query: "sabao liquido omo 3l"},
					{Key: "Amaciante Downy 1 L", Must: []string{"amaciante"}, BrandAny: []string{"downy", "comfort"}, Size: volume(1000, 300), Query: "amaciante downy 1l"},
					{Key: "Veja Multiuso 500 ml", Must: []string{"veja"}, Size: volume(500, 150), Query: "veja multiuso 500ml"},
					{Key: "Pinho Sol 1 L", Must: []string{"pinho", "sol"}, Size: volume(1000, 300), Query: "pinho sol 1l"},
					{Key: "Detergente Ypê 500 ml", Must: []string{"detergente"}, BrandAny: []string{"ype"}, Size: volume(500, 150), Query: "detergente ype 500ml"},
					{Key: "Água sanitária 1 L", Must: []string{"agua", "sanitaria"}, AltAny: [][]string{{"candida"}}, Size: volume(1000, 300), Query: "agua sanitaria 1l"},
				},
			},
			{
				Name: SectionDairy,
				Entries: []domain.CatalogEntry{
					{Key: "Iogurte integral Nestlé 170 g", Must: []string{"iogurte", "integral"}, BrandAny: []string{"nestle", "ninho"}, Size: mass(170, 60), Query: "iogurte integral nestle 170g"},
					{Key: "Iogurte integral Danone 170 g", Must: []string{"iogurte", "integral"}, BrandAny: []string{"danone"}, Size: mass(170, 60), Query: "iogurte integral danone 170g"},
				},
			},
		},
	}
}
