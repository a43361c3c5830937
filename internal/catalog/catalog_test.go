package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	catalog := Default()

	require.NoError(t, Validate(catalog))
	assert.Len(t, catalog.Sections, 4)
	assert.Equal(t, SectionFood, catalog.Sections[0].Name)
	assert.Equal(t, SectionDairy, catalog.Sections[3].Name)
	assert.Len(t, catalog.Keys(), 23)
}

func TestDefault_EntryLookup(t *testing.T) {
	catalog := Default()

	entry, ok := catalog.Entry(domain.CanonicalKey{Section: SectionCleaning, Product: "Pinho Sol 1 L"})
	require.True(t, ok)
	assert.Equal(t, domain.SizeVolume, entry.Size.Dimension)
	assert.Equal(t, 1000.0, entry.Size.Target)
	assert.Equal(t, "pinho sol 1l", entry.SearchQuery())

	_, ok = catalog.Entry(domain.CanonicalKey{Section: SectionFruit, Product: "Pinho Sol 1 L"})
	assert.False(t, ok)
}

func TestDefault_ReturnsFreshValue(t *testing.T) {
	a := Default()
	a.Sections[0].Entries[0].Key = "changed"

	b := Default()
	assert.Equal(t, "Arroz 5 kg", b.Sections[0].Entries[0].Key)
}

const sampleYAML = `
sections:
  - name: MERCEARIA
    entries:
      - key: Arroz 5 kg
        must: [arroz]
        size_g: 5000
        tol_g: 600
        q: arroz 5kg
      - key: Carne (kg)
        must: [carne]
        alt_any: [[bovina], [patinho]]
        perkg: true
  - name: LIMPEZA
    entries:
      - key: Detergente 500 ml
        must: [detergente]
        brand_any: [ype]
        size_ml: 500
        tol_ml: 150
`

func TestParse(t *testing.T) {
	catalog, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, catalog.Sections, 2)
	assert.Equal(t, "MERCEARIA", catalog.Sections[0].Name)
	assert.Equal(t, "LIMPEZA", catalog.Sections[1].Name)

	rice := catalog.Sections[0].Entries[0]
	assert.Equal(t, domain.SizeSpec{Dimension: domain.SizeMass, Target: 5000, Tolerance: 600}, rice.Size)
	assert.Equal(t, "arroz 5kg", rice.Query)

	meat := catalog.Sections[0].Entries[1]
	assert.Equal(t, domain.SizePerKg, meat.Size.Dimension)
	assert.Equal(t, [][]string{{"bovina"}, {"patinho"}}, meat.AltAny)
	assert.Equal(t, "Carne (kg)", meat.SearchQuery())

	detergent := catalog.Sections[1].Entries[0]
	assert.Equal(t, domain.SizeSpec{Dimension: domain.SizeVolume, Target: 500, Tolerance: 150}, detergent.Size)
	assert.Equal(t, []string{"ype"}, detergent.BrandAny)

	// no aliases in the file: built-in table applies
	assert.Equal(t, DefaultBrandAliases(), catalog.BrandAliases)
}

func TestParse_CustomAliases(t *testing.T) {
	doc := `
brand_aliases:
  - alias: tio joao
    brand: tio joao
sections:
  - name: A
    entries:
      - key: Arroz
        must: [arroz]
        brand_any: [tio joao]
`
	catalog, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []domain.BrandAlias{{Alias: "tio joao", Brand: "tio joao"}}, catalog.BrandAliases)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "malformed yaml",
			doc:     "sections: [",
			wantMsg: "invalid catalog",
		},
		{
			name:    "no sections",
			doc:     "sections: []",
			wantMsg: "no sections",
		},
		{
			name: "two size specs",
			doc: `
sections:
  - name: A
    entries:
      - key: X
        must: [x]
        size_g: 100
        size_ml: 100
`,
			wantMsg: "only one of",
		},
		{
			name: "perkg with size",
			doc: `
sections:
  - name: A
    entries:
      - key: X
        must: [x]
        size_g: 100
        perkg: true
`,
			wantMsg: "only one of",
		},
		{
			name: "missing key",
			doc: `
sections:
  - name: A
    entries:
      - must: [x]
`,
			wantMsg: "missing key",
		},
		{
			name: "duplicate key",
			doc: `
sections:
  - name: A
    entries:
      - key: X
        must: [x]
  - name: B
    entries:
      - key: X
        must: [y]
`,
			wantMsg: "duplicate key",
		},
		{
			name: "section without name",
			doc: `
sections:
  - entries:
      - key: X
        must: [x]
`,
			wantMsg: "section without name",
		},
		{
			name: "no tokens",
			doc: `
sections:
  - name: A
    entries:
      - key: X
        size_g: 10
`,
			wantMsg: "needs must or alt_any",
		},
		{
			name: "zero size",
			doc: `
sections:
  - name: A
    entries:
      - key: X
        must: [x]
        size_ml: 0
`,
			wantMsg: "size must be positive",
		},
		{
			name: "negative tolerance",
			doc: `
sections:
  - name: A
    entries:
      - key: X
        must: [x]
        size_g: 10
        tol_g: -1
`,
			wantMsg: "tolerance must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, catalog.Keys(), 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog")
}
