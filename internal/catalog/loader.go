package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// fileCatalog is the on-disk YAML layout. Sections are a list so that
// authoring order survives decoding.
type fileCatalog struct {
	BrandAliases []domain.BrandAlias `yaml:"brand_aliases"`
	Sections     []fileSection       `yaml:"sections"`
}

type fileSection struct {
	Name    string      `yaml:"name"`
	Entries []fileEntry `yaml:"entries"`
}

type fileEntry struct {
	Key      string     `yaml:"key"`
	Must     []string   `yaml:"must"`
	AltAny   [][]string `yaml:"alt_any"`
	BrandAny []string   `yaml:"brand_any"`
	SizeG    *float64   `yaml:"size_g"`
	TolG     float64    `yaml:"tol_g"`
	SizeML   *float64   `yaml:"size_ml"`
	TolML    float64    `yaml:"tol_ml"`
	PerKg    bool       `yaml:"perkg"`
	Query    string     `yaml:"q"`
}

// Load reads and validates a catalog file.
func Load(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. When the document has no brand_aliases the
// built-in alias table is used.
func Parse(data []byte) (domain.Catalog, error) {
	var file fileCatalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	catalog := domain.Catalog{BrandAliases: file.BrandAliases}
	if len(catalog.BrandAliases) == 0 {
		catalog.BrandAliases = DefaultBrandAliases()
	}

	for _, fs := range file.Sections {
		section := domain.Section{Name: strings.TrimSpace(fs.Name)}
		for _, fe := range fs.Entries {
			entry, err := fe.toEntry()
			if err != nil {
				return domain.Catalog{}, fmt.Errorf("%w: section %q entry %q: %v", domain.ErrInvalidCatalog, section.Name, fe.Key, err)
			}
			section.Entries = append(section.Entries, entry)
		}
		catalog.Sections = append(catalog.Sections, section)
	}

	if err := Validate(catalog); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

func (fe fileEntry) toEntry() (domain.CatalogEntry, error) {
	entry := domain.CatalogEntry{
		Key:      strings.TrimSpace(fe.Key),
		Must:     fe.Must,
		AltAny:   fe.AltAny,
		BrandAny: fe.BrandAny,
		Query:    fe.Query,
	}

	specs := 0
	if fe.SizeG != nil {
		specs++
		entry.Size = domain.SizeSpec{Dimension: domain.SizeMass, Target: *fe.SizeG, Tolerance: fe.TolG}
	}
	if fe.SizeML != nil {
		specs++
		entry.Size = domain.SizeSpec{Dimension: domain.SizeVolume, Target: *fe.SizeML, Tolerance: fe.TolML}
	}
	if fe.PerKg {
		specs++
		entry.Size = domain.SizeSpec{Dimension: domain.SizePerKg}
	}
	if specs > 1 {
		return domain.CatalogEntry{}, fmt.Errorf("only one of size_g, size_ml and perkg may be set")
	}

	return entry, nil
}

// Validate checks the structural rules every catalog must satisfy.
func Validate(catalog domain.Catalog) error {
	if len(catalog.Sections) == 0 {
		return fmt.Errorf("%w: no sections", domain.ErrInvalidCatalog)
	}

	seen := make(map[string]bool)
	for _, section := range catalog.Sections {
		if section.Name == "" {
			return fmt.Errorf("%w: section without name", domain.ErrInvalidCatalog)
		}
		if len(section.Entries) == 0 {
			return fmt.Errorf("%w: section %q has no entries", domain.ErrInvalidCatalog, section.Name)
		}
		for _, entry := range section.Entries {
			if err := validateEntry(entry); err != nil {
				return fmt.Errorf("%w: section %q entry %q: %v", domain.ErrInvalidCatalog, section.Name, entry.Key, err)
			}
			if seen[entry.Key] {
				return fmt.Errorf("%w: duplicate key %q", domain.ErrInvalidCatalog, entry.Key)
			}
			seen[entry.Key] = true
		}
	}

	for _, alias := range catalog.BrandAliases {
		if strings.TrimSpace(alias.Alias) == "" || strings.TrimSpace(alias.Brand) == "" {
			return fmt.Errorf("%w: brand alias needs alias and brand", domain.ErrInvalidCatalog)
		}
	}
	return nil
}

func validateEntry(entry domain.CatalogEntry) error {
	if entry.Key == "" {
		return fmt.Errorf("missing key")
	}
	if len(entry.Must) == 0 && len(entry.AltAny) == 0 {
		return fmt.Errorf("needs must or alt_any tokens")
	}
	for _, group := range entry.AltAny {
		if len(group) == 0 {
			return fmt.Errorf("empty alt_any group")
		}
	}

	switch entry.Size.Dimension {
	case domain.SizeMass, domain.SizeVolume:
		if entry.Size.Target <= 0 {
			return fmt.Errorf("size must be positive")
		}
		if entry.Size.Tolerance < 0 {
			return fmt.Errorf("tolerance must not be negative")
		}
	case domain.SizeAny, domain.SizePerKg:
	default:
		return fmt.Errorf("unknown size dimension %q", entry.Size.Dimension)
	}
	return nil
}
