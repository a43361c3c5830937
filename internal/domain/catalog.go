package domain

// SizeDimension selects how a catalog entry checks package size.
type SizeDimension string

const (
	// SizeAny skips size checking
	SizeAny SizeDimension = ""
	// SizeMass compares grams
	SizeMass SizeDimension = "mass"
	// SizeVolume compares milliliters
	SizeVolume SizeDimension = "volume"
	// SizePerKg marks products priced per kilogram; size is never checked
	SizePerKg SizeDimension = "perkg"
)

// SizeSpec is a target package size with an inclusive tolerance window.
type SizeSpec struct {
	Dimension SizeDimension `json:"dimension,omitempty"`
	Target    float64       `json:"target,omitempty"`
	Tolerance float64       `json:"tolerance,omitempty"`
}

// CatalogEntry describes one target product.
type CatalogEntry struct {
	Key      string     `json:"key"`
	Must     []string   `json:"must"`
	AltAny   [][]string `json:"altAny,omitempty"`
	BrandAny []string   `json:"brandAny,omitempty"`
	Size     SizeSpec   `json:"size"`
	Query    string     `json:"query,omitempty"`
}

// SearchQuery returns the storefront query for the entry.
func (e CatalogEntry) SearchQuery() string {
	if e.Query != "" {
		return e.Query
	}
	return e.Key
}

// Section groups entries for display.
type Section struct {
	Name    string         `json:"name"`
	Entries []CatalogEntry `json:"entries"`
}

// BrandAlias maps a spelling found in product text to a canonical brand id.
type BrandAlias struct {
	Alias string `json:"alias" yaml:"alias"`
	Brand string `json:"brand" yaml:"brand"`
}

// Catalog is the ordered, read-only set of target products for a run.
type Catalog struct {
	Sections     []Section    `json:"sections"`
	BrandAliases []BrandAlias `json:"brandAliases,omitempty"`
}

// Keys returns every entry key in authoring order.
func (c Catalog) Keys() []CanonicalKey {
	var keys []CanonicalKey
	for _, section := range c.Sections {
		for _, entry := range section.Entries {
			keys = append(keys, CanonicalKey{Section: section.Name, Product: entry.Key})
		}
	}
	return keys
}

// Entry looks up an entry by its canonical key.
func (c Catalog) Entry(key CanonicalKey) (CatalogEntry, bool) {
	for _, section := range c.Sections {
		if section.Name != key.Section {
			continue
		}
		for _, entry := range section.Entries {
			if entry.Key == key.Product {
				return entry, true
			}
		}
	}
	return CatalogEntry{}, false
}
