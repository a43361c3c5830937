package usecase

import (
	"github.com/rs/zerolog"
)

// Clustering is the outcome of one unify pass.
type Clustering struct {
	// Roots holds cluster representatives in the order they were created.
	Roots []string
	// Root maps every key to its representative.
	Root map[string]string
}

// Unify groups keys greedily: keys are visited in input order and each one
// attaches to the first existing root whose Similarity exceeds threshold,
// otherwise it becomes a new root. Results depend on input order and are not
// transitive; a key close to two roots always joins the older one.
func Unify(keys []string, threshold int) Clustering {
	c := Clustering{Root: make(map[string]string, len(keys))}
	limit := float64(threshold)

	for _, key := range keys {
		if _, done := c.Root[key]; done {
			continue
		}

		root := key
		for _, candidate := range c.Roots {
			if Similarity(key, candidate) > limit {
				root = candidate
				break
			}
		}

		if root == key {
			c.Roots = append(c.Roots, key)
		}
		c.Root[key] = root
	}

	return c
}

// VendorKeys is the ordered list of canonical keys seen at one vendor.
type VendorKeys struct {
	Vendor string
	Keys   []string
}

// Clusterer runs the two-pass free clustering.
type Clusterer struct {
	intraThreshold int
	crossThreshold int
	logger         zerolog.Logger
}

// NewClusterer creates a clusterer with the per-vendor (strict) and
// cross-vendor (relaxed) thresholds.
func NewClusterer(intraThreshold, crossThreshold int, logger zerolog.Logger) *Clusterer {
	return &Clusterer{
		intraThreshold: intraThreshold,
		crossThreshold: crossThreshold,
		logger:         logger.With().Str("component", "clusterer").Logger(),
	}
}

// UnifyAcrossVendors first merges near-duplicate listings inside each vendor
// at the strict threshold, then merges the surviving roots of all vendors at
// the relaxed threshold. It returns vendor -> key -> global root.
func (c *Clusterer) UnifyAcrossVendors(groups []VendorKeys) map[string]map[string]string {
	local := make([]Clustering, len(groups))
	var roots []string
	seen := map[string]bool{}

	for i, g := range groups {
		local[i] = Unify(g.Keys, c.intraThreshold)
		for _, r := range local[i].Roots {
			if !seen[r] {
				seen[r] = true
				roots = append(roots, r)
			}
		}
		c.logger.Debug().
			Str("vendor", g.Vendor).
			Int("keys", len(local[i].Root)).
			Int("roots", len(local[i].Roots)).
			Msg("intra-source pass")
	}

	global := Unify(roots, c.crossThreshold)
	c.logger.Debug().Int("roots", len(roots)).Int("clusters", len(global.Roots)).Msg("cross-source pass")

	out := make(map[string]map[string]string, len(groups))
	for i, g := range groups {
		assign, ok := out[g.Vendor]
		if !ok {
			assign = make(map[string]string, len(local[i].Root))
			out[g.Vendor] = assign
		}
		for key, root := range local[i].Root {
			assign[key] = global.Root[root]
		}
	}
	return out
}
