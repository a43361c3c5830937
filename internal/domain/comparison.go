package domain

import "time"

// Comparison modes
const (
	ModeCatalog = "catalog"
	ModeFree    = "free"
)

// ComparisonRow is one canonical product across all vendors.
// Prices only holds vendors that priced the product.
type ComparisonRow struct {
	Key     CanonicalKey       `json:"key"`
	Prices  map[string]float64 `json:"prices"`
	Winners []string           `json:"winners,omitempty"`
}

// Price returns the vendor's minimum price for the row, if any.
func (r ComparisonRow) Price(vendor string) (float64, bool) {
	p, ok := r.Prices[vendor]
	return p, ok
}

// VendorScore accumulates a vendor's results over all scored rows.
type VendorScore struct {
	Score    float64 `json:"score"`
	PriceSum float64 `json:"priceSum"`
	Wins     int     `json:"wins"`
	Ties     int     `json:"ties"`
}

// Outcome describes how the overall winner was decided.
type Outcome string

const (
	OutcomeOutright            Outcome = "outright"
	OutcomeTieBreak            Outcome = "tie_break"
	OutcomeTieAfterSum         Outcome = "tie_after_sum"
	OutcomeInsufficientOverlap Outcome = "insufficient_overlap"
)

// Verdict is the overall result of a comparison.
type Verdict struct {
	Winners       []string               `json:"winners"`
	Label         string                 `json:"label"`
	Outcome       Outcome                `json:"outcome"`
	Explanation   string                 `json:"explanation"`
	PairsCompared int                    `json:"pairsCompared"`
	Scores        map[string]VendorScore `json:"scores"`
	TieBreakSums  map[string]float64     `json:"tieBreakSums,omitempty"`
}

// Joint reports whether more than one vendor shares the win.
func (v Verdict) Joint() bool {
	return len(v.Winners) > 1
}

// SampleRow is a captured record kept for audit display.
type SampleRow struct {
	Vendor string       `json:"vendor"`
	Name   string       `json:"name"`
	Price  float64      `json:"price"`
	Key    CanonicalKey `json:"key"`
}

// DropStats counts records discarded during a run.
type DropStats struct {
	MalformedPrice int `json:"malformedPrice"`
	EmptyName      int `json:"emptyName"`
	Unmatched      int `json:"unmatched"`
}

// Report is the full output of one comparison run.
type Report struct {
	RunID       string          `json:"runId"`
	Mode        string          `json:"mode"`
	Vendors     []string        `json:"vendors"`
	Rows        []ComparisonRow `json:"rows"`
	Verdict     Verdict         `json:"verdict"`
	Samples     []SampleRow     `json:"samples"`
	Dropped     DropStats       `json:"dropped"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
