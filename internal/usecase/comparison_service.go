package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pricelens/backend/internal/domain"
	"github.com/rs/zerolog"
)

// Defaults applied when the configuration leaves a value unset
const (
	defaultIntraSourceThreshold = 88
	defaultCrossSourceThreshold = 75
	defaultMinNameLength        = 3
	defaultSampleLimit          = 30
)

// ComparisonConfig holds configuration for the comparison service.
// A nil threshold takes the default; an explicit 0 is kept.
type ComparisonConfig struct {
	IntraSourceThreshold *int
	CrossSourceThreshold *int
	MinNameLength        int
	SplitTiedPoints      bool
	SampleLimit          int
}

// FreeOptions overrides the clustering thresholds for one free-mode run.
type FreeOptions struct {
	IntraThreshold *int
	CrossThreshold *int
}

// MatchOutcome is the catalog classification of a single name.
type MatchOutcome struct {
	Name       string               `json:"name"`
	Normalized string               `json:"normalized"`
	Matched    bool                 `json:"matched"`
	Key        *domain.CanonicalKey `json:"key,omitempty"`
}

// ComparisonService runs price comparisons: raw records are matched or
// clustered into canonical products, reduced to per-vendor minimums and scored.
type ComparisonService struct {
	matcher   *CatalogMatcher
	collector *Collector
	decider   *WinnerDecider
	config    ComparisonConfig
	intra     int
	cross     int
	logger    zerolog.Logger

	now      func() time.Time
	newRunID func() string
}

// NewComparisonService creates a comparison service. collector may be nil,
// in which case storefront comparisons are unavailable.
func NewComparisonService(
	matcher *CatalogMatcher,
	collector *Collector,
	config ComparisonConfig,
	logger zerolog.Logger,
) *ComparisonService {
	intra, cross := defaultIntraSourceThreshold, defaultCrossSourceThreshold
	if config.IntraSourceThreshold != nil {
		intra = *config.IntraSourceThreshold
	}
	if config.CrossSourceThreshold != nil {
		cross = *config.CrossSourceThreshold
	}
	if config.MinNameLength <= 0 {
		config.MinNameLength = defaultMinNameLength
	}
	if config.SampleLimit <= 0 {
		config.SampleLimit = defaultSampleLimit
	}

	return &ComparisonService{
		matcher:   matcher,
		collector: collector,
		decider:   NewWinnerDecider(config.SplitTiedPoints),
		config:    config,
		intra:     intra,
		cross:     cross,
		logger:    logger.With().Str("component", "comparison").Logger(),
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// Catalog returns the catalog used in catalog mode.
func (s *ComparisonService) Catalog() domain.Catalog {
	return s.matcher.Catalog()
}

// MatchNames classifies each name against the catalog.
func (s *ComparisonService) MatchNames(names []string) []MatchOutcome {
	out := make([]MatchOutcome, 0, len(names))
	for _, name := range names {
		normalized := Normalize(name)
		outcome := MatchOutcome{Name: name, Normalized: normalized}
		if key, ok := s.matcher.MatchNormalized(normalized); ok {
			outcome.Matched = true
			outcome.Key = &key
		}
		out = append(out, outcome)
	}
	return out
}

// CompareCatalog matches every record against the catalog and compares
// vendors over the matched products. vendors fixes the column order; vendors
// found only in records are appended in first-seen order.
func (s *ComparisonService) CompareCatalog(
	ctx context.Context,
	vendors []string,
	inputs []domain.RawInput,
) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vendorList, records, dropped, err := parseInputs(vendors, inputs)
	if err != nil {
		return nil, err
	}

	return s.compareCatalogRecords(vendorList, records, dropped), nil
}

// CompareFree clusters record names without a catalog and compares vendors
// over the discovered products.
func (s *ComparisonService) CompareFree(
	ctx context.Context,
	vendors []string,
	inputs []domain.RawInput,
	opts FreeOptions,
) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	intra, cross := s.intra, s.cross
	if opts.IntraThreshold != nil {
		intra = *opts.IntraThreshold
	}
	if opts.CrossThreshold != nil {
		cross = *opts.CrossThreshold
	}
	if !validThreshold(intra) || !validThreshold(cross) {
		return nil, fmt.Errorf("%w: thresholds must be between 0 and 100", domain.ErrInvalidRequest)
	}

	vendorList, records, dropped, err := parseInputs(vendors, inputs)
	if err != nil {
		return nil, err
	}

	type keyedRecord struct {
		record domain.RawRecord
		key    string
	}

	keysByVendor := make(map[string][]string, len(vendorList))
	keyed := make([]keyedRecord, 0, len(records))
	for _, r := range records {
		key := CanonicalizeForMatching(r.RawName)
		if utf8.RuneCountInString(key) < s.config.MinNameLength {
			dropped.EmptyName++
			continue
		}
		keysByVendor[r.Vendor] = append(keysByVendor[r.Vendor], key)
		keyed = append(keyed, keyedRecord{record: r, key: key})
	}

	groups := make([]VendorKeys, 0, len(vendorList))
	for _, v := range vendorList {
		groups = append(groups, VendorKeys{Vendor: v, Keys: keysByVendor[v]})
	}

	assign := NewClusterer(intra, cross, s.logger).UnifyAcrossVendors(groups)

	observations := make([]domain.PriceObservation, 0, len(keyed))
	for _, k := range keyed {
		observations = append(observations, domain.PriceObservation{
			Key:     domain.CanonicalKey{Product: assign[k.record.Vendor][k.key]},
			Vendor:  k.record.Vendor,
			Price:   k.record.Price,
			RawName: k.record.RawName,
		})
	}

	return s.buildReport(domain.ModeFree, vendorList, observations, KeysInOrder(observations), dropped), nil
}

// CompareStorefronts collects catalog prices from every storefront and
// compares them in catalog mode.
func (s *ComparisonService) CompareStorefronts(ctx context.Context, stores []domain.Storefront) (*domain.Report, error) {
	if s.collector == nil {
		return nil, domain.ErrStorefrontsDisabled
	}

	records, vendors, err := s.collector.CollectCatalog(ctx, stores)
	if err != nil {
		return nil, err
	}

	return s.compareCatalogRecords(vendors, records, domain.DropStats{}), nil
}

func (s *ComparisonService) compareCatalogRecords(
	vendors []string,
	records []domain.RawRecord,
	dropped domain.DropStats,
) *domain.Report {
	observations := make([]domain.PriceObservation, 0, len(records))
	seen := map[domain.CanonicalKey]bool{}

	for _, r := range records {
		text := Normalize(r.RawName)
		if utf8.RuneCountInString(text) < s.config.MinNameLength {
			dropped.EmptyName++
			continue
		}

		key, ok := s.matcher.MatchNormalized(text)
		if !ok {
			dropped.Unmatched++
			continue
		}

		seen[key] = true
		observations = append(observations, domain.PriceObservation{
			Key:     key,
			Vendor:  r.Vendor,
			Price:   r.Price,
			RawName: r.RawName,
		})
	}

	// rows follow catalog authoring order
	var universe []domain.CanonicalKey
	for _, key := range s.matcher.Catalog().Keys() {
		if seen[key] {
			universe = append(universe, key)
		}
	}

	return s.buildReport(domain.ModeCatalog, vendors, observations, universe, dropped)
}

func (s *ComparisonService) buildReport(
	mode string,
	vendors []string,
	observations []domain.PriceObservation,
	universe []domain.CanonicalKey,
	dropped domain.DropStats,
) *domain.Report {
	rows := BuildComparison(vendors, Aggregate(observations), universe)
	verdict := s.decider.Decide(vendors, rows)

	report := &domain.Report{
		RunID:       s.newRunID(),
		Mode:        mode,
		Vendors:     vendors,
		Rows:        rows,
		Verdict:     verdict,
		Samples:     sampleObservations(vendors, observations, s.config.SampleLimit),
		Dropped:     dropped,
		GeneratedAt: s.now(),
	}

	s.logger.Info().
		Str("run_id", report.RunID).
		Str("mode", mode).
		Strs("vendors", vendors).
		Int("observations", len(observations)).
		Int("rows", len(rows)).
		Int("pairs_compared", verdict.PairsCompared).
		Str("winner", verdict.Label).
		Str("outcome", string(verdict.Outcome)).
		Msg("comparison finished")

	if dropped != (domain.DropStats{}) {
		s.logger.Debug().
			Str("run_id", report.RunID).
			Int("malformed_price", dropped.MalformedPrice).
			Int("empty_name", dropped.EmptyName).
			Int("unmatched", dropped.Unmatched).
			Msg("records dropped")
	}

	return report
}

// parseInputs resolves prices and the vendor column order. Records with a
// malformed or out-of-range price are dropped and counted.
func parseInputs(vendors []string, inputs []domain.RawInput) ([]string, []domain.RawRecord, domain.DropStats, error) {
	var dropped domain.DropStats
	if len(inputs) == 0 {
		return nil, nil, dropped, fmt.Errorf("%w: no records", domain.ErrInvalidRequest)
	}

	var order []string
	known := map[string]bool{}
	addVendor := func(v string) {
		if v != "" && !known[v] {
			known[v] = true
			order = append(order, v)
		}
	}
	for _, v := range vendors {
		addVendor(strings.TrimSpace(v))
	}

	records := make([]domain.RawRecord, 0, len(inputs))
	for i, in := range inputs {
		vendor := strings.TrimSpace(in.Vendor)
		if vendor == "" {
			return nil, nil, dropped, fmt.Errorf("%w: record %d has no vendor", domain.ErrInvalidRequest, i)
		}
		addVendor(vendor)

		price, ok := in.Price.Resolve()
		if !ok {
			dropped.MalformedPrice++
			continue
		}
		records = append(records, domain.RawRecord{RawName: in.RawName, Price: price, Vendor: vendor})
	}

	return order, records, dropped, nil
}

// sampleObservations keeps the first limit observations of each vendor.
func sampleObservations(vendors []string, observations []domain.PriceObservation, limit int) []domain.SampleRow {
	var samples []domain.SampleRow
	for _, v := range vendors {
		n := 0
		for _, o := range observations {
			if o.Vendor != v {
				continue
			}
			if n == limit {
				break
			}
			samples = append(samples, domain.SampleRow{Vendor: v, Name: o.RawName, Price: o.Price, Key: o.Key})
			n++
		}
	}
	return samples
}

func validThreshold(t int) bool {
	return t >= 0 && t <= 100
}
