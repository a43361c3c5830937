package usecase

import (
	"github.com/pricelens/backend/internal/domain"
)

// VendorProduct identifies one (vendor, canonical product) cell.
type VendorProduct struct {
	Vendor string
	Key    domain.CanonicalKey
}

// Aggregate reduces observations to the cheapest price per vendor and
// product. Repeated listings are treated as variants of one offer.
func Aggregate(observations []domain.PriceObservation) map[VendorProduct]float64 {
	prices := make(map[VendorProduct]float64, len(observations))
	for _, o := range observations {
		cell := VendorProduct{Vendor: o.Vendor, Key: o.Key}
		if current, ok := prices[cell]; !ok || o.Price < current {
			prices[cell] = o.Price
		}
	}
	return prices
}

// KeysInOrder returns the distinct observation keys in first-seen order.
func KeysInOrder(observations []domain.PriceObservation) []domain.CanonicalKey {
	seen := map[domain.CanonicalKey]bool{}
	var keys []domain.CanonicalKey
	for _, o := range observations {
		if !seen[o.Key] {
			seen[o.Key] = true
			keys = append(keys, o.Key)
		}
	}
	return keys
}

// BuildComparison emits one row per key of the universe. Vendors without a
// price for a key have no cell; rows with at least one price carry the
// vendors tied at the row minimum, in vendor order.
func BuildComparison(vendors []string, prices map[VendorProduct]float64, universe []domain.CanonicalKey) []domain.ComparisonRow {
	rows := make([]domain.ComparisonRow, 0, len(universe))

	for _, key := range universe {
		row := domain.ComparisonRow{Key: key, Prices: map[string]float64{}}

		rowMin, priced := 0.0, false
		for _, v := range vendors {
			p, ok := prices[VendorProduct{Vendor: v, Key: key}]
			if !ok {
				continue
			}
			row.Prices[v] = p
			if !priced || p < rowMin {
				rowMin, priced = p, true
			}
		}

		if priced {
			for _, v := range vendors {
				if p, ok := row.Prices[v]; ok && p == rowMin {
					row.Winners = append(row.Winners, v)
				}
			}
		}

		rows = append(rows, row)
	}

	return rows
}
