package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

const scoreEpsilon = 1e-9

// WinnerDecider scores vendors over comparison rows and picks the overall winner.
type WinnerDecider struct {
	// splitTiedPoints gives each of n tied vendors 1/n instead of a flat 0.5
	splitTiedPoints bool
}

// NewWinnerDecider creates a decider.
func NewWinnerDecider(splitTiedPoints bool) *WinnerDecider {
	return &WinnerDecider{splitTiedPoints: splitTiedPoints}
}

// Decide scores every row priced by at least two vendors: a sole row winner
// gets one point, tied vendors get half a point each. The vendor with the
// highest score wins; a tie at the top is broken by the lowest sum of prices
// over rows where all tied vendors have a price.
func (d *WinnerDecider) Decide(vendors []string, rows []domain.ComparisonRow) domain.Verdict {
	scores := make(map[string]domain.VendorScore, len(vendors))
	for _, v := range vendors {
		scores[v] = domain.VendorScore{}
	}

	pairs := 0
	for _, row := range rows {
		if len(row.Prices) < 2 || len(row.Winners) == 0 {
			continue
		}
		pairs++

		if len(row.Winners) == 1 {
			s := scores[row.Winners[0]]
			s.Score++
			s.Wins++
			scores[row.Winners[0]] = s
		} else {
			share := 0.5
			if d.splitTiedPoints {
				share = 1 / float64(len(row.Winners))
			}
			for _, w := range row.Winners {
				s := scores[w]
				s.Score += share
				s.Ties++
				scores[w] = s
			}
		}

		if pricedByAll(row, vendors) {
			for _, v := range vendors {
				s := scores[v]
				s.PriceSum += row.Prices[v]
				scores[v] = s
			}
		}
	}

	verdict := domain.Verdict{Scores: scores, PairsCompared: pairs}
	scoreline := formatScoreline(vendors, scores)

	top := topScored(vendors, scores)
	if pairs == 0 {
		return insufficientOverlap(verdict, top, scoreline)
	}
	if len(top) == 1 {
		verdict.Winners = top
		verdict.Outcome = domain.OutcomeOutright
		verdict.Label = top[0]
		verdict.Explanation = scoreline + "."
		return verdict
	}

	sums, overlap := sumsWhereAllPriced(top, rows)
	if overlap == 0 {
		return insufficientOverlap(verdict, top, scoreline)
	}

	verdict.TieBreakSums = sums
	cheapest := lowestSum(top, sums)
	verdict.Winners = cheapest
	verdict.Label = strings.Join(cheapest, " / ")
	if len(cheapest) == 1 {
		verdict.Outcome = domain.OutcomeTieBreak
		verdict.Explanation = fmt.Sprintf("%s. Tie-break by lowest sum (%s).", scoreline, formatSums(cheapest[0], top, sums))
	} else {
		verdict.Outcome = domain.OutcomeTieAfterSum
		verdict.Explanation = scoreline + ". Tied after sum."
	}
	return verdict
}

func insufficientOverlap(verdict domain.Verdict, top []string, scoreline string) domain.Verdict {
	verdict.Winners = top
	verdict.Outcome = domain.OutcomeInsufficientOverlap
	verdict.Label = strings.Join(top, " / ")
	verdict.Explanation = scoreline + ". Technical tie (too few items found)."
	return verdict
}

func pricedByAll(row domain.ComparisonRow, vendors []string) bool {
	for _, v := range vendors {
		if _, ok := row.Prices[v]; !ok {
			return false
		}
	}
	return len(vendors) > 0
}

func topScored(vendors []string, scores map[string]domain.VendorScore) []string {
	best := math.Inf(-1)
	for _, v := range vendors {
		best = math.Max(best, scores[v].Score)
	}
	var top []string
	for _, v := range vendors {
		if math.Abs(scores[v].Score-best) < scoreEpsilon {
			top = append(top, v)
		}
	}
	return top
}

// sumsWhereAllPriced sums each vendor's prices over rows priced by every
// vendor in the group and reports how many rows qualified.
func sumsWhereAllPriced(group []string, rows []domain.ComparisonRow) (map[string]float64, int) {
	sums := make(map[string]float64, len(group))
	n := 0
	for _, row := range rows {
		if !pricedByAll(row, group) {
			continue
		}
		n++
		for _, v := range group {
			sums[v] += row.Prices[v]
		}
	}
	return sums, n
}

func lowestSum(group []string, sums map[string]float64) []string {
	best := math.Inf(1)
	for _, v := range group {
		best = math.Min(best, sums[v])
	}
	var out []string
	for _, v := range group {
		if math.Abs(sums[v]-best) < scoreEpsilon {
			out = append(out, v)
		}
	}
	return out
}

// formatScoreline renders "a 1 × 1 b (more items at the lowest price)" for two
// vendors and "a 1 × b 0.5 × c 1 (...)" otherwise.
func formatScoreline(vendors []string, scores map[string]domain.VendorScore) string {
	const suffix = " (more items at the lowest price)"
	if len(vendors) == 2 {
		a, b := vendors[0], vendors[1]
		return fmt.Sprintf("%s %s × %s %s", a, formatScore(scores[a].Score), formatScore(scores[b].Score), b) + suffix
	}
	parts := make([]string, 0, len(vendors))
	for _, v := range vendors {
		parts = append(parts, v+" "+formatScore(scores[v].Score))
	}
	return strings.Join(parts, " × ") + suffix
}

// formatScore prints one decimal and drops a trailing ".0".
func formatScore(score float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(score, 'f', 1, 64), ".0")
}

// formatSums lists the winner's sum first, then the other tied vendors.
func formatSums(winner string, group []string, sums map[string]float64) string {
	parts := []string{fmt.Sprintf("R$ %.2f", sums[winner])}
	for _, v := range group {
		if v != winner {
			parts = append(parts, fmt.Sprintf("R$ %.2f", sums[v]))
		}
	}
	return strings.Join(parts, " vs ")
}
