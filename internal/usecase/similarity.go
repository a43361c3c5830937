package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Similarity scores two normalized keys on a 0-100 scale as the best of the
// token-set and partial-substring scores, tolerating both word reordering and
// truncated or padded names.
func Similarity(a, b string) float64 {
	return max(TokenSetRatio(a, b), PartialRatio(a, b))
}

// Ratio is the indel similarity 200*LCS/(len(a)+len(b)).
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	lcs := matchr.LongestCommonSubsequence(a, b)
	return 200 * float64(lcs) / float64(la+lb)
}

// TokenSetRatio compares the sets of words of both strings, ignoring order
// and repeats. When one set contains the other the score is 100.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, onlyA, onlyB []string
	inB := make(map[string]bool, len(tb))
	for _, t := range tb {
		inB[t] = true
	}
	inA := make(map[string]bool, len(ta))
	for _, t := range ta {
		inA[t] = true
		if inB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !inA[t] {
			onlyB = append(onlyB, t)
		}
	}

	if len(inter) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := strings.Join(inter, " ")
	withA := joinNonEmpty(sect, strings.Join(onlyA, " "))
	withB := joinNonEmpty(sect, strings.Join(onlyB, " "))

	best := Ratio(withA, withB)
	if sect != "" {
		best = max(best, Ratio(sect, withA), Ratio(sect, withB))
	}
	return best
}

// PartialRatio slides the shorter string over the longer one and returns the
// best Ratio of any equal-length window.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}
	if len(short) == len(long) {
		return Ratio(a, b)
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(s, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// tokenSet returns the sorted distinct words of s.
func tokenSet(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range strings.Fields(s) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	sort.Strings(out)
	return out
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
