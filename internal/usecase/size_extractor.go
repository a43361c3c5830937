package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches "[pack x] value unit", e.g. "5kg", "1 L", "12x170g", "1,5 kg"
var sizePattern = regexp.MustCompile(`(?i)(?:(\d{1,3})\s*x\s*)?(\d+(?:[.,]\d+)?)\s*(kg|g|l|ml)\b`)

// PackageSize is the package size found in a product text.
// Mass is in grams, volume in milliliters.
type PackageSize struct {
	Grams          float64
	HasGrams       bool
	Milliliters    float64
	HasMilliliters bool
}

// ParseSize finds every size mention and keeps the largest converted value
// per dimension, so bonus mentions ("+ 200g gratis") never shrink the package.
func ParseSize(text string) PackageSize {
	var size PackageSize

	for _, m := range sizePattern.FindAllStringSubmatch(text, -1) {
		pack := 1.0
		if m[1] != "" {
			if n, err := strconv.Atoi(m[1]); err == nil {
				pack = float64(n)
			}
		}

		value, err := strconv.ParseFloat(strings.Replace(m[2], ",", ".", 1), 64)
		if err != nil {
			continue
		}

		switch strings.ToLower(m[3]) {
		case "kg":
			size.addGrams(value * 1000 * pack)
		case "g":
			size.addGrams(value * pack)
		case "l":
			size.addMilliliters(value * 1000 * pack)
		case "ml":
			size.addMilliliters(value * pack)
		}
	}

	return size
}

func (s *PackageSize) addGrams(v float64) {
	if !s.HasGrams || v > s.Grams {
		s.Grams = v
	}
	s.HasGrams = true
}

func (s *PackageSize) addMilliliters(v float64) {
	if !s.HasMilliliters || v > s.Milliliters {
		s.Milliliters = v
	}
	s.HasMilliliters = true
}

// WithinTolerance reports whether an observed value lies in the inclusive
// window [target-tol, target+tol]. A missing observation never matches.
func WithinTolerance(observed float64, present bool, target, tol float64) bool {
	return present && target-tol <= observed && observed <= target+tol
}
