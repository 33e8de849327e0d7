package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	cmPerFoot  = 30.48
	cmPerInch  = 2.54
	kgPerPound = 0.453592
)

// HeightToCm converts a "feet-inches" height (e.g. "6-7") to whole centimeters
func HeightToCm(height string) (int, bool) {
	height = strings.TrimSpace(height)
	if height == "" {
		return 0, false
	}

	feetStr, inchesStr, found := strings.Cut(height, "-")
	if !found {
		return 0, false
	}

	feet, err := strconv.Atoi(strings.TrimSpace(feetStr))
	if err != nil {
		return 0, false
	}
	inches, err := strconv.Atoi(strings.TrimSpace(inchesStr))
	if err != nil {
		return 0, false
	}
	if feet < 0 || inches < 0 {
		return 0, false
	}

	return int(math.Round(float64(feet)*cmPerFoot + float64(inches)*cmPerInch)), true
}

// WeightToKg converts a weight in pounds (e.g. "215") to whole kilograms
func WeightToKg(weight string) (int, bool) {
	weight = strings.TrimSpace(weight)
	if weight == "" {
		return 0, false
	}

	pounds, err := strconv.Atoi(weight)
	if err != nil {
		return 0, false
	}

	return int(math.Round(float64(pounds) * kgPerPound)), true
}
