package logic

import (
	"math"

	"github.com/hawkbud003/dsahboard/internal/models"
)

// EstimatePopulation computes the estimated addressable audience for the
// selected locations and age brackets.
//
// The base population is the sum of the populations of every selected
// location present in the reference list; selected IDs missing from the list
// contribute zero. The age percentage is the sum of the percentages of every
// selected age label present in the impression breakdown. When the percentage
// is positive the result is base*pct/100 rounded half away from zero
// (math.Round); otherwise no age filter applies and the full base population
// is returned unmodified.
//
// Inputs are never negative; the function does not clamp.
func EstimatePopulation(locationIDs []int64, ageLabels []string, locations []models.Location, ages []models.ImpressionBreakdown) int64 {
	var base int64
	for _, id := range locationIDs {
		for _, loc := range locations {
			if loc.ID == id {
				base += loc.Population
				break
			}
		}
	}

	var pct float64
	for _, label := range ageLabels {
		for _, bracket := range ages {
			if bracket.Label == label {
				pct += bracket.Percentage
				break
			}
		}
	}

	if pct > 0 {
		return int64(math.Round(float64(base) * pct / 100))
	}
	return base
}
