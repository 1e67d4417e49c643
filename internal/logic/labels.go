package logic

import (
	"strings"
	"unicode"

	"github.com/hawkbud003/dsahboard/internal/models"
)

// UnknownLabel stands in for any selected reference ID that no longer
// resolves against the current snapshot. Silent degradation, not an error.
const UnknownLabel = "Unknown"

// FormatProperCase title-cases every whitespace-separated word: first rune
// upper, remainder lower.
func FormatProperCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// InterestLabel renders selected interest IDs as comma-joined
// "category>subcategory" pairs.
func InterestLabel(ids []int64, interests []models.Interest) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		label := UnknownLabel
		for _, in := range interests {
			if in.ID == id {
				label = in.Category + ">" + in.Subcategory
				break
			}
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

// LocationLabel renders selected location IDs as comma-joined city names.
func LocationLabel(ids []int64, locations []models.Location) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		label := UnknownLabel
		for _, loc := range locations {
			if loc.ID == id {
				label = loc.City
				break
			}
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

// CreativeLabel renders selected creative IDs as comma-joined names.
func CreativeLabel(ids []int64, creatives []models.Creative) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		label := UnknownLabel
		for _, c := range creatives {
			if c.ID == id {
				label = c.Name
				break
			}
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}
