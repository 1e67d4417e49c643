// Package refdata loads and holds the reference data the wizards depend on:
// the selectable option lists, the interest taxonomy, and the population base
// data. A load fans out all fetches concurrently and either produces one
// complete snapshot or none at all.
package refdata

import (
	"github.com/hawkbud003/dsahboard/internal/models"
)

// NoDataPlaceholder is shown as the only option of a dependent select when
// the snapshot has no entries for it, so the select is never empty or
// disabled.
const NoDataPlaceholder = "No data available. Please select Interest"

// Snapshot is one immutable, internally consistent view of all reference
// lists. It is replaced wholesale on refetch, never mutated in place.
type Snapshot struct {
	Ages               []models.SelectOption
	Devices            []models.SelectOption
	Environments       []models.SelectOption
	Exchanges          []models.SelectOption
	Languages          []models.SelectOption
	Carriers           []models.SelectOption
	DevicePrices       []models.SelectOption
	BuyTypes           []models.SelectOption
	Viewability        []models.SelectOption
	BrandSafety        []models.SelectOption
	InterestCategories []models.SelectOption
	Locations          []models.Location
	Interests          []models.Interest
	Impressions        models.ImpressionData
	Users              []models.User
	Creatives          []models.Creative
}

// EmptySnapshot returns the all-empty default used before the first
// successful load.
func EmptySnapshot() *Snapshot {
	return &Snapshot{}
}

// TotalPopulation returns the population scalar carried by the impression
// payload.
func (s *Snapshot) TotalPopulation() int64 {
	return s.Impressions.TotalPopulation
}

// CategoryGroup is the interests of one category, for per-category
// sub-selects.
type CategoryGroup struct {
	Category  models.SelectOption `json:"category"`
	Interests []models.Interest   `json:"interests"`
}

// InterestsByCategory groups the interest taxonomy by its categories for
// presentation. A category with no interests carries the placeholder entry
// instead of an empty list, so its dependent select still has an option.
func (s *Snapshot) InterestsByCategory() []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(s.InterestCategories))
	for _, cat := range s.InterestCategories {
		group := CategoryGroup{Category: cat}
		for _, in := range s.Interests {
			if in.Category == cat.Text() {
				group.Interests = append(group.Interests, in)
			}
		}
		if len(group.Interests) == 0 {
			group.Interests = []models.Interest{{ID: 0, Category: NoDataPlaceholder}}
		}
		groups = append(groups, group)
	}
	return groups
}
