package models

// Event categories known to the backend. The empty category means "all".
const (
	CategoryMusic       = "Music"
	CategorySport       = "Sport"
	CategoryExhibition  = "Exhibition"
	CategoryBusiness    = "Business"
	CategoryPhotography = "Photography"
)

// Categories lists the categories in display order.
var Categories = []string{
	CategoryMusic,
	CategorySport,
	CategoryExhibition,
	CategoryBusiness,
	CategoryPhotography,
}

// IsValidCategory reports whether category is empty (all events) or one of
// the known categories.
func IsValidCategory(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
