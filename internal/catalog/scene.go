package catalog

// Category groups scenes by the kind of situation they cover.
type Category string

const (
	CategoryDaily    Category = "daily"
	CategoryBusiness Category = "business"
	CategoryTravel   Category = "travel"
	CategoryFood     Category = "food"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryDaily,
		CategoryBusiness,
		CategoryTravel,
		CategoryFood,
	}
}

// CategoryDisplayName returns a human-readable name for a category.
func CategoryDisplayName(c Category) string {
	switch c {
	case CategoryDaily:
		return "Daily Life"
	case CategoryBusiness:
		return "Business"
	case CategoryTravel:
		return "Travel"
	case CategoryFood:
		return "Food & Drink"
	default:
		return string(c)
	}
}

// Scene is a real-world situation that vocabulary is generated for.
type Scene struct {
	ID          string
	Title       string
	Description string

	// ImageURL is the default picture shown for a card until a generated
	// illustration arrives.
	ImageURL string

	Category Category

	// Color is a palette name (amber, blue, slate, green) resolved by the UI theme.
	Color string
}
