package catalog

// scenes is the fixed scene catalog. It is never mutated after init.
var scenes = []Scene{
	{
		ID:          "coffee-shop",
		Title:       "Coffee Shop",
		Description: "Ordering drinks and snacks",
		ImageURL:    "https://picsum.photos/seed/coffee/600/400",
		Category:    CategoryFood,
		Color:       "amber",
	},
	{
		ID:          "subway",
		Title:       "Subway Station",
		Description: "Navigating public transport",
		ImageURL:    "https://picsum.photos/seed/subway/600/400",
		Category:    CategoryTravel,
		Color:       "blue",
	},
	{
		ID:          "office",
		Title:       "Business Meeting",
		Description: "Workplace vocabulary",
		ImageURL:    "https://picsum.photos/seed/office/600/400",
		Category:    CategoryBusiness,
		Color:       "slate",
	},
	{
		ID:          "supermarket",
		Title:       "Supermarket",
		Description: "Buying groceries",
		ImageURL:    "https://picsum.photos/seed/market/600/400",
		Category:    CategoryDaily,
		Color:       "green",
	},
}

var byID map[string]int

func init() {
	byID = make(map[string]int, len(scenes))
	for i, s := range scenes {
		byID[s.ID] = i
	}
}

// All returns a copy of every scene in catalog order.
func All() []Scene {
	out := make([]Scene, len(scenes))
	copy(out, scenes)
	return out
}

// ByID looks up a scene by its identifier.
func ByID(id string) (Scene, bool) {
	i, ok := byID[id]
	if !ok {
		return Scene{}, false
	}
	return scenes[i], true
}

// ByCategory returns the scenes in a category, in catalog order.
// An empty category returns every scene.
func ByCategory(c Category) []Scene {
	if c == "" {
		return All()
	}
	var out []Scene
	for _, s := range scenes {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}
