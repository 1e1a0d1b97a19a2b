package recipe

// Ingredient is one line of a saved recipe.
type Ingredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// UserRecipe is a recipe the user saved explicitly, either entered by hand,
// clipped from a URL, or promoted from a generated plan.
type UserRecipe struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Cuisine      string       `json:"cuisine"`
	PrepTime     string       `json:"prep_time"`
	CookTime     string       `json:"cook_time"`
	Servings     int          `json:"servings"`
	Difficulty   string       `json:"difficulty"` // Easy | Medium | Hard
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Notes        string       `json:"notes,omitempty"`
	SourceURL    string       `json:"source_url,omitempty"`
	IsFavorite   bool         `json:"is_favorite"`
}
