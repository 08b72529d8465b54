package forkify

import (
	"encoding/json"
	"html"
)

// searchResponse is the body of GET /search.
type searchResponse struct {
	Count   int         `json:"count"`
	Recipes []apiRecipe `json:"recipes"`
	Error   string      `json:"error,omitempty"`
}

// getResponse is the body of GET /get.
type getResponse struct {
	Recipe *apiRecipe `json:"recipe"`
	Error  string     `json:"error,omitempty"`
}

// apiRecipe is a recipe as the API returns it. Search hits leave
// Ingredients empty.
type apiRecipe struct {
	RecipeID    string   `json:"recipe_id"`
	Title       string   `json:"title"`
	Publisher   string   `json:"publisher"`
	ImageURL    string   `json:"image_url"`
	SourceURL   string   `json:"source_url"`
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings,omitempty"`
	SocialRank  float64  `json:"social_rank,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for apiRecipe.
// The API returns HTML-escaped text ("Mac &amp; Cheese").
func (r *apiRecipe) UnmarshalJSON(data []byte) error {
	type Alias apiRecipe // Create an alias to avoid infinite recursion
	aux := (*Alias)(r)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	r.Title = html.UnescapeString(r.Title)
	r.Publisher = html.UnescapeString(r.Publisher)
	for i, line := range r.Ingredients {
		r.Ingredients[i] = html.UnescapeString(line)
	}
	return nil
}
