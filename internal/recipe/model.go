package recipe

import (
	"errors"

	"forkify/internal/ingredient"
)

var (
	// ErrRecipeFetchFailed is returned when the recipe detail could not be fetched.
	ErrRecipeFetchFailed = errors.New("recipe fetch failed")
	// ErrMinServings is returned when decreasing servings would go below one.
	ErrMinServings = errors.New("servings cannot go below 1")
	// ErrUnknownDirection is returned for a servings direction other than inc or dec.
	ErrUnknownDirection = errors.New("unknown servings direction")
)

const (
	// DefaultServings is used when the source does not provide a serving count.
	DefaultServings = 4
	// MinutesPerPeriod is the time added for every period of ingredients.
	MinutesPerPeriod = 15
	// IngredientsPerPeriod is the number of ingredients in one period.
	IngredientsPerPeriod = 3
)

// Detail is the recipe payload returned by the detail endpoint.
// Servings is zero when the source did not provide one.
type Detail struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Img             string   `json:"img"`
	URL             string   `json:"url"`
	Servings        int      `json:"servings,omitempty"`
	IngredientLines []string `json:"ingredient_lines"`
}

// View is a detached copy of a recipe for rendering.
type View struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Author         string                  `json:"author"`
	Img            string                  `json:"img"`
	URL            string                  `json:"url"`
	IngredientsRaw []string                `json:"ingredients_raw"`
	Ingredients    []ingredient.Ingredient `json:"ingredients"`
	Servings       int                     `json:"servings"`
	Time           int                     `json:"time"`
}

// Direction is a servings adjustment.
type Direction string

const (
	Inc Direction = "inc"
	Dec Direction = "dec"
)

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Inc, Dec:
		return Direction(s), nil
	default:
		return "", ErrUnknownDirection
	}
}
