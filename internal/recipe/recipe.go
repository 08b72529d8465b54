// Package recipe holds one selected recipe, its parsed ingredients and the
// serving/time values derived from them.
package recipe

import (
	"context"
	"fmt"

	"forkify/internal/ingredient"
)

// Fetcher retrieves recipe details by id.
type Fetcher interface {
	GetRecipe(ctx context.Context, id string) (*Detail, error)
}

// Recipe is the currently selected recipe.
type Recipe struct {
	ID             string
	Title          string
	Author         string
	Img            string
	URL            string
	IngredientsRaw []string
	Ingredients    []ingredient.Ingredient
	Servings       int
	Time           int

	sourceServings int
	fetcher        Fetcher
}

// New creates an unfetched recipe for id.
func New(id string, fetcher Fetcher) *Recipe {
	return &Recipe{ID: id, fetcher: fetcher}
}

// GetRecipe fetches the recipe details. The recipe is only modified when the
// fetch succeeds.
func (r *Recipe) GetRecipe(ctx context.Context) error {
	d, err := r.fetcher.GetRecipe(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("%w: id %s: %v", ErrRecipeFetchFailed, r.ID, err)
	}
	if d == nil {
		return fmt.Errorf("%w: id %s: empty response", ErrRecipeFetchFailed, r.ID)
	}

	r.Title = d.Title
	r.Author = d.Author
	r.Img = d.Img
	r.URL = d.URL
	r.IngredientsRaw = append([]string(nil), d.IngredientLines...)
	r.sourceServings = d.Servings
	return nil
}

// ParseIngredients derives Ingredients from IngredientsRaw.
func (r *Recipe) ParseIngredients() {
	r.Ingredients = ingredient.ParseAll(r.IngredientsRaw)
}

// CalcTime estimates the cooking time: MinutesPerPeriod for every started
// group of IngredientsPerPeriod ingredients.
func (r *Recipe) CalcTime() {
	periods := (len(r.Ingredients) + IngredientsPerPeriod - 1) / IngredientsPerPeriod
	r.Time = periods * MinutesPerPeriod
}

// CalcServings sets the initial serving count from the source, falling back
// to DefaultServings.
func (r *Recipe) CalcServings() {
	if r.sourceServings >= 1 {
		r.Servings = r.sourceServings
		return
	}
	r.Servings = DefaultServings
}

// Load runs the full selection sequence: fetch, parse, servings, time.
func (r *Recipe) Load(ctx context.Context) error {
	if err := r.GetRecipe(ctx); err != nil {
		return err
	}
	r.ParseIngredients()
	r.CalcServings()
	r.CalcTime()
	return nil
}

// UpdateServings moves the serving count one step and rescales every counted
// ingredient by new/old. Counts are rescaled from their current value, so long
// inc/dec sequences accumulate floating point drift.
func (r *Recipe) UpdateServings(dir Direction) error {
	if r.Servings < 1 {
		r.CalcServings()
	}

	var next int
	switch dir {
	case Inc:
		next = r.Servings + 1
	case Dec:
		if r.Servings <= 1 {
			return ErrMinServings
		}
		next = r.Servings - 1
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, dir)
	}

	factor := float64(next) / float64(r.Servings)
	for i, ing := range r.Ingredients {
		r.Ingredients[i] = ing.Scale(factor)
	}
	r.Servings = next
	return nil
}

// Snapshot returns a copy of the recipe that shares no memory with it.
func (r *Recipe) Snapshot() View {
	ings := make([]ingredient.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ings[i] = ing.Scale(1)
	}
	return View{
		ID:             r.ID,
		Title:          r.Title,
		Author:         r.Author,
		Img:            r.Img,
		URL:            r.URL,
		IngredientsRaw: append([]string{}, r.IngredientsRaw...),
		Ingredients:    ings,
		Servings:       r.Servings,
		Time:           r.Time,
	}
}
