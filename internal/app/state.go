// Package app owns one client's application state: the current search and
// recipe, the shopping list and the likes. It is the glue between user
// actions and the state entities.
package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/logger"
	"forkify/internal/metrics"
	"forkify/internal/recipe"
	"forkify/internal/search"
	"forkify/internal/storage"
)

var (
	ErrEmptyQuery = errors.New("search query is empty")
	ErrNoSearch   = errors.New("no search has been run")
	ErrNoRecipe   = errors.New("no recipe selected")
	// ErrSuperseded is returned when a newer search or recipe selection
	// finished first; the older result is discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// Options configures a State.
type Options struct {
	Searcher search.Searcher
	Fetcher  recipe.Fetcher
	Store    storage.BlobStore
	PageSize int
}

// State is safe for concurrent use. Fetches run without holding the lock;
// every other operation runs to completion, persistence included, under it.
type State struct {
	mu       sync.Mutex
	searcher search.Searcher
	fetcher  recipe.Fetcher
	pageSize int

	search *search.Search
	recipe *recipe.Recipe
	list   *list.List
	likes  *likes.Likes

	searchToken uint64
	recipeToken uint64
}

// RecipeView is the selected recipe plus whether it is liked.
type RecipeView struct {
	recipe.View
	Liked bool `json:"liked"`
}

// LikeToggle is the outcome of ToggleLike.
type LikeToggle struct {
	Liked    bool       `json:"liked"`
	Like     likes.Like `json:"like"`
	NumLikes int        `json:"num_likes"`
}

// NewState creates a state and restores the persisted likes.
func NewState(ctx context.Context, opts Options) *State {
	if opts.PageSize <= 0 {
		opts.PageSize = search.DefaultPageSize
	}
	s := &State{
		searcher: opts.Searcher,
		fetcher:  opts.Fetcher,
		pageSize: opts.PageSize,
		likes:    likes.New(opts.Store),
	}
	s.likes.ReadStorage(ctx)
	return s
}

// Search runs a new search and returns its first page.
func (s *State) Search(ctx context.Context, query string) (search.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return search.Page{}, ErrEmptyQuery
	}

	s.mu.Lock()
	s.searchToken++
	token := s.searchToken
	s.mu.Unlock()

	srch := search.New(query, s.searcher)
	if err := srch.GetResults(ctx); err != nil {
		metrics.SearchRequests.WithLabelValues(metrics.OutcomeFailure).Inc()
		return search.Page{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.searchToken {
		metrics.SearchRequests.WithLabelValues(metrics.OutcomeSuperseded).Inc()
		logger.FromContext(ctx).Debug("discarding stale search results", "query", query)
		return search.Page{}, ErrSuperseded
	}
	s.search = srch
	metrics.SearchRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return search.Paginate(srch.Result, 1, s.pageSize), nil
}

// ResultsPage paginates the current results without fetching again.
func (s *State) ResultsPage(page int) (search.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.search == nil {
		return search.Page{}, ErrNoSearch
	}
	return search.Paginate(s.search.Result, page, s.pageSize), nil
}

// Query returns the current search query, empty when none has run.
func (s *State) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.search == nil {
		return ""
	}
	return s.search.Query
}

// SelectRecipe fetches and prepares recipe id and makes it current.
func (s *State) SelectRecipe(ctx context.Context, id string) (RecipeView, error) {
	s.mu.Lock()
	s.recipeToken++
	token := s.recipeToken
	s.mu.Unlock()

	r := recipe.New(id, s.fetcher)
	if err := r.Load(ctx); err != nil {
		metrics.RecipeFetches.WithLabelValues(metrics.OutcomeFailure).Inc()
		return RecipeView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.recipeToken {
		metrics.RecipeFetches.WithLabelValues(metrics.OutcomeSuperseded).Inc()
		logger.FromContext(ctx).Debug("discarding stale recipe", "recipe_id", id)
		return RecipeView{}, ErrSuperseded
	}
	s.recipe = r
	metrics.RecipeFetches.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return RecipeView{View: r.Snapshot(), Liked: s.likes.IsLiked(id)}, nil
}

// CurrentRecipe returns the selected recipe.
func (s *State) CurrentRecipe() (RecipeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return RecipeView{}, ErrNoRecipe
	}
	return RecipeView{View: s.recipe.Snapshot(), Liked: s.likes.IsLiked(s.recipe.ID)}, nil
}

// UpdateServings adjusts the current recipe's servings by one step.
func (s *State) UpdateServings(dir recipe.Direction) (recipe.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return recipe.View{}, ErrNoRecipe
	}
	if err := s.recipe.UpdateServings(dir); err != nil {
		return s.recipe.Snapshot(), err
	}
	return s.recipe.Snapshot(), nil
}

// AddRecipeToList adds every ingredient of the current recipe to the
// shopping list, creating the list on first use, and returns the new items.
func (s *State) AddRecipeToList() ([]list.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return nil, ErrNoRecipe
	}
	if s.list == nil {
		s.list = list.New()
	}

	added := make([]list.Item, 0, len(s.recipe.Ingredients))
	for _, ing := range s.recipe.Ingredients {
		var count float64
		if ing.Count != nil {
			count = *ing.Count
		}
		added = append(added, s.list.AddItem(count, ing.Unit, ing.Ingredient))
	}
	metrics.ListItemsAdded.Add(float64(len(added)))
	return added, nil
}

// ListItems returns the shopping list, empty before anything was added.
func (s *State) ListItems() []list.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.list == nil {
		return []list.Item{}
	}
	return s.list.Items()
}

// UpdateListItem sets an item's count. A count that is not positive removes
// the item instead; deleted reports which happened.
func (s *State) UpdateListItem(id string, count float64) (deleted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !(count > 0) {
		if s.list != nil {
			s.list.DeleteItem(id)
		}
		return true, nil
	}
	if s.list == nil {
		return false, list.ErrItemNotFound
	}
	return false, s.list.UpdateCount(id, count)
}

// DeleteListItem removes an item. Unknown ids are ignored.
func (s *State) DeleteListItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.list != nil {
		s.list.DeleteItem(id)
	}
}

// ExportList writes the shopping list as XLSX.
func (s *State) ExportList(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.list
	if l == nil {
		l = list.New()
	}
	return l.WriteXLSX(w)
}

// ToggleLike likes the current recipe, or unlikes it when already liked.
func (s *State) ToggleLike(ctx context.Context) (LikeToggle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.recipe
	if r == nil {
		return LikeToggle{}, ErrNoRecipe
	}

	if !s.likes.IsLiked(r.ID) {
		like, err := s.likes.AddLike(ctx, r.ID, r.Title, r.Author, r.Img)
		if err != nil {
			return LikeToggle{}, err
		}
		metrics.LikesToggled.WithLabelValues(metrics.ActionLike).Inc()
		return LikeToggle{Liked: true, Like: like, NumLikes: s.likes.NumLikes()}, nil
	}

	like := likes.Like{ID: r.ID, Title: r.Title, Author: r.Author, Img: r.Img}
	if err := s.likes.DeleteLike(ctx, r.ID); err != nil {
		return LikeToggle{}, err
	}
	metrics.LikesToggled.WithLabelValues(metrics.ActionUnlike).Inc()
	return LikeToggle{Liked: false, Like: like, NumLikes: s.likes.NumLikes()}, nil
}

// Likes returns the liked recipes.
func (s *State) Likes() []likes.Like {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.likes.All()
}
