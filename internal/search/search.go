// Package search holds a recipe query and the summaries it returned.
package search

import (
	"context"
	"errors"
	"fmt"
)

// ErrSearchFailed is returned when the search endpoint could not be reached
// or its response could not be read.
var ErrSearchFailed = errors.New("search failed")

// Summary is a lightweight search hit.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	ImageURL  string `json:"image_url"`
}

// Searcher runs a query against the recipe search endpoint.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Summary, error)
}

// Search is one query and its results.
type Search struct {
	Query  string
	Result []Summary

	searcher Searcher
}

// New creates a search for query. Nothing is fetched until GetResults.
func New(query string, searcher Searcher) *Search {
	return &Search{Query: query, searcher: searcher}
}

// GetResults fetches the results for the query and replaces Result.
// On failure Result is left as it was.
func (s *Search) GetResults(ctx context.Context) error {
	res, err := s.searcher.Search(ctx, s.Query)
	if err != nil {
		return fmt.Errorf("%w: query %q: %v", ErrSearchFailed, s.Query, err)
	}
	if res == nil {
		res = []Summary{}
	}
	s.Result = res
	return nil
}
