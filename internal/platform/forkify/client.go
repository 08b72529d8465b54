// Package forkify is a client for the Forkify recipe API.
package forkify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"forkify/internal/recipe"
	"forkify/internal/search"
)

// DefaultBaseURL is the public Forkify API.
const DefaultBaseURL = "https://forkify-api.herokuapp.com/api"

// ErrNotFound is returned when the API has no recipe for an id.
var ErrNotFound = errors.New("recipe not found")

// Compile-time interface checks.
var (
	_ search.Searcher = (*Client)(nil)
	_ recipe.Fetcher  = (*Client)(nil)
)

// Client talks to the Forkify search and detail endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL (DefaultBaseURL when empty).
// A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Search returns the summaries matching query.
func (c *Client) Search(ctx context.Context, query string) ([]search.Summary, error) {
	var body searchResponse
	if err := c.get(ctx, "/search", url.Values{"q": {query}}, &body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("search api error: %s", body.Error)
	}

	out := make([]search.Summary, 0, len(body.Recipes))
	for _, r := range body.Recipes {
		out = append(out, search.Summary{
			ID:        r.RecipeID,
			Title:     r.Title,
			Publisher: r.Publisher,
			ImageURL:  r.ImageURL,
		})
	}
	return out, nil
}

// GetRecipe returns the detail of recipe id.
func (c *Client) GetRecipe(ctx context.Context, id string) (*recipe.Detail, error) {
	var body getResponse
	if err := c.get(ctx, "/get", url.Values{"rId": {id}}, &body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("get api error: %s", body.Error)
	}
	if body.Recipe == nil {
		return nil, ErrNotFound
	}

	r := body.Recipe
	return &recipe.Detail{
		Title:           r.Title,
		Author:          r.Publisher,
		Img:             r.ImageURL,
		URL:             r.SourceURL,
		Servings:        r.Servings,
		IngredientLines: r.Ingredients,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
