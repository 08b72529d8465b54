package forkify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "count": 2,
  "recipes": [
    {"publisher": "101 Cookbooks", "title": "Best Pizza Dough Ever", "source_url": "http://www.101cookbooks.com/archives/001199.html", "recipe_id": "47746", "image_url": "http://forkify-api.herokuapp.com/images/best_pizza_dough_recipe1b20.jpg", "social_rank": 100},
    {"publisher": "The Pioneer Woman", "title": "Mac &amp; Cheese", "recipe_id": "46956", "image_url": "http://example.com/mac.jpg"}
  ]
}`

const getBody = `{
  "recipe": {
    "publisher": "Closet Cooking",
    "ingredients": ["4 1/2 cups (20.25 ounces) unbleached high-gluten flour", "1 3/4 teaspoons salt", "Semolina &amp; cornmeal for dusting"],
    "source_url": "http://www.closetcooking.com/2011/08/pizza.html",
    "recipe_id": "35477",
    "image_url": "http://example.com/pizza.jpg",
    "title": "Pizza Dip"
  }
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", srv.Client())
}

func TestSearch(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	results, err := c.Search(context.Background(), "pizza & pasta")
	require.NoError(t, err)
	assert.Equal(t, "/api/search", gotPath)
	assert.Equal(t, "pizza & pasta", gotQuery)

	require.Len(t, results, 2)
	assert.Equal(t, "47746", results[0].ID)
	assert.Equal(t, "Best Pizza Dough Ever", results[0].Title)
	assert.Equal(t, "101 Cookbooks", results[0].Publisher)
	assert.Equal(t, "Mac & Cheese", results[1].Title)
}

func TestSearch_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Forbidden"}`))
	})
	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Forbidden")
}

func TestSearch_BadStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSearch_BadBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recipes": [`))
	})
	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestGetRecipe(t *testing.T) {
	var gotID string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/get", r.URL.Path)
		gotID = r.URL.Query().Get("rId")
		_, _ = w.Write([]byte(getBody))
	})

	d, err := c.GetRecipe(context.Background(), "35477")
	require.NoError(t, err)
	assert.Equal(t, "35477", gotID)
	assert.Equal(t, "Pizza Dip", d.Title)
	assert.Equal(t, "Closet Cooking", d.Author)
	assert.Equal(t, "http://example.com/pizza.jpg", d.Img)
	assert.Equal(t, "http://www.closetcooking.com/2011/08/pizza.html", d.URL)
	assert.Zero(t, d.Servings)
	require.Len(t, d.IngredientLines, 3)
	assert.Equal(t, "Semolina & cornmeal for dusting", d.IngredientLines[2])
}

func TestGetRecipe_NotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.GetRecipe(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	empty := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err = empty.GetRecipe(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRecipe_ContextCanceled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(getBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetRecipe(ctx, "35477")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, http.DefaultClient, c.httpClient)
}
