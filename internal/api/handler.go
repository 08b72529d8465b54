package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"forkify/internal/app"
	"forkify/internal/list"
	"forkify/internal/logger"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

const (
	msgSearchFailed = "Something wrong with the search..."
	msgRecipeFailed = "Error processing recipe!"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "shopping-list.xlsx"
	defaultTimeout  = 15 * time.Second
)

// SessionStore hands out the application state of a session.
type SessionStore interface {
	Get(ctx context.Context, id string) *app.State
}

// Handler handles HTTP requests.
type Handler struct {
	Sessions     SessionStore
	FetchTimeout time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(sessions SessionStore, fetchTimeout time.Duration) *Handler {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultTimeout
	}
	return &Handler{Sessions: sessions, FetchTimeout: fetchTimeout}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/search", h.Search)
	r.GET("/search/pages/:page", h.SearchPage)
	r.GET("/recipes/:id", h.GetRecipe)
	r.GET("/recipe", h.CurrentRecipe)
	r.POST("/recipe/servings", h.UpdateServings)
	r.POST("/recipe/list", h.AddToList)
	r.POST("/recipe/like", h.ToggleLike)
	r.GET("/list", h.GetList)
	r.GET("/list/export", h.ExportList)
	r.PATCH("/list/:id", h.UpdateListItem)
	r.DELETE("/list/:id", h.DeleteListItem)
	r.GET("/likes", h.GetLikes)
}

type searchRequest struct {
	Query string `form:"q" validate:"required,max=200"`
}

type servingsRequest struct {
	Direction string `json:"direction" validate:"required,direction"`
}

type countRequest struct {
	Count *float64 `json:"count" validate:"required"`
}

// resultItem is a search hit with the title shortened for list display.
type resultItem struct {
	search.Summary
	ShortTitle string `json:"short_title"`
}

type resultsPage struct {
	Query    string       `json:"query"`
	Items    []resultItem `json:"items"`
	Page     int          `json:"page"`
	Pages    int          `json:"pages"`
	PrevPage int          `json:"prev_page,omitempty"`
	NextPage int          `json:"next_page,omitempty"`
	Total    int          `json:"total"`
}

func newResultsPage(query string, p search.Page) resultsPage {
	items := make([]resultItem, len(p.Items))
	for i, s := range p.Items {
		items[i] = resultItem{Summary: s, ShortTitle: search.LimitTitle(s.Title, search.DefaultTitleLimit)}
	}
	return resultsPage{
		Query:    query,
		Items:    items,
		Page:     p.Page,
		Pages:    p.Pages,
		PrevPage: p.PrevPage,
		NextPage: p.NextPage,
		Total:    p.Total,
	}
}

// state returns the calling session's state.
func (h *Handler) state(c *gin.Context) *app.State {
	return h.Sessions.Get(c.Request.Context(), c.GetString(sessionKey))
}

// Search runs a new query and returns the first page of results.
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FormatValidationError(err)})
		return
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FormatValidationError(err)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.FetchTimeout)
	defer cancel()

	st := h.state(c)
	page, err := st.Search(ctx, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyQuery):
			c.JSON(http.StatusBadRequest, gin.H{"errors": map[string]string{"q": "This field is required"}})
		case errors.Is(err, app.ErrSuperseded):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.FromContext(ctx).Warn("search failed", "query", req.Query, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": msgSearchFailed})
		}
		return
	}

	c.JSON(http.StatusOK, newResultsPage(st.Query(), page))
}

// SearchPage returns another page of the current results without
// searching again.
func (h *Handler) SearchPage(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": map[string]string{"page": "Must be a number"}})
		return
	}

	st := h.state(c)
	page, err := st.ResultsPage(n)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newResultsPage(st.Query(), page))
}

// GetRecipe selects a recipe, loads it and makes it current.
func (h *Handler) GetRecipe(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.FetchTimeout)
	defer cancel()

	view, err := h.state(c).SelectRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, app.ErrSuperseded) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.FromContext(ctx).Warn("recipe load failed", "recipe_id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgRecipeFailed})
		return
	}

	c.JSON(http.StatusOK, view)
}

// CurrentRecipe returns the selected recipe.
func (h *Handler) CurrentRecipe(c *gin.Context) {
	view, err := h.state(c).CurrentRecipe()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateServings steps the current recipe's servings up or down.
func (h *Handler) UpdateServings(c *gin.Context) {
	var req servingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FormatValidationError(err)})
		return
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FormatValidationError(err)})
		return
	}

	view, err := h.state(c).UpdateServings(recipe.Direction(req.Direction))
	switch {
	case errors.Is(err, app.ErrNoRecipe):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, recipe.ErrMinServings):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "recipe": view})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, view)
	}
}

// AddToList adds the current recipe's ingredients to the shopping list.
func (h *Handler) AddToList(c *gin.Context) {
	added, err := h.state(c).AddRecipeToList()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": added})
}

// GetList returns the shopping list.
func (h *Handler) GetList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.state(c).ListItems()})
}

// UpdateListItem sets an item's count; a count of zero or less removes it.
func (h *Handler) UpdateListItem(c *gin.Context) {
	id := c.Param("id")

	var req countRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FormatValidationError(err)})
		return
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FormatValidationError(err)})
		return
	}

	deleted, err := h.state(c).UpdateListItem(id, *req.Count)
	switch {
	case errors.Is(err, list.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, list.ErrInvalidCount):
		c.JSON(http.StatusBadRequest, gin.H{"errors": map[string]string{"count": "Invalid value"}})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"id": id, "count": *req.Count, "deleted": deleted})
	}
}

// DeleteListItem removes an item from the shopping list.
func (h *Handler) DeleteListItem(c *gin.Context) {
	h.state(c).DeleteListItem(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ExportList downloads the shopping list as a spreadsheet.
func (h *Handler) ExportList(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.state(c).ExportList(&buf); err != nil {
		logger.FromContext(c.Request.Context()).Error("shopping list export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ToggleLike likes or unlikes the current recipe.
func (h *Handler) ToggleLike(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.state(c).ToggleLike(ctx)
	if err != nil {
		if errors.Is(err, app.ErrNoRecipe) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.FromContext(ctx).Error("like toggle failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save likes"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetLikes returns the liked recipes.
func (h *Handler) GetLikes(c *gin.Context) {
	all := h.state(c).Likes()
	c.JSON(http.StatusOK, gin.H{"likes": all, "num_likes": len(all)})
}
