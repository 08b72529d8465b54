package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/recipes/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/recipes/:id", "418"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/recipes/123", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/recipes/:id", "418"))
	assert.Equal(t, before+1, after)
}

func TestMiddleware_UnmatchedPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	assert.Equal(t, before+1, after)
}
