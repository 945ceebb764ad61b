package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddlewareLabelsByRoute(t *testing.T) {
	m := New()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/saws/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/saws/1", "/saws/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	body := scrape(t, m)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/saws/:id",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "http_in_flight_requests 0")
	assert.NotContains(t, body, "/saws/1")
}

func TestTransition(t *testing.T) {
	m := New()
	m.Transition("install", "changed")
	m.Transition("install", "changed")
	m.Transition("swap", "conflict")

	body := scrape(t, m)
	assert.Contains(t, body, `bladetrack_lifecycle_transitions_total{operation="install",outcome="changed"} 2`)
	assert.Contains(t, body, `bladetrack_lifecycle_transitions_total{operation="swap",outcome="conflict"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Transition("uninstall", "no_change")

	assert.NotContains(t, scrape(t, b), `operation="uninstall"`)
}
