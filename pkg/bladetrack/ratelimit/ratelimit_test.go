package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestAllowRefillsPerClient(t *testing.T) {
	clk := &clock{t: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)}
	l := New(60, 2, WithClock(clk.now))

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, l.Allow("10.0.0.2"), "other clients have their own bucket")

	clk.t = clk.t.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token per second at 60/min")
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestIdleClientsAreForgotten(t *testing.T) {
	clk := &clock{t: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)}
	l := New(60, 1, WithClock(clk.now))

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	require.Equal(t, 2, l.Tracked())

	clk.t = clk.t.Add(idleTTL + time.Minute)
	l.Allow("10.0.0.3")
	assert.Equal(t, 1, l.Tracked())
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clk := &clock{t: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)}
	l := New(30, 1, WithClock(clk.now))

	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.7:51000"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)

	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	var body apierr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierr.KindRateLimited, body.Kind)

	clk.t = clk.t.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, do().Code)
}
