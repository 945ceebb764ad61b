package daterange

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, query string) (*time.Time, *time.Time, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/?"+query, nil)
	require.NoError(t, err)
	c.Request = req
	return Parse(c)
}

func TestParse(t *testing.T) {
	from, to, err := parseQuery(t, "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	from, to, err = parseQuery(t, "from=2024-03-01&to=2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), *to)

	_, to, err = parseQuery(t, "to=2024-03-01T12:00:00%2B01:00")
	require.NoError(t, err)
	assert.True(t, to.Equal(time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)))
}

func TestParseRejects(t *testing.T) {
	for _, query := range []string{"from=yesterday", "to=2024-13-01", "from=2024-03-02&to=2024-03-01"} {
		_, _, err := parseQuery(t, query)
		assert.True(t, apierr.Is(err, apierr.KindBadRequest), query)
	}
}
