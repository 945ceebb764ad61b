// Package daterange reads the from/to query parameters shared by the history,
// statistics and export endpoints. Both ends are inclusive; a bare date in
// "to" covers that whole day.
package daterange

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
)

const dateLayout = "2006-01-02"

// Parse reads the optional from and to query parameters as RFC 3339 or
// YYYY-MM-DD (UTC)
func Parse(c *gin.Context) (from, to *time.Time, err error) {
	if from, err = parse(c.Query("from"), "from", false); err != nil {
		return nil, nil, err
	}
	if to, err = parse(c.Query("to"), "to", true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apierr.BadRequest("to must not be before from")
	}
	return from, to, nil
}

func parse(raw, name string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apierr.BadRequest("Invalid " + name + ", expected RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
