package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/ventas-api/internal/middleware"
	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/services"
)

var errBadParam = errors.New("bad parameter")

// respondError maps a service error onto its status code. Unexpected errors
// are reported to Sentry and hidden from the caller.
func respondError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.KindBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": services.IsRetryable(err)})
	default:
		_ = c.Error(err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{ID: middleware.GetActorID(c), Role: middleware.GetActorRole(c)}
}

// pathID parses a numeric path parameter, answering 400 when it is not one
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, fmt.Errorf("%w: %s must be a positive integer", errBadParam, name))
		return 0, false
	}
	return uint(id), true
}

// listQuery reads page/per_page and the named equality filters
func listQuery(c *gin.Context, filters ...string) *repository.ListQuery {
	query := repository.NewListQuery()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil && perPage > 0 && perPage <= 200 {
		query.PerPage = perPage
	}
	for _, f := range filters {
		if v := c.Query(f); v != "" {
			query.Filters[f] = v
		}
	}
	return query
}

func paginated(c *gin.Context, key string, items any, total int64, query *repository.ListQuery) {
	c.JSON(http.StatusOK, gin.H{
		key: items,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// parseDate reads an optional YYYY-MM-DD value; "" yields nil. Timestamps
// resolve to their day in loc.
func parseDate(name, raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	day, err := models.ParseDay(raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", errBadParam, name)
	}
	return &day, nil
}

// dateRange reads the optional from/to query parameters
func dateRange(c *gin.Context, loc *time.Location) (repository.DateRange, bool) {
	from, err := parseDate("from", c.Query("from"), loc)
	if err != nil {
		badRequest(c, err)
		return repository.DateRange{}, false
	}
	to, err := parseDate("to", c.Query("to"), loc)
	if err != nil {
		badRequest(c, err)
		return repository.DateRange{}, false
	}
	return repository.DateRange{From: from, To: to}, true
}
