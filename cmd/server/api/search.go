package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/geoapi/pkg/geoapi"
	"github.com/manzanit0/geoapi/pkg/geocode"
	"github.com/manzanit0/geoapi/pkg/history"
	"github.com/manzanit0/geoapi/pkg/middleware"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type SearchController struct {
	client   *geoapi.Client
	geocoder geocode.Client
	history  history.Repository
}

// NewSearchController builds the relay handlers. history may be nil, in
// which case calls are not recorded and /history answers 404.
func NewSearchController(c *geoapi.Client, g geocode.Client, h history.Repository) *SearchController {
	return &SearchController{client: c, geocoder: g, history: h}
}

func (s *SearchController) Register(r gin.IRoutes) {
	r.GET("/search/:method", s.Search)
	r.GET("/entities/:guid/search", s.EntitySearch)
	r.GET("/geocode", s.Geocode)
	r.GET("/reverse", s.Reverse)
	r.GET("/history", s.History)
}

func (s *SearchController) Search(c *gin.Context) {
	args, ok := queryArgs(c)
	if !ok {
		return
	}

	s.relay(c, c.Param("method"), args)
}

func (s *SearchController) EntitySearch(c *gin.Context) {
	args, ok := queryArgs(c)
	if !ok {
		return
	}

	args["guid"] = c.Param("guid")
	s.relay(c, geoapi.MethodKeywordEntity, args)
}

func (s *SearchController) Geocode(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q query parameter"})
		return
	}

	loc, err := s.geocoder.Geocode(q)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "geocode", "error", err.Error(), "query", q)
		c.JSON(statusFor(err, http.StatusNotFound), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loc)
}

func (s *SearchController) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
		return
	}

	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be a number"})
		return
	}

	loc, err := s.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "reverse geocode", "error", err.Error(), "lat", lat, "lon", lon)
		c.JSON(statusFor(err, http.StatusNotFound), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loc)
}

func (s *SearchController) History(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := s.history.ListRecent(c.Request.Context(), limit)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "list history", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *SearchController) relay(c *gin.Context, method string, args geoapi.Args) {
	ctx := c.Request.Context()
	t0 := time.Now()

	resp, err := s.client.Call(geoapi.NamespaceSearch, method, args)
	s.record(ctx, method, args, time.Since(t0), err)

	if err != nil {
		slog.ErrorContext(ctx, "relay search", "error", err.Error(), "method", method)
		c.JSON(statusFor(err, http.StatusInternalServerError), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *SearchController) record(ctx context.Context, method string, args geoapi.Args, d time.Duration, callErr error) {
	if s.history == nil {
		return
	}

	query, err := geoapi.Encode(args)
	if err != nil {
		query = ""
	}

	entry := history.Entry{
		TraceID:    middleware.TraceIDFromContext(ctx),
		Method:     geoapi.NamespaceSearch + "." + method,
		Query:      query,
		Outcome:    history.OutcomeOK,
		DurationMS: d.Milliseconds(),
	}

	if callErr != nil {
		entry.Outcome = history.OutcomeError
		entry.Error = callErr.Error()
	}

	if err := s.history.Record(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "unable to record search", "error", err.Error())
	}
}

// queryArgs turns the query string into call arguments. Repeated keys
// become sequences, which the client sends comma separated.
func queryArgs(c *gin.Context) (geoapi.Args, bool) {
	args := geoapi.Args{}
	for k, v := range c.Request.URL.Query() {
		if k == "apikey" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "apikey is set by the server"})
			return nil, false
		}

		if len(v) == 1 {
			args[k] = v[0]
		} else {
			args[k] = v
		}
	}

	return args, true
}

func statusFor(err error, fallback int) int {
	var (
		missing   *geoapi.MissingParameterError
		unknownP  *geoapi.UnknownParameterError
		invalid   *geoapi.InvalidParameterError
		unknownM  *geoapi.UnknownMethodError
		transport *geoapi.TransportError
		parse     *geoapi.ResponseParseError
	)

	switch {
	case errors.As(err, &missing), errors.As(err, &unknownP), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &unknownM):
		return http.StatusNotFound
	case errors.As(err, &transport), errors.As(err, &parse):
		return http.StatusBadGateway
	default:
		return fallback
	}
}
