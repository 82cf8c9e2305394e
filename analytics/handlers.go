package analytics

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler handles analytics HTTP requests.
type Handler struct {
	tracker        *Tracker
	collectLimiter *rateLimiter
}

// NewHandler creates a new analytics handler.
// The collect endpoint is rate-limited to 60 requests per IP per minute.
func NewHandler(tracker *Tracker) *Handler {
	return &Handler{
		tracker:        tracker,
		collectLimiter: newRateLimiter(60, time.Minute),
	}
}

// CollectRequest is the beacon body sent by the site script.
type CollectRequest struct {
	Name   string            `json:"name"`
	Title  string            `json:"title"`
	Path   string            `json:"path"`
	Params map[string]string `json:"params"`
}

// Input validation limits for the collect endpoint.
const (
	maxPathLen   = 2048
	maxTitleLen  = 256
	maxParams    = 16
	maxParamLen  = 512
	maxParamKey  = 64
	maxEventName = 64
)

var eventNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validateCollectRequest(req *CollectRequest) error {
	if len(req.Name) > maxEventName || !eventNamePattern.MatchString(req.Name) {
		return fmt.Errorf("invalid event name %q", req.Name)
	}
	if len(req.Path) > maxPathLen {
		return fmt.Errorf("path exceeds maximum length of %d", maxPathLen)
	}
	if len(req.Title) > maxTitleLen {
		return fmt.Errorf("title exceeds maximum length of %d", maxTitleLen)
	}
	if len(req.Params) > maxParams {
		return fmt.Errorf("too many params (max %d)", maxParams)
	}
	for k, v := range req.Params {
		if len(k) == 0 || len(k) > maxParamKey || len(v) > maxParamLen {
			return fmt.Errorf("param %q out of bounds", k)
		}
	}
	return nil
}

// Collect handles incoming event beacons from clients.
func (h *Handler) Collect(c echo.Context) error {
	if !h.collectLimiter.allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	if c.Request().Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var req CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateCollectRequest(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	ua := c.Request().UserAgent()
	if IsBot(ua) {
		return c.NoContent(http.StatusNoContent)
	}

	label := req.Title
	if label == "" {
		label = req.Path
	}
	ev := NewEvent(req.Name, label, req.Params)
	ev.Path = req.Path
	ev.VisitorID = VisitorID(c.RealIP(), ua)
	if !h.tracker.Enqueue(ev) {
		c.Logger().Warnf("analytics queue full, dropped %s", ev.Name)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers analytics routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/analytics/collect", h.Collect)
}
