package lexsite

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/lexsite/analytics"
	"github.com/eringen/lexsite/listing"
	"github.com/eringen/lexsite/views"
)

// homeLatest is how many posts the landing page previews.
const homeLatest = 3

func (a *App) handleHome(c echo.Context) error {
	reg, err := a.Cache.Registry()
	if err != nil {
		return err
	}
	latest := reg.Posts()
	if len(latest) > homeLatest {
		latest = latest[:homeLatest]
	}
	return Render(c, a.Views.Home(views.HomePage{
		Site:   a.site(),
		Meta:   a.meta(c, ""),
		Toast:  TakeToast(c),
		Latest: latest,
	}))
}

// handleBlog builds a listing controller over the current registry and
// replays the request's category and page onto it. An unknown or
// out-of-range page leaves the first page showing.
func (a *App) handleBlog(c echo.Context) error {
	reg, err := a.Cache.Registry()
	if err != nil {
		return err
	}
	view := &listing.PageView{}
	ctrl := listing.New(reg, listing.Options{
		PageSize:     a.Config.PageSize,
		Presentation: view,
		Categories:   view,
		Events:       a.eventSink(c),
		Logger:       c.Logger(),
	})
	if cat := c.QueryParam("category"); cat != "" && cat != listing.AllCategories {
		ctrl.SelectCategory(cat)
	}
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n != ctrl.CurrentPage() {
		ctrl.ShowPage(n)
	}

	page := views.BlogPage{
		Site:       a.site(),
		Meta:       a.meta(c, "Blog"),
		Categories: reg.Categories(),
		View:       view,
	}
	c.Response().Header().Add(echo.HeaderVary, partialHeader)
	if isPartial(c) && c.QueryParam("partial") == "list" {
		return Render(c, a.Views.BlogList(page))
	}
	page.Toast = TakeToast(c)
	return Render(c, a.Views.Blog(page))
}

// handlePost redirects a slug to the post's published URL.
func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	return c.Redirect(http.StatusFound, post.URL)
}

func (a *App) handleSitemap(c echo.Context) error {
	reg, err := a.Cache.Registry()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, reg)
}

func (a *App) handleFeed(c echo.Context) error {
	reg, err := a.Cache.Registry()
	if err != nil {
		return err
	}
	return a.renderRSS(c, reg.Posts())
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(views.ErrorPage{
		Site: a.site(),
		Meta: a.meta(c, "Página no encontrada"),
	}))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(views.ErrorPage{
			Site: a.site(),
			Meta: a.meta(c, "Error"),
		}))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// eventSink returns the sink listing events from this request go to:
// always the metrics counters, and the analytics tracker unless the
// client opted out or is a bot.
func (a *App) eventSink(c echo.Context) listing.EventSink {
	if a.tracker == nil || c.Request().Header.Get("DNT") == "1" || analytics.IsBot(c.Request().UserAgent()) {
		return a.metrics.Sink(nil)
	}
	return a.metrics.Sink(requestSink{
		tracker:   a.tracker,
		path:      c.Request().URL.Path,
		visitorID: analytics.VisitorID(c.RealIP(), c.Request().UserAgent()),
	})
}

// requestSink stamps server-side events with the request path and visitor.
type requestSink struct {
	tracker   *analytics.Tracker
	path      string
	visitorID string
}

func (s requestSink) Track(name string, params map[string]string) {
	ev := analytics.NewEvent(name, s.path, params)
	ev.Path = s.path
	ev.VisitorID = s.visitorID
	s.tracker.Enqueue(ev)
}
