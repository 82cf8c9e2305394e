package listing

import (
	"errors"
	"strconv"

	"github.com/labstack/gommon/log"
)

// ErrMissingCollaborator is logged when a controller is built without a
// registry or presentation sink. Such a controller stays disabled.
var ErrMissingCollaborator = errors.New("listing: missing collaborator")

// Options configures a Controller. Only Presentation is required.
type Options struct {
	PageSize     int
	Presentation PresentationSink
	Categories   CategorySink
	Events       EventSink
	Logger       Logger
}

// Controller composes a CategoryFilter and a Paginator over one registry.
// It is owned by a single caller and is not safe for concurrent use.
type Controller struct {
	filter  *CategoryFilter
	pager   *Paginator
	sink    PresentationSink
	events  EventSink
	enabled bool
}

// New builds a controller and renders page 1 of the full registry.
// If r or opts.Presentation is nil the controller logs a diagnostic and
// every operation on it is a no-op.
func New(r *Registry, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New("listing")
	}
	if r == nil || opts.Presentation == nil {
		logger.Warnf("%v: registry=%t presentation=%t, listing disabled",
			ErrMissingCollaborator, r != nil, opts.Presentation != nil)
		return &Controller{}
	}

	c := &Controller{
		filter:  NewCategoryFilter(r, opts.Categories),
		pager:   NewPaginator(opts.PageSize, opts.Presentation),
		sink:    opts.Presentation,
		events:  opts.Events,
		enabled: true,
	}
	c.filter.Subscribe(c.apply)
	if opts.Categories != nil {
		opts.Categories.SetActiveCategory(AllCategories)
	}
	c.apply(r.Posts())
	return c
}

// apply hands a new visible set to the paginator and toggles the
// placeholder.
func (c *Controller) apply(visible []Post) {
	c.pager.Reset(visible)
	if len(visible) == 0 {
		c.sink.ShowEmptyPlaceholder()
		c.sink.SetPaginationVisible(false)
		return
	}
	c.sink.ClearEmptyPlaceholder()
	c.sink.SetPaginationVisible(true)
}

// Enabled reports whether the controller has all its collaborators.
func (c *Controller) Enabled() bool { return c.enabled }

// SelectCategory filters the listing to key and resets to page 1, even
// when key is already active.
func (c *Controller) SelectCategory(key string) ([]Post, int) {
	if !c.enabled {
		return nil, 0
	}
	visible, n := c.filter.Select(key)
	c.track("category_select", map[string]string{
		"category":    c.filter.Active(),
		"match_count": strconv.Itoa(n),
	})
	return visible, n
}

// ShowPage renders page n of the visible set. Out-of-range pages are ignored.
func (c *Controller) ShowPage(n int) bool {
	if !c.enabled || !c.pager.ShowPage(n) {
		return false
	}
	c.sink.ScrollToListTop()
	c.track("page_change", map[string]string{
		"category": c.filter.Active(),
		"page":     strconv.Itoa(n),
	})
	return true
}

// NextPage shows the page after the current one.
func (c *Controller) NextPage() bool {
	if !c.enabled {
		return false
	}
	return c.ShowPage(c.pager.CurrentPage() + 1)
}

// PrevPage shows the page before the current one.
func (c *Controller) PrevPage() bool {
	if !c.enabled {
		return false
	}
	return c.ShowPage(c.pager.CurrentPage() - 1)
}

// ActiveCategory returns the selected category key.
func (c *Controller) ActiveCategory() string {
	if !c.enabled {
		return ""
	}
	return c.filter.Active()
}

// CurrentPage returns the current page, or 0 when disabled.
func (c *Controller) CurrentPage() int {
	if !c.enabled {
		return 0
	}
	return c.pager.CurrentPage()
}

// TotalPages returns the page count of the visible set, or 0 when disabled.
func (c *Controller) TotalPages() int {
	if !c.enabled {
		return 0
	}
	return c.pager.TotalPages()
}

// Visible returns the current visible set.
func (c *Controller) Visible() []Post {
	if !c.enabled {
		return nil
	}
	return c.pager.Items()
}

func (c *Controller) track(name string, params map[string]string) {
	if c.events == nil {
		return
	}
	c.events.Track(name, params)
}
