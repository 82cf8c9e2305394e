package listing

// PresentationSink receives rendering requests from the paginator and
// controller. Calls are synchronous and their results are never consumed.
type PresentationSink interface {
	ShowItems(posts []Post)
	HideItems(posts []Post)
	SetPageIndicator(current, total int)
	SetNavEnabled(prev, next bool)
	SetPaginationVisible(visible bool)
	ShowEmptyPlaceholder()
	ClearEmptyPlaceholder()
	ScrollToListTop()
}

// CategorySink shows which category is active. Only one is active at a time.
type CategorySink interface {
	SetActiveCategory(key string)
}

// EventSink accepts named analytics events. Delivery is best effort.
type EventSink interface {
	Track(name string, params map[string]string)
}

// Logger is the subset of echo.Logger the controller needs.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// PageView is a PresentationSink and CategorySink that records the last
// requested state, ready to be handed to a template.
type PageView struct {
	Items          []Post
	Hidden         int
	Current        int
	Total          int
	PrevEnabled    bool
	NextEnabled    bool
	ShowPagination bool
	Empty          bool
	ActiveCategory string
	ScrollTop      bool
}

// ShowItems implements PresentationSink.
func (v *PageView) ShowItems(posts []Post) {
	v.Items = append(v.Items[:0], posts...)
}

// HideItems implements PresentationSink.
func (v *PageView) HideItems(posts []Post) {
	v.Hidden = len(posts)
}

// SetPageIndicator implements PresentationSink.
func (v *PageView) SetPageIndicator(current, total int) {
	v.Current, v.Total = current, total
}

// SetNavEnabled implements PresentationSink.
func (v *PageView) SetNavEnabled(prev, next bool) {
	v.PrevEnabled, v.NextEnabled = prev, next
}

// SetPaginationVisible implements PresentationSink.
func (v *PageView) SetPaginationVisible(visible bool) {
	v.ShowPagination = visible
}

// ShowEmptyPlaceholder implements PresentationSink.
func (v *PageView) ShowEmptyPlaceholder() {
	v.Empty = true
}

// ClearEmptyPlaceholder implements PresentationSink.
func (v *PageView) ClearEmptyPlaceholder() {
	v.Empty = false
}

// ScrollToListTop implements PresentationSink.
func (v *PageView) ScrollToListTop() {
	v.ScrollTop = true
}

// SetActiveCategory implements CategorySink.
func (v *PageView) SetActiveCategory(key string) {
	v.ActiveCategory = key
}

// Pages returns the page numbers 1..Total for rendering page links.
func (v *PageView) Pages() []int {
	out := make([]int, v.Total)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
