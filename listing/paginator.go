package listing

// DefaultPageSize is used when a paginator is built with a non-positive size.
const DefaultPageSize = 5

// TotalPages returns ceil(count/size), never less than 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := (count + size - 1) / size
	if total < 1 {
		total = 1
	}
	return total
}

// Paginator splits an ordered set of posts into fixed-size pages and
// renders the current one through a PresentationSink.
type Paginator struct {
	size    int
	items   []Post
	current int
	sink    PresentationSink
}

// NewPaginator returns a paginator with an empty working set on page 1.
func NewPaginator(pageSize int, sink PresentationSink) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{size: pageSize, current: 1, sink: sink}
}

// PageSize returns the fixed page size.
func (p *Paginator) PageSize() int { return p.size }

// CurrentPage returns the 1-indexed current page.
func (p *Paginator) CurrentPage() int { return p.current }

// TotalPages returns the number of pages over the working set.
func (p *Paginator) TotalPages() int {
	return TotalPages(len(p.items), p.size)
}

// Items returns the working set.
func (p *Paginator) Items() []Post { return p.items }

// Reset replaces the working set and renders page 1.
func (p *Paginator) Reset(items []Post) {
	p.items = items
	p.current = 1
	p.render()
}

// ShowPage renders page n. Out-of-range requests change nothing and
// return false.
func (p *Paginator) ShowPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.current = n
	p.render()
	return true
}

// Next advances one page unless already on the last page.
func (p *Paginator) Next() bool { return p.ShowPage(p.current + 1) }

// Prev goes back one page unless already on the first page.
func (p *Paginator) Prev() bool { return p.ShowPage(p.current - 1) }

// PageItems returns the half-open slice [(n-1)*size, n*size) of the working
// set. The last page may be short; an out-of-range page is empty.
func (p *Paginator) PageItems(n int) []Post {
	start, end := p.bounds(n)
	return p.items[start:end]
}

func (p *Paginator) bounds(n int) (int, int) {
	start := (n - 1) * p.size
	if n < 1 || start >= len(p.items) {
		return 0, 0
	}
	end := start + p.size
	if end > len(p.items) {
		end = len(p.items)
	}
	return start, end
}

func (p *Paginator) render() {
	if p.sink == nil {
		return
	}
	start, end := p.bounds(p.current)
	hidden := make([]Post, 0, len(p.items)-(end-start))
	hidden = append(hidden, p.items[:start]...)
	hidden = append(hidden, p.items[end:]...)

	total := p.TotalPages()
	p.sink.ShowItems(p.items[start:end])
	p.sink.HideItems(hidden)
	p.sink.SetPageIndicator(p.current, total)
	p.sink.SetNavEnabled(p.current > 1, p.current < total)
}
