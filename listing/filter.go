package listing

// FilterByCategory returns the posts whose category equals key, in order.
// An empty key or AllCategories returns every post.
func FilterByCategory(posts []Post, key string) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if isAll(key) || p.Category == key {
			out = append(out, p)
		}
	}
	return out
}

func isAll(key string) bool {
	return key == "" || key == AllCategories
}

// CategoryFilter computes the visible subset of a registry for the
// selected category and pushes it to its subscribers.
type CategoryFilter struct {
	registry    *Registry
	activation  CategorySink
	active      string
	subscribers []func(visible []Post)
}

// NewCategoryFilter returns a filter over r. activation may be nil.
func NewCategoryFilter(r *Registry, activation CategorySink) *CategoryFilter {
	return &CategoryFilter{registry: r, activation: activation, active: AllCategories}
}

// Subscribe registers fn to receive the visible set after every selection.
func (f *CategoryFilter) Subscribe(fn func(visible []Post)) {
	f.subscribers = append(f.subscribers, fn)
}

// Active returns the currently selected category key.
func (f *CategoryFilter) Active() string {
	return f.active
}

// Select makes key the active category and returns the matching posts.
// Unknown keys match nothing; they are not an error.
func (f *CategoryFilter) Select(key string) ([]Post, int) {
	if isAll(key) {
		key = AllCategories
	}
	f.active = key
	if f.activation != nil {
		f.activation.SetActiveCategory(key)
	}
	visible := FilterByCategory(f.registry.posts, key)
	for _, fn := range f.subscribers {
		fn(visible)
	}
	return visible, len(visible)
}
