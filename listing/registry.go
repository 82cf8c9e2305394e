// Package listing implements the blog listing core: an immutable post
// registry, a category filter, a paginator and the controller that wires
// them together. Rendering is delegated to sink interfaces so the core runs
// the same way behind an HTTP handler or inside a test.
package listing

// AllCategories is the sentinel key that disables category filtering.
const AllCategories = "all"

// Post is a single blog entry as shown in the listing.
type Post struct {
	Slug     string
	Title    string
	Date     string // ISO date, YYYY-MM-DD
	Excerpt  string
	URL      string
	Category string // empty means uncategorized
}

// Registry is the ordered, read-only set of posts for a session.
// Registry order is the canonical display order.
type Registry struct {
	posts []Post
}

// NewRegistry copies posts into a new Registry, keeping their order.
func NewRegistry(posts []Post) *Registry {
	cp := make([]Post, len(posts))
	copy(cp, posts)
	return &Registry{posts: cp}
}

// Posts returns a copy of all posts in registry order.
func (r *Registry) Posts() []Post {
	out := make([]Post, len(r.posts))
	copy(out, r.posts)
	return out
}

// Len returns the number of posts.
func (r *Registry) Len() int {
	return len(r.posts)
}

// Categories returns the distinct non-empty categories in order of first appearance.
func (r *Registry) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range r.posts {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Lookup returns the post with the given slug.
func (r *Registry) Lookup(slug string) (Post, bool) {
	for _, p := range r.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}
