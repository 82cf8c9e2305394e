package listing

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var categoryKeys = []string{"", "labor", "civil", "penal"}

// genPosts builds registries from a slice of category indexes so that
// slugs stay unique and categories repeat.
func genPosts() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(categoryKeys)-1)).Map(func(idx []int) []Post {
		posts := make([]Post, len(idx))
		for i, c := range idx {
			posts[i] = Post{Slug: fmt.Sprintf("p%d", i), Category: categoryKeys[c]}
		}
		return posts
	})
}

func genKey() gopter.Gen {
	return gen.OneConstOf("", "all", "labor", "civil", "penal", "unknown")
}

func TestListingProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("filter returns an ordered matching subsequence", prop.ForAll(
		func(posts []Post, key string) bool {
			got := NewCategoryFilter(NewRegistry(posts), nil)
			visible, n := got.Select(key)
			if n != len(visible) {
				return false
			}
			j := 0
			for _, p := range posts {
				if j < len(visible) && visible[j].Slug == p.Slug {
					j++
				}
			}
			if j != len(visible) {
				return false
			}
			for _, p := range visible {
				if key != "" && key != AllCategories && p.Category != key {
					return false
				}
			}
			return true
		},
		genPosts(), genKey(),
	))

	properties.Property("pages concatenate back to the visible set", prop.ForAll(
		func(posts []Post, size int) bool {
			p := NewPaginator(size, nil)
			p.Reset(posts)
			want := (len(posts) + size - 1) / size
			if want < 1 {
				want = 1
			}
			if p.TotalPages() != want {
				return false
			}
			var joined []Post
			for n := 1; n <= p.TotalPages(); n++ {
				joined = append(joined, p.PageItems(n)...)
			}
			if len(joined) != len(posts) {
				return false
			}
			for i := range joined {
				if joined[i].Slug != posts[i].Slug {
					return false
				}
			}
			return true
		},
		genPosts(), gen.IntRange(1, 12),
	))

	properties.Property("out-of-range ShowPage changes nothing", prop.ForAll(
		func(posts []Post, start, offset int) bool {
			view := &PageView{}
			p := NewPaginator(5, view)
			p.Reset(posts)
			p.ShowPage(start)
			before, shown := p.CurrentPage(), len(view.Items)

			bad := []int{0 - offset, p.TotalPages() + 1 + offset}
			for _, n := range bad {
				if p.ShowPage(n) {
					return false
				}
			}
			return p.CurrentPage() == before && len(view.Items) == shown && view.Current == before
		},
		genPosts(), gen.IntRange(1, 5), gen.IntRange(0, 10),
	))

	properties.Property("selecting a category always returns to page 1", prop.ForAll(
		func(posts []Post, page int, key string) bool {
			view := &PageView{}
			c := New(NewRegistry(posts), Options{Presentation: view})
			c.ShowPage(page)
			c.SelectCategory(key)
			return c.CurrentPage() == 1 && view.Current == 1
		},
		genPosts(), gen.IntRange(1, 6), genKey(),
	))

	properties.Property("total pages is at least one", prop.ForAll(
		func(posts []Post, key string) bool {
			view := &PageView{}
			c := New(NewRegistry(posts), Options{Presentation: view})
			_, n := c.SelectCategory(key)
			if c.TotalPages() < 1 || view.Total < 1 {
				return false
			}
			return view.Empty == (n == 0)
		},
		genPosts(), genKey(),
	))

	properties.TestingRun(t)
}
