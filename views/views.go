// Package views renders the site's pages as templ components. Pages are
// html/template files embedded in the binary; each constructor returns a
// templ.Component so handlers render them the same way as any other
// component.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate":    FormatDate,
	"categoryLabel": CategoryLabel,
	"pageURL":       PageURL,
	"partialURL":    PartialURL,
	"jsonLD":        LegalServiceJsonLD,
	"postingLD":     BlogPostingJsonLD,
	"add":           func(a, b int) int { return a + b },
	"sub":           func(a, b int) int { return a - b },
}

var pages = map[string]*template.Template{}

func init() {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	for _, name := range []string{"home", "blog", "contact", "notfound", "error"} {
		t := template.Must(base.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
}

func component(page, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[page].ExecuteTemplate(w, name, data)
	})
}

// Home renders the landing page.
func Home(p HomePage) templ.Component { return component("home", "layout", p) }

// Blog renders the full blog listing page.
func Blog(p BlogPage) templ.Component { return component("blog", "layout", p) }

// BlogList renders only the post list and pagination, for in-page swaps.
func BlogList(p BlogPage) templ.Component { return component("blog", "blog-list", p) }

// Contact renders the contact page.
func Contact(p ContactPage) templ.Component { return component("contact", "layout", p) }

// ContactField renders a single form field, for validation on blur.
func ContactField(f Field) templ.Component { return component("contact", "contact-field", f) }

// NotFound renders the 404 page.
func NotFound(p ErrorPage) templ.Component { return component("notfound", "layout", p) }

// ServerError renders the 500 page.
func ServerError(p ErrorPage) templ.Component { return component("error", "layout", p) }
