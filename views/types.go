package views

import "github.com/eringen/lexsite/listing"

// Site holds site-wide settings every page needs.
type Site struct {
	Name        string
	URL         string
	Description string
	Phone       string
	Email       string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a one-shot notification shown at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// HomePage is the landing page.
type HomePage struct {
	Site   Site
	Meta   PageMeta
	Toast  *Toast
	Latest []listing.Post
}

// BlogPage is the blog listing, rendered from the listing controller's view.
type BlogPage struct {
	Site       Site
	Meta       PageMeta
	Toast      *Toast
	Categories []string
	View       *listing.PageView
}

// Field is one contact form input with its current value and error.
type Field struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

// ContactPage is the contact form.
type ContactPage struct {
	Site      Site
	Meta      PageMeta
	Toast     *Toast
	CSRFToken string
	Fields    []Field
}

// ErrorPage renders 404 and 500 pages.
type ErrorPage struct {
	Site  Site
	Meta  PageMeta
	Toast *Toast
}
