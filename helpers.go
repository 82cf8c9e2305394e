package lexsite

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/lexsite/views"
)

// AbsURL resolves a site-relative link such as "/posts/a.html" against base.
// Absolute links are returned unchanged.
func AbsURL(base, link string) string {
	u, err := url.Parse(link)
	if err != nil || u.IsAbs() {
		return link
	}
	b, err := url.Parse(base)
	if err != nil {
		return link
	}
	return b.ResolveReference(u).String()
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Phone:       a.Config.Phone,
		Email:       a.Config.Email,
	}
}

func (a *App) meta(c echo.Context, title string) views.PageMeta {
	if title == "" {
		title = a.Config.Name
	} else {
		title += " | " + a.Config.Name
	}
	return views.PageMeta{
		Title:       title,
		Description: a.Config.Description,
		URL:         a.Config.URL + c.Request().URL.RequestURI(),
		OGType:      "website",
	}
}

// partialHeader marks the fetch requests lexsite.js makes for fragments.
const partialHeader = "X-Requested-With"

func isPartial(c echo.Context) bool {
	return c.Request().Header.Get(partialHeader) == "fetch"
}
