package lexsite

import (
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/lexsite/views"
)

const sessionName = "lexsite_session"

// Flash queues a toast to be shown on the next rendered page.
func Flash(c echo.Context, kind, message string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(kind + "|" + message)
	return sess.Save(c.Request(), c.Response())
}

// TakeToast pops the oldest pending toast, or returns nil.
// Later flashes are discarded; only one toast is shown at a time.
// A response that shows a toast is never cached.
func TakeToast(c echo.Context) *views.Toast {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("save session: %v", err)
	}
	raw, _ := flashes[0].(string)
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return &views.Toast{Kind: views.ToastInfo, Message: raw}
	}
	return &views.Toast{Kind: kind, Message: msg}
}
