package lexsite

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/lexsite/contact"
	"github.com/eringen/lexsite/views"
)

// Toast texts for the contact form.
const (
	msgContactSent    = "¡Mensaje enviado exitosamente!"
	msgContactFailed  = "Error al enviar el mensaje. Inténtalo de nuevo."
	msgContactInvalid = "Por favor, corrige los errores del formulario."
	msgContactLimited = "Has enviado demasiados mensajes. Inténtalo más tarde."
)

var contactFields = []struct {
	name, label, typ string
}{
	{contact.FieldName, "Nombre", "text"},
	{contact.FieldEmail, "Email", "email"},
	{contact.FieldMessage, "Mensaje", "textarea"},
}

func contactFieldViews(f contact.Form, errs contact.FieldErrors) []views.Field {
	values := map[string]string{
		contact.FieldName:    f.Name,
		contact.FieldEmail:   f.Email,
		contact.FieldMessage: f.Message,
	}
	out := make([]views.Field, 0, len(contactFields))
	for _, cf := range contactFields {
		out = append(out, views.Field{
			Name:  cf.name,
			Label: cf.label,
			Type:  cf.typ,
			Value: values[cf.name],
			Error: errs[cf.name],
		})
	}
	return out
}

func (a *App) renderContact(c echo.Context, code int, f contact.Form, errs contact.FieldErrors, toast *views.Toast) error {
	return RenderStatus(c, code, a.Views.Contact(views.ContactPage{
		Site:      a.site(),
		Meta:      a.meta(c, "Contacto"),
		Toast:     toast,
		CSRFToken: CsrfToken(c),
		Fields:    contactFieldViews(f, errs),
	}))
}

func (a *App) handleContact(c echo.Context) error {
	return a.renderContact(c, http.StatusOK, contact.Form{}, nil, TakeToast(c))
}

// handleContactSubmit validates and delivers the form. On success it
// redirects back with a flash so a reload cannot resubmit; on any failure
// the form is re-rendered with the user's input.
func (a *App) handleContactSubmit(c echo.Context) error {
	var f contact.Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	if !a.contactLimiter.Check(c.RealIP()) {
		a.metrics.contactSubmissions.WithLabelValues("limited").Inc()
		return a.renderContact(c, http.StatusTooManyRequests, f, nil,
			&views.Toast{Kind: views.ToastError, Message: msgContactLimited})
	}

	msg, errs, err := a.contactSvc.Submit(c.Request().Context(), f)
	switch {
	case errs != nil:
		a.metrics.contactSubmissions.WithLabelValues("invalid").Inc()
		return a.renderContact(c, http.StatusUnprocessableEntity, f, errs,
			&views.Toast{Kind: views.ToastError, Message: msgContactInvalid})
	case err != nil:
		a.metrics.contactSubmissions.WithLabelValues("failed").Inc()
		c.Logger().Errorf("contact submit: %v", err)
		return a.renderContact(c, http.StatusOK, f, nil,
			&views.Toast{Kind: views.ToastError, Message: msgContactFailed})
	}

	a.contactLimiter.Record(c.RealIP())
	a.metrics.contactSubmissions.WithLabelValues("sent").Inc()
	a.eventSink(c).Track("contact_form_submit", map[string]string{"message_id": msg.ID})

	if err := Flash(c, views.ToastSuccess, msgContactSent); err != nil {
		c.Logger().Warnf("flash: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, "/contacto/")
}

// handleContactValidate checks one field on blur and returns it re-rendered.
func (a *App) handleContactValidate(c echo.Context) error {
	name := c.FormValue("field")
	for _, cf := range contactFields {
		if cf.name != name {
			continue
		}
		value := c.FormValue(name)
		return Render(c, a.Views.ContactField(views.Field{
			Name:  cf.name,
			Label: cf.label,
			Type:  cf.typ,
			Value: value,
			Error: contact.ValidateField(name, value),
		}))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "unknown field")
}
