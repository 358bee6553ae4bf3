package handler

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// FormPage is the data the form page template renders. Form names the
// form Error belongs to ("proposal" or "contract"); Proposal and Contract
// hold submitted values keyed by field name.
type FormPage struct {
	Form     string
	Error    string
	Proposal map[string]string
	Contract map[string]string
}

func renderPage(c *fiber.Ctx, page *template.Template, status int, data FormPage) error {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// wantsHTML reports whether the client prefers HTML over JSON. Requests
// without an Accept header get JSON.
func wantsHTML(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}

// respondFormError sends browsers the form page again with their values
// and the message when the input was invalid. Everything else gets the
// JSON envelope.
func respondFormError(c *fiber.Ctx, page *template.Template, data FormPage, err error) error {
	msg, ok := inputMessage(err)
	if !ok || page == nil || !wantsHTML(c) {
		return respondError(c, err)
	}
	data.Error = msg
	return renderPage(c, page, fiber.StatusBadRequest, data)
}
