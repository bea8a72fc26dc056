package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/app-aegis/aegis-admin/components/console"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

type renderer struct {
	tmpl *template.Template
}

func newRenderer() (*renderer, error) {
	tmpl, err := template.New("console").Funcs(template.FuncMap{
		"raw": func(s string) template.HTML { return template.HTML(s) },
		"fullName": func(p console.Parent) string {
			return p.FullName()
		},
		"stars": func(rating int) string {
			return fmt.Sprintf("%d★", rating)
		},
		"cents": func(amount int64) string {
			return fmt.Sprintf("$%.2f", float64(amount)/100)
		},
	}).ParseFS(embeddedTemplates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &renderer{tmpl: tmpl}, nil
}

// render executes a page template into the response.
func (r *renderer) render(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("web: render %s: %w", name, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
