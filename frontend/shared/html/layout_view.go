package html

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell with the stylesheet, the CSRF helper
// and the given page scripts.
func Layout(title string, body templ.Component, scripts ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+html.EscapeString(title)+`</title>`+
			`<link rel="stylesheet" href="/assets/app.css"></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, CSRFScript()); err != nil {
			return err
		}
		for _, src := range scripts {
			if _, err := io.WriteString(w, `<script src="`+html.EscapeString(src)+`" defer></script>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
