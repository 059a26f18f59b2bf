package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dcorpo/intel/internal/web/platform/flash"
)

const siteName = "dCorpo Intel"

// Layout wraps page content in the shared HTML shell.
func Layout(title, lang string, notice *flash.Notice, content templ.Component) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		pageTitle := siteName
		if title != "" {
			pageTitle = title + " | " + siteName
		}
		if lang == "" {
			lang = "en"
		}
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/site.css">
<script src="https://unpkg.com/htmx.org@1.9.12/dist/htmx.min.js" defer></script>
<script src="/static/countdown.js" defer></script>
</head>
<body>
<header class="site-header">
<a class="brand" href="/">%s</a>
<nav><a href="/archive">Archive</a><a href="/admin">Console</a></nav>
</header>
<main>`, esc(lang), esc(pageTitle), siteName)
		if err != nil {
			return err
		}
		if notice != nil {
			if _, err := fmt.Fprintf(w, `<div class="notice notice-%s" role="status">%s</div>`, esc(string(notice.Kind)), esc(notice.Message)); err != nil {
				return err
			}
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `</main>
<footer class="site-footer">
<p>%s — weekly legal intelligence for Indian corporate teams.</p>
</footer>
</body>
</html>`, siteName)
		return err
	})
}
