// Package templates renders the server-side HTML surface. Components
// are plain templ components so modules can compose and test them
// without a rendering framework.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/message"
)

func esc(value string) string {
	return templ.EscapeString(value)
}

// component adapts a render function into a templ.Component.
func component(render func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(render)
}

// FormatPublishDate renders a publish date for display.
func FormatPublishDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.UTC().Format("2 January 2006")
}

// FormatCount renders an integer with locale digit grouping.
func FormatCount(printer *message.Printer, value int) string {
	if printer == nil {
		return fmt.Sprintf("%d", value)
	}
	return printer.Sprintf("%d", value)
}

// FormatCrore renders a crore amount with one decimal.
func FormatCrore(printer *message.Printer, value float64) string {
	if printer == nil {
		return fmt.Sprintf("%.1f", value)
	}
	return printer.Sprintf("%.1f", value)
}

// renderParagraphs writes markdown-ish body text as escaped HTML
// paragraphs. Blank lines split paragraphs; heavier markup stays
// literal.
func renderParagraphs(w io.Writer, body string) error {
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "<p>%s</p>", esc(block)); err != nil {
			return err
		}
	}
	return nil
}
