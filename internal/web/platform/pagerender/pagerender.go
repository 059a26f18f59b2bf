// Package pagerender composes full page responses from the shared
// layout, request locale, and pending flash notices.
package pagerender

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/dcorpo/intel/internal/web/i18n"
	"github.com/dcorpo/intel/internal/web/platform/flash"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
	"github.com/dcorpo/intel/internal/web/templates"
)

// Printer resolves the locale-aware formatter for the request and
// persists an explicit language selection.
func Printer(w http.ResponseWriter, r *http.Request) *message.Printer {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.PersistTag(w, tag)
	}
	return i18n.Printer(tag)
}

// Page writes a full HTML page with the shared layout, consuming any
// pending flash notice.
func Page(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	if w == nil {
		return
	}
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.PersistTag(w, tag)
	}

	var notice *flash.Notice
	if pending, ok := flash.ReadAndClear(w, r); ok {
		notice = &pending
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page := templates.Layout(title, tag.String(), notice, content)
	if err := page.Render(httpx.RequestContext(r), w); err != nil {
		log.Printf("render page %s: %v", r.URL.Path, err)
	}
}

// Fragment writes a partial HTML response without the layout.
func Fragment(w http.ResponseWriter, r *http.Request, status int, content templ.Component) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if content == nil {
		return
	}
	if err := content.Render(httpx.RequestContext(r), w); err != nil {
		log.Printf("render fragment %s: %v", r.URL.Path, err)
	}
}
