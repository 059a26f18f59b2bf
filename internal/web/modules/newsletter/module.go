// Package newsletter handles public signup submissions.
package newsletter

import (
	"errors"
	"log"
	"net/http"

	"github.com/dcorpo/intel/internal/subscriber"
	"github.com/dcorpo/intel/internal/web/platform/flash"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
	"github.com/dcorpo/intel/internal/web/routepath"
)

// Module wires the newsletter signup route.
type Module struct {
	service *subscriber.Service
}

// New returns the newsletter module.
func New(service *subscriber.Service) *Module {
	return &Module{service: service}
}

// Register mounts the signup route on mux.
func (m *Module) Register(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	mux.HandleFunc("POST "+routepath.Subscribe, m.handleSubscribe)
	mux.HandleFunc("GET "+routepath.Subscribe, httpx.MethodNotAllowed(http.MethodPost))
}

func (m *Module) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flash.Write(w, r, flash.Error("That submission did not go through. Please try again."))
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	}

	email := r.PostFormValue("email")
	consent := r.PostFormValue("consent") != ""

	already, err := m.service.Subscribe(httpx.RequestContext(r), email, consent)
	switch {
	case errors.Is(err, subscriber.ErrInvalidEmail):
		flash.Write(w, r, flash.Error("Please enter a valid email address."))
	case errors.Is(err, subscriber.ErrConsentRequired):
		flash.Write(w, r, flash.Error("Please tick the consent box so we can email you."))
	case err != nil:
		log.Printf("subscribe %s: %v", r.URL.Path, err)
		flash.Write(w, r, flash.Error("Something went wrong on our side. Please try again."))
	case already:
		flash.Write(w, r, flash.Info("You are already subscribed. See you Monday."))
	default:
		flash.Write(w, r, flash.Success("Subscribed. The next brief lands in your inbox Monday."))
	}

	httpx.WriteRedirect(w, r, routepath.Root)
}
