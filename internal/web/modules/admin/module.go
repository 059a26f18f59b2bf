// Package admin serves the newsroom console: login, dashboard,
// generation, and the brief editor.
package admin

import (
	"net/http"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/subscriber"
	"github.com/dcorpo/intel/internal/web/platform/authctx"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
	"github.com/dcorpo/intel/internal/web/platform/sessioncookie"
	"github.com/dcorpo/intel/internal/web/routepath"
)

// Module wires the admin console routes.
type Module struct {
	sessions    *auth.Service
	newsroom    *newsroom.Controller
	subscribers *subscriber.Service
}

// New returns the admin module.
func New(sessions *auth.Service, controller *newsroom.Controller, subscribers *subscriber.Service) *Module {
	return &Module{
		sessions:    sessions,
		newsroom:    controller,
		subscribers: subscribers,
	}
}

// Register mounts the console routes on mux.
func (m *Module) Register(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	mux.HandleFunc("GET "+routepath.AdminLogin, m.handleLoginPage)
	mux.HandleFunc("POST "+routepath.AdminLogin, m.handleLoginSubmit)
	mux.HandleFunc("POST "+routepath.AdminLogout, m.handleLogout)
	mux.HandleFunc("GET "+routepath.AdminLogout, httpx.MethodNotAllowed(http.MethodPost))

	mux.Handle("GET "+routepath.Admin, m.protected(m.handleDashboard))
	mux.Handle("POST "+routepath.AdminGenerate, m.protected(m.handleGenerate))
	mux.Handle("GET "+routepath.AdminBrief, m.protected(m.handleEditor))
	mux.Handle("POST "+routepath.AdminBrief, m.protected(m.handleSave))
	mux.Handle("POST "+routepath.AdminBriefPublish, m.protected(m.handlePublish))
	mux.Handle("POST "+routepath.AdminBriefUnpublish, m.protected(m.handleUnpublish))
	mux.Handle("POST "+routepath.AdminBriefDelete, m.protected(m.handleDelete))

	mux.HandleFunc("POST "+routepath.AdminGenerateAPI, m.handleGenerateAPI)
}

// protected resolves the session cookie, attaches the identity, and
// bounces unauthenticated requests to the login page. Rotated tokens
// are written back transparently.
func (m *Module) protected(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.resolveIdentity(w, r)
		if !ok {
			httpx.WriteRedirect(w, r, routepath.AdminLogin)
			return
		}
		next(w, r.WithContext(authctx.WithIdentity(r.Context(), identity)))
	})
}

func (m *Module) resolveIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return auth.Identity{}, false
	}
	identity, refreshed, err := m.sessions.Validate(httpx.RequestContext(r), token)
	if err != nil {
		sessioncookie.Clear(w, r)
		return auth.Identity{}, false
	}
	if refreshed != "" {
		sessioncookie.Write(w, r, refreshed, identity.ExpiresAt)
	}
	return identity, true
}
