package admin

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/storage"
	"github.com/dcorpo/intel/internal/web/platform/authctx"
	"github.com/dcorpo/intel/internal/web/platform/flash"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
	"github.com/dcorpo/intel/internal/web/platform/pagerender"
	"github.com/dcorpo/intel/internal/web/platform/sessioncookie"
	"github.com/dcorpo/intel/internal/web/routepath"
	"github.com/dcorpo/intel/internal/web/templates"
)

func (m *Module) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := m.resolveIdentity(w, r); ok {
		httpx.WriteRedirect(w, r, routepath.Admin)
		return
	}
	pagerender.Page(w, r, http.StatusOK, "Sign in", templates.AdminLogin(templates.LoginView{}))
}

func (m *Module) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pagerender.Page(w, r, http.StatusBadRequest, "Sign in", templates.AdminLogin(templates.LoginView{
			Error: "That submission did not go through. Please try again.",
		}))
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	token, expiresAt, err := m.sessions.Login(httpx.RequestContext(r), email, password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		pagerender.Page(w, r, http.StatusUnauthorized, "Sign in", templates.AdminLogin(templates.LoginView{
			Email: strings.TrimSpace(email),
			Error: "Invalid email or password.",
		}))
		return
	case err != nil:
		log.Printf("admin login: %v", err)
		pagerender.Page(w, r, http.StatusInternalServerError, "Sign in", templates.AdminLogin(templates.LoginView{
			Email: strings.TrimSpace(email),
			Error: "Something went wrong on our side. Please try again.",
		}))
		return
	}

	sessioncookie.Write(w, r, token, expiresAt)
	httpx.WriteRedirect(w, r, routepath.Admin)
}

func (m *Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessioncookie.Read(r); ok {
		if err := m.sessions.Logout(httpx.RequestContext(r), token); err != nil {
			log.Printf("admin logout: %v", err)
		}
	}
	sessioncookie.Clear(w, r)
	httpx.WriteRedirect(w, r, routepath.AdminLogin)
}

func (m *Module) handleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())

	var counter newsroom.SubscriberCounter
	if m.subscribers != nil {
		counter = m.subscribers
	}
	dashboard, err := m.newsroom.LoadDashboard(httpx.RequestContext(r), identity, counter)
	if err != nil {
		m.renderWorkflowError(w, r, err, routepath.Admin)
		return
	}

	pagerender.Page(w, r, http.StatusOK, "Newsroom", templates.AdminDashboard(templates.DashboardView{
		Dashboard: dashboard,
		Printer:   pagerender.Printer(w, r),
	}))
}

func (m *Module) handleGenerate(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		flash.Write(w, r, flash.Error("That submission did not go through. Please try again."))
		httpx.WriteRedirect(w, r, routepath.Admin)
		return
	}

	record, err := m.newsroom.GenerateAndStageDraft(httpx.RequestContext(r), identity, r.PostFormValue("topic"))
	if err != nil {
		log.Printf("generate draft: %v", err)
		flash.Write(w, r, flash.Error(generationNotice(err)))
		httpx.WriteRedirect(w, r, routepath.Admin)
		return
	}

	flash.Write(w, r, flash.Success("Draft generated. Review it before publishing."))
	httpx.WriteRedirect(w, r, routepath.AdminBriefPath(record.ID))
}

func (m *Module) handleEditor(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())
	record, err := m.newsroom.GetBrief(httpx.RequestContext(r), identity, r.PathValue("id"))
	if err != nil {
		m.renderWorkflowError(w, r, err, routepath.Admin)
		return
	}
	pagerender.Page(w, r, http.StatusOK, "Edit brief", templates.AdminEditor(record))
}

func (m *Module) handleSave(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())
	id := r.PathValue("id")
	patch, err := parseBriefPatch(r)
	if err != nil {
		flash.Write(w, r, flash.Error("That submission did not go through. Please try again."))
		httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
		return
	}

	if _, err := m.newsroom.SaveEdits(httpx.RequestContext(r), identity, id, patch); err != nil {
		m.renderWorkflowError(w, r, err, routepath.AdminBriefPath(id))
		return
	}
	flash.Write(w, r, flash.Success("Saved."))
	httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
}

func (m *Module) handlePublish(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())
	id := r.PathValue("id")
	patch, err := parseBriefPatch(r)
	if err != nil {
		flash.Write(w, r, flash.Error("That submission did not go through. Please try again."))
		httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
		return
	}

	if _, err := m.newsroom.PublishDraft(httpx.RequestContext(r), identity, id, patch); err != nil {
		m.renderWorkflowError(w, r, err, routepath.AdminBriefPath(id))
		return
	}
	flash.Write(w, r, flash.Success("Published. This brief is now live."))
	httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
}

func (m *Module) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())
	id := r.PathValue("id")

	if _, err := m.newsroom.Unpublish(httpx.RequestContext(r), identity, id); err != nil {
		m.renderWorkflowError(w, r, err, routepath.AdminBriefPath(id))
		return
	}
	flash.Write(w, r, flash.Success("Unpublished. The brief is back in drafts."))
	httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
}

func (m *Module) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := authctx.IdentityFrom(r.Context())
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		flash.Write(w, r, flash.Error("That submission did not go through. Please try again."))
		httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
		return
	}
	confirmed := r.PostFormValue("confirm") != ""

	err := m.newsroom.DeleteBrief(httpx.RequestContext(r), identity, id, confirmed)
	switch {
	case errors.Is(err, newsroom.ErrConfirmationRequired):
		flash.Write(w, r, flash.Error("Tick the confirmation box to delete this brief."))
		httpx.WriteRedirect(w, r, routepath.AdminBriefPath(id))
		return
	case err != nil:
		m.renderWorkflowError(w, r, err, routepath.AdminBriefPath(id))
		return
	}

	flash.Write(w, r, flash.Success("Brief deleted."))
	httpx.WriteRedirect(w, r, routepath.Admin)
}

// renderWorkflowError maps workflow failures onto HTTP responses.
// Forbidden and not-found fail hard; anything else flashes a generic
// notice and returns the operator to fallback.
func (m *Module) renderWorkflowError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, newsroom.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, storage.ErrNotFound):
		http.NotFound(w, r)
	default:
		log.Printf("admin %s: %v", r.URL.Path, err)
		flash.Write(w, r, flash.Error("Something went wrong on our side. Please try again."))
		httpx.WriteRedirect(w, r, fallback)
	}
}

// parseBriefPatch reads the full editor form. The editor always posts
// every field, so every patch field is set.
func parseBriefPatch(r *http.Request) (storage.BriefPatch, error) {
	if err := r.ParseForm(); err != nil {
		return storage.BriefPatch{}, err
	}
	field := func(name string) *string {
		value := r.PostFormValue(name)
		return &value
	}
	points := splitLines(r.PostFormValue("radar_points"))
	return storage.BriefPatch{
		Title:         field("title"),
		Category:      field("category"),
		DeepDive:      field("deep_dive"),
		FunFact:       field("fun_fact"),
		RadarPoints:   &points,
		JargonTerm:    field("jargon_term"),
		JargonDef:     field("jargon_def"),
		SocialCaption: field("social_caption"),
		CoverImage:    field("cover_image"),
	}, nil
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
