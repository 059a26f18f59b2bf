// Package public serves the marketing site: the weekly brief, the
// archive, and the DPDPA estimator.
package public

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dcorpo/intel/internal/estimator"
	"github.com/dcorpo/intel/internal/storage"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
	"github.com/dcorpo/intel/internal/web/platform/pagerender"
	"github.com/dcorpo/intel/internal/web/templates"
)

// defaultEstimateUsers seeds the estimator before any interaction.
const defaultEstimateUsers = 1000

// Module wires the public site routes.
type Module struct {
	store    storage.BriefStore
	now      func() time.Time
	location *time.Location
}

// New returns the public module. The location drives the next-issue
// deadline; nil falls back to UTC.
func New(store storage.BriefStore, now func() time.Time, location *time.Location) *Module {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &Module{store: store, now: now, location: location}
}

// Register mounts the public routes on mux.
func (m *Module) Register(mux *http.ServeMux) {
	if mux == nil {
		return
	}
	mux.HandleFunc("GET /{$}", m.handleHome)
	mux.HandleFunc("GET /archive", m.handleArchive)
	mux.HandleFunc("GET /briefs/{id}", m.handleBrief)
	mux.HandleFunc("GET /estimate", m.handleEstimate)
	mux.HandleFunc("GET /healthz", m.handleHealth)
}

func (m *Module) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	now := m.now().UTC()

	view := templates.HomeView{
		NextIssueAt: NextIssueAt(m.now(), m.location),
		Estimate:    estimator.For(defaultEstimateUsers),
		Printer:     pagerender.Printer(w, r),
	}

	record, err := m.store.CurrentActiveBrief(ctx, now)
	switch {
	case err == nil:
		view.Brief = &record
	case errors.Is(err, storage.ErrNotFound):
		// No live brief; the hero renders a placeholder.
	default:
		httpx.WriteError(w, err)
		return
	}

	title := ""
	if view.Brief != nil {
		title = view.Brief.Title
	}
	pagerender.Page(w, r, http.StatusOK, title, templates.Home(view))
}

func (m *Module) handleArchive(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	query := r.URL.Query().Get("q")

	records, err := m.store.ListArchivedBriefs(ctx, m.now().UTC(), query)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	view := templates.ArchiveView{
		Query:  query,
		Groups: groupByMonth(records),
	}
	pagerender.Page(w, r, http.StatusOK, "Archive", templates.Archive(view))
}

func (m *Module) handleBrief(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	id := r.PathValue("id")

	record, err := m.store.GetBrief(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	// Drafts and future-dated briefs stay invisible to the public.
	if !record.Published(m.now().UTC()) {
		http.NotFound(w, r)
		return
	}

	pagerender.Page(w, r, http.StatusOK, record.Title, templates.BriefDetail(record))
}

func (m *Module) handleEstimate(w http.ResponseWriter, r *http.Request) {
	users, err := strconv.Atoi(r.URL.Query().Get("users"))
	if err != nil {
		users = defaultEstimateUsers
	}
	printer := pagerender.Printer(w, r)
	pagerender.Fragment(w, r, http.StatusOK, templates.Estimate(estimator.For(users), printer))
}

func (m *Module) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
