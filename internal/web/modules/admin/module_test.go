package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/brief/publisher"
	"github.com/dcorpo/intel/internal/generation"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/storage"
	"github.com/dcorpo/intel/internal/subscriber"
	"github.com/dcorpo/intel/internal/web/platform/sessioncookie"
)

func testNow() time.Time {
	return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
}

type fakeStore struct {
	briefs      map[string]brief.Brief
	events      []storage.AuditEvent
	operators   map[string]storage.Operator
	sessions    map[string]storage.Session
	subscribers map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		briefs:      map[string]brief.Brief{},
		operators:   map[string]storage.Operator{},
		sessions:    map[string]storage.Session{},
		subscribers: map[string]bool{},
	}
}

func (f *fakeStore) InsertBrief(_ context.Context, record brief.Brief) error {
	if _, ok := f.briefs[record.ID]; ok {
		return storage.ErrAlreadyExists
	}
	f.briefs[record.ID] = record
	return nil
}

func (f *fakeStore) GetBrief(_ context.Context, id string) (brief.Brief, error) {
	record, ok := f.briefs[id]
	if !ok {
		return brief.Brief{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) UpdateBrief(_ context.Context, id string, patch storage.BriefPatch, now time.Time) error {
	record, ok := f.briefs[id]
	if !ok {
		return storage.ErrNotFound
	}
	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Category != nil {
		record.Category = *patch.Category
	}
	if patch.DeepDive != nil {
		record.DeepDive = *patch.DeepDive
	}
	if patch.FunFact != nil {
		record.FunFact = *patch.FunFact
	}
	if patch.RadarPoints != nil {
		record.RadarPoints = *patch.RadarPoints
	}
	if patch.JargonTerm != nil {
		record.JargonTerm = *patch.JargonTerm
	}
	if patch.JargonDef != nil {
		record.JargonDef = *patch.JargonDef
	}
	if patch.SocialCaption != nil {
		record.SocialCaption = *patch.SocialCaption
	}
	if patch.CoverImage != nil {
		record.CoverImage = *patch.CoverImage
	}
	record.UpdatedAt = now
	f.briefs[id] = record
	return nil
}

func (f *fakeStore) DeleteBrief(_ context.Context, id string) error {
	if _, ok := f.briefs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.briefs, id)
	return nil
}

func (f *fakeStore) ListBriefsByStatus(_ context.Context, status brief.Status) ([]brief.Brief, error) {
	var records []brief.Brief
	for _, record := range f.briefs {
		if record.Status == status {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (f *fakeStore) ListBriefs(_ context.Context) ([]brief.Brief, error) {
	var records []brief.Brief
	for _, record := range f.briefs {
		records = append(records, record)
	}
	return records, nil
}

func (f *fakeStore) ListArchivedBriefs(context.Context, time.Time, string) ([]brief.Brief, error) {
	return nil, nil
}

func (f *fakeStore) CurrentActiveBrief(context.Context, time.Time) (brief.Brief, error) {
	return brief.Brief{}, storage.ErrNotFound
}

func (f *fakeStore) PublishBrief(_ context.Context, id string, now time.Time) error {
	target, ok := f.briefs[id]
	if !ok {
		return storage.ErrNotFound
	}
	for key, record := range f.briefs {
		if record.Status == brief.StatusActive {
			record.Status = brief.StatusDraft
			f.briefs[key] = record
		}
	}
	target.Status = brief.StatusActive
	target.PublishDate = now
	f.briefs[id] = target
	return nil
}

func (f *fakeStore) UnpublishBrief(_ context.Context, id string, _ time.Time) error {
	record, ok := f.briefs[id]
	if !ok {
		return storage.ErrNotFound
	}
	record.Status = brief.StatusDraft
	record.PublishDate = time.Time{}
	f.briefs[id] = record
	return nil
}

func (f *fakeStore) PutAuditEvent(_ context.Context, record storage.AuditEvent) error {
	f.events = append(f.events, record)
	return nil
}

func (f *fakeStore) ListAuditEvents(_ context.Context, limit int) ([]storage.AuditEvent, error) {
	if limit > len(f.events) {
		limit = len(f.events)
	}
	return f.events[:limit], nil
}

func (f *fakeStore) InsertOperator(_ context.Context, record storage.Operator) error {
	f.operators[record.ID] = record
	return nil
}

func (f *fakeStore) GetOperatorByEmail(_ context.Context, email string) (storage.Operator, error) {
	for _, record := range f.operators {
		if record.Email == email {
			return record, nil
		}
	}
	return storage.Operator{}, storage.ErrNotFound
}

func (f *fakeStore) GetOperator(_ context.Context, id string) (storage.Operator, error) {
	record, ok := f.operators[id]
	if !ok {
		return storage.Operator{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) InsertSession(_ context.Context, record storage.Session) error {
	f.sessions[record.ID] = record
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (storage.Session, error) {
	record, ok := f.sessions[id]
	if !ok {
		return storage.Session{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context, now time.Time) error {
	for id, record := range f.sessions {
		if !record.ExpiresAt.After(now) {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeStore) InsertSubscriber(_ context.Context, record storage.Subscriber) error {
	if f.subscribers[record.Email] {
		return storage.ErrAlreadyExists
	}
	f.subscribers[record.Email] = true
	return nil
}

func (f *fakeStore) CountSubscribers(context.Context) (int, error) {
	return len(f.subscribers), nil
}

type fakeGenerator struct {
	content brief.Content
	err     error
	calls   int
	topics  []string
}

func (f *fakeGenerator) Generate(_ context.Context, topic string) (brief.Content, error) {
	f.calls++
	f.topics = append(f.topics, topic)
	if f.err != nil {
		return brief.Content{}, f.err
	}
	return f.content, nil
}

type testEnv struct {
	t         *testing.T
	mux       *http.ServeMux
	store     *fakeStore
	generator *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()

	sessions, err := auth.NewService(store, auth.Config{
		SessionKey: []byte(strings.Repeat("k", 32)),
		Now:        testNow,
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	ctx := context.Background()
	if _, err := sessions.CreateOperator(ctx, "editor@example.com", "sturdy-pass", auth.RoleAdmin); err != nil {
		t.Fatalf("create admin operator: %v", err)
	}
	if _, err := sessions.CreateOperator(ctx, "viewer@example.com", "sturdy-pass", "viewer"); err != nil {
		t.Fatalf("create viewer operator: %v", err)
	}

	generator := &fakeGenerator{content: brief.Content{
		Title:    "Generated Title",
		Category: "Privacy",
		DeepDive: "Generated body",
	}}
	controller := newsroom.NewController(store, generator, publisher.New(store, testNow), testNow)

	mux := http.NewServeMux()
	New(sessions, controller, subscriber.NewService(store, testNow)).Register(mux)
	return &testEnv{t: t, mux: mux, store: store, generator: generator}
}

func (e *testEnv) login(email, password string) *http.Cookie {
	e.t.Helper()
	recorder := e.postForm("/admin/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	if recorder.Code != http.StatusFound {
		e.t.Fatalf("login: expected redirect, got %d", recorder.Code)
	}
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == sessioncookie.Name && cookie.Value != "" {
			return cookie
		}
	}
	e.t.Fatal("login: expected a session cookie")
	return nil
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	e.mux.ServeHTTP(recorder, r)
	return recorder
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	e.mux.ServeHTTP(recorder, r)
	return recorder
}

func (e *testEnv) postJSON(path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	e.mux.ServeHTTP(recorder, r)
	return recorder
}

func seedDraft(store *fakeStore, id string) {
	store.briefs[id] = brief.Brief{
		ID: id,
		Content: brief.Content{
			Title:    "Draft " + id,
			Category: "Privacy",
			DeepDive: "Body",
		},
		Status:    brief.StatusDraft,
		CreatedAt: testNow(),
		UpdatedAt: testNow(),
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	recorder := env.get("/admin", nil)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Location"); got != "/admin/login" {
		t.Fatalf("expected redirect to login, got %q", got)
	}
}

func TestLoginAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.store.subscribers["a@example.com"] = true
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.get("/admin", cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	html := recorder.Body.String()
	if !strings.Contains(html, "Newsroom") {
		t.Fatal("expected dashboard heading")
	}
	if !strings.Contains(html, "Subscribers") {
		t.Fatal("expected subscriber stat")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	recorder := env.postForm("/admin/login", url.Values{
		"email":    {"editor@example.com"},
		"password": {"wrong-pass!"},
	}, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Invalid email or password.") {
		t.Fatal("expected login error message")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postForm("/admin/logout", nil, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}

	recorder = env.get("/admin", cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect after logout, got %d", recorder.Code)
	}
}

func TestGenerateAPIRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	recorder := env.postJSON("/admin/api/briefs/generate", `{"topic":"DPDPA"}`, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected error field")
	}
}

func TestGenerateAPIForbiddenForNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login("viewer@example.com", "sturdy-pass")

	recorder := env.postJSON("/admin/api/briefs/generate", `{"topic":"DPDPA"}`, cookie)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
	if env.generator.calls != 0 {
		t.Fatalf("expected no generation calls, got %d", env.generator.calls)
	}
}

func TestGenerateAPIErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		kind generation.Kind
		want int
	}{
		{name: "rate limited", kind: generation.KindRateLimited, want: http.StatusTooManyRequests},
		{name: "quota exhausted", kind: generation.KindQuotaExhausted, want: http.StatusPaymentRequired},
		{name: "malformed", kind: generation.KindMalformedResponse, want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.generator.err = &generation.Error{Kind: tc.kind, Message: "upstream failed"}
			cookie := env.login("editor@example.com", "sturdy-pass")

			recorder := env.postJSON("/admin/api/briefs/generate", `{"topic":"DPDPA"}`, cookie)
			if recorder.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, recorder.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] == "" {
				t.Fatal("expected error field")
			}
		})
	}
}

func TestGenerateAPISuccess(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postJSON("/admin/api/briefs/generate", `{"topic":"DPDPA enforcement"}`, cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var body generateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success {
		t.Fatal("expected success true")
	}
	if body.Brief.Title != "Generated Title" {
		t.Fatalf("unexpected brief title %q", body.Brief.Title)
	}
	if body.Brief.Status != string(brief.StatusDraft) {
		t.Fatalf("expected staged draft, got status %q", body.Brief.Status)
	}
	if len(env.generator.topics) != 1 || env.generator.topics[0] != "DPDPA enforcement" {
		t.Fatalf("unexpected topics %v", env.generator.topics)
	}
	if _, ok := env.store.briefs[body.Brief.ID]; !ok {
		t.Fatal("expected draft stored")
	}
}

func TestGenerateFormRedirectsToEditor(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postForm("/admin/briefs/generate", url.Values{"topic": {"DPDPA"}}, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	location := recorder.Header().Get("Location")
	if !strings.HasPrefix(location, "/admin/briefs/") {
		t.Fatalf("expected editor redirect, got %q", location)
	}
}

func TestEditorShowsBrief(t *testing.T) {
	env := newTestEnv(t)
	seedDraft(env.store, "b1")
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.get("/admin/briefs/b1", cookie)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "Draft b1") {
		t.Fatal("expected brief title in editor")
	}

	recorder = env.get("/admin/briefs/missing", cookie)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestSaveEditsUpdatesBrief(t *testing.T) {
	env := newTestEnv(t)
	seedDraft(env.store, "b1")
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postForm("/admin/briefs/b1", url.Values{
		"title":        {"Edited Title"},
		"category":     {"Fintech"},
		"deep_dive":    {"Edited body"},
		"radar_points": {"Point one\n\nPoint two\n"},
	}, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}

	record := env.store.briefs["b1"]
	if record.Title != "Edited Title" || record.Category != "Fintech" {
		t.Fatalf("unexpected record after save: %+v", record.Content)
	}
	if len(record.RadarPoints) != 2 || record.RadarPoints[1] != "Point two" {
		t.Fatalf("unexpected radar points %v", record.RadarPoints)
	}

	var actions []string
	for _, event := range env.store.events {
		actions = append(actions, event.Action)
	}
	if !strings.Contains(strings.Join(actions, ","), newsroom.ActionSaveBrief) {
		t.Fatalf("expected save audit event, got %v", actions)
	}
}

func TestPublishRoutePromotesBrief(t *testing.T) {
	env := newTestEnv(t)
	seedDraft(env.store, "b1")
	seedDraft(env.store, "b2")
	if err := env.store.PublishBrief(context.Background(), "b2", testNow().Add(-7*24*time.Hour)); err != nil {
		t.Fatalf("seed active brief: %v", err)
	}
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postForm("/admin/briefs/b1/publish", url.Values{
		"title":     {"Draft b1"},
		"deep_dive": {"Body"},
	}, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}

	if got := env.store.briefs["b1"].Status; got != brief.StatusActive {
		t.Fatalf("expected b1 active, got %q", got)
	}
	if got := env.store.briefs["b2"].Status; got != brief.StatusDraft {
		t.Fatalf("expected b2 demoted, got %q", got)
	}
	if env.store.briefs["b1"].PublishDate.IsZero() {
		t.Fatal("expected publish date set")
	}
}

func TestUnpublishRouteReturnsToDraft(t *testing.T) {
	env := newTestEnv(t)
	seedDraft(env.store, "b1")
	if err := env.store.PublishBrief(context.Background(), "b1", testNow()); err != nil {
		t.Fatalf("seed active brief: %v", err)
	}
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postForm("/admin/briefs/b1/unpublish", nil, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	record := env.store.briefs["b1"]
	if record.Status != brief.StatusDraft || !record.PublishDate.IsZero() {
		t.Fatalf("expected draft with cleared publish date, got %+v", record)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	env := newTestEnv(t)
	seedDraft(env.store, "b1")
	cookie := env.login("editor@example.com", "sturdy-pass")

	recorder := env.postForm("/admin/briefs/b1/delete", nil, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if _, ok := env.store.briefs["b1"]; !ok {
		t.Fatal("expected brief kept without confirmation")
	}

	recorder = env.postForm("/admin/briefs/b1/delete", url.Values{"confirm": {"yes"}}, cookie)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if _, ok := env.store.briefs["b1"]; ok {
		t.Fatal("expected brief deleted")
	}
}
