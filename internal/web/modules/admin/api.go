package admin

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/generation"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/web/platform/httpx"
)

type generateRequest struct {
	Topic string `json:"topic"`
}

type generateResponse struct {
	Success bool         `json:"success"`
	Brief   briefPayload `json:"brief"`
}

type briefPayload struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	DeepDive      string   `json:"deep_dive"`
	FunFact       string   `json:"fun_fact"`
	RadarPoints   []string `json:"radar_points"`
	JargonTerm    string   `json:"jargon_term"`
	JargonDef     string   `json:"jargon_def"`
	SocialCaption string   `json:"social_caption"`
	CoverImage    string   `json:"cover_image"`
	Status        string   `json:"status"`
	PublishDate   string   `json:"publish_date,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func toBriefPayload(record brief.Brief) briefPayload {
	payload := briefPayload{
		ID:            record.ID,
		Title:         record.Title,
		Category:      record.Category,
		DeepDive:      record.DeepDive,
		FunFact:       record.FunFact,
		RadarPoints:   record.RadarPoints,
		JargonTerm:    record.JargonTerm,
		JargonDef:     record.JargonDef,
		SocialCaption: record.SocialCaption,
		CoverImage:    record.CoverImage,
		Status:        string(record.Status),
		CreatedAt:     record.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !record.PublishDate.IsZero() {
		payload.PublishDate = record.PublishDate.UTC().Format(time.RFC3339)
	}
	return payload
}

// handleGenerateAPI is the JSON boundary for programmatic generation.
// It authenticates from the session cookie like the page routes but
// answers with status codes instead of redirects.
func (m *Module) handleGenerateAPI(w http.ResponseWriter, r *http.Request) {
	identity, ok := m.resolveIdentity(w, r)
	if !ok {
		httpx.WriteJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var request generateRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
			httpx.WriteJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	record, err := m.newsroom.GenerateAndStageDraft(httpx.RequestContext(r), identity, request.Topic)
	if err != nil {
		if errors.Is(err, newsroom.ErrForbidden) {
			httpx.WriteJSONError(w, http.StatusForbidden, "admin role required")
			return
		}
		log.Printf("generate brief api: %v", err)
		httpx.WriteJSONError(w, generationStatus(err), generationNotice(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, generateResponse{Success: true, Brief: toBriefPayload(record)})
}

// generationStatus maps generation failures onto HTTP status codes.
func generationStatus(err error) int {
	switch generation.KindOf(err) {
	case generation.KindRateLimited:
		return http.StatusTooManyRequests
	case generation.KindQuotaExhausted:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// generationNotice turns a generation failure into operator-facing text.
func generationNotice(err error) string {
	switch generation.KindOf(err) {
	case generation.KindRateLimited:
		return "The AI service is rate limited right now. Wait a minute and try again."
	case generation.KindQuotaExhausted:
		return "The AI budget for this billing period is exhausted."
	case generation.KindMalformedResponse, generation.KindIncompleteResponse:
		return "The AI returned an unusable draft. Try again, or pick a narrower topic."
	case generation.KindUnavailable:
		return "The AI service is unavailable. Try again shortly."
	default:
		return "Generation failed. Please try again."
	}
}
