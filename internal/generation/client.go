// Package generation produces draft brief content by prompting an
// OpenAI-compatible chat-completions endpoint, optionally grounded on
// web-search results.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dcorpo/intel/internal/brief"
)

const (
	defaultModel   = "google/gemini-2.5-flash"
	defaultTimeout = 90 * time.Second

	// maxAttempts bounds retries on transient upstream failures. Model
	// output problems are never retried since a second spend would not
	// fix a formatting failure.
	maxAttempts  = 2
	retryBackoff = 500 * time.Millisecond
)

var tracer = otel.Tracer("github.com/dcorpo/intel/internal/generation")

// Config carries the upstream settings for a Client.
type Config struct {
	// BaseURL is the OpenAI-compatible API root, without the
	// /chat/completions suffix.
	BaseURL string
	APIKey  string
	Model   string

	// SearchBaseURL and SearchAPIKey enable the optional web-search
	// enrichment step when both are set.
	SearchBaseURL string
	SearchAPIKey  string
	// SearchRequired makes a search failure fatal instead of degrading
	// to an unground prompt.
	SearchRequired bool

	HTTPClient *http.Client
	Logf       func(format string, args ...any)
	Now        func() time.Time
}

// Client calls the AI and search upstreams.
type Client struct {
	baseURL        string
	apiKey         string
	model          string
	searchBaseURL  string
	searchAPIKey   string
	searchRequired bool
	httpClient     *http.Client
	logf           func(format string, args ...any)
	now            func() time.Time
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("ai base url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("ai api key is required")
	}

	client := &Client{
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          strings.TrimSpace(cfg.Model),
		searchBaseURL:  strings.TrimRight(strings.TrimSpace(cfg.SearchBaseURL), "/"),
		searchAPIKey:   strings.TrimSpace(cfg.SearchAPIKey),
		searchRequired: cfg.SearchRequired,
		httpClient:     cfg.HTTPClient,
		logf:           cfg.Logf,
		now:            cfg.Now,
	}
	if client.model == "" {
		client.model = defaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if client.logf == nil {
		client.logf = log.Printf
	}
	if client.now == nil {
		client.now = time.Now
	}
	return client, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// briefPayload mirrors the JSON object the prompt demands.
type briefPayload struct {
	Title         string   `json:"title"`
	DeepDive      string   `json:"deep_dive"`
	Category      string   `json:"category"`
	FunFact       string   `json:"fun_fact"`
	RadarPoints   []string `json:"radar_points"`
	JargonTerm    string   `json:"jargon_term"`
	JargonDef     string   `json:"jargon_def"`
	SocialCaption string   `json:"social_caption"`
	CoverImage    string   `json:"cover_image"`
}

// Generate produces draft content for the given topic. A blank topic
// falls back to the default trending topic so the model never sees an
// empty prompt.
func (c *Client) Generate(ctx context.Context, topic string) (brief.Content, error) {
	ctx, span := tracer.Start(ctx, "generation.Generate")
	defer span.End()

	topic = brief.NormalizeTopic(topic)
	if topic == "" {
		topic = defaultTopic
	}
	span.SetAttributes(attribute.String("generation.topic", topic))

	docs, err := c.gatherContext(ctx, topic)
	if err != nil {
		return brief.Content{}, err
	}
	span.SetAttributes(attribute.Int("generation.search_docs", len(docs)))

	prompt := buildPrompt(topic, docs, c.now())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return brief.Content{}, ctx.Err()
			case <-time.After(retryBackoff):
			}
			c.logf("retrying generation after transient failure: %v", lastErr)
		}

		content, err := c.complete(ctx, prompt)
		if err == nil {
			return content, nil
		}
		if KindOf(err) != KindUnavailable {
			return brief.Content{}, err
		}
		lastErr = err
	}
	return brief.Content{}, lastErr
}

func (c *Client) complete(ctx context.Context, prompt string) (brief.Content, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return brief.Content{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return brief.Content{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return brief.Content{}, wrapf(KindUnavailable, err, "chat request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorText, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logf("ai upstream returned %d: %s", resp.StatusCode, errorText)
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return brief.Content{}, errorf(KindRateLimited, "rate limit exceeded, try again later")
		case http.StatusPaymentRequired:
			return brief.Content{}, errorf(KindQuotaExhausted, "ai credits depleted")
		default:
			return brief.Content{}, errorf(KindUnavailable, "ai upstream returned %d", resp.StatusCode)
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return brief.Content{}, wrapf(KindMalformedResponse, err, "decode chat response")
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return brief.Content{}, errorf(KindIncompleteResponse, "no content in ai response")
	}

	return parsePayload(parsed.Choices[0].Message.Content)
}

func parsePayload(raw string) (brief.Content, error) {
	cleaned := stripFences(raw)

	var payload briefPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		genErr := wrapf(KindMalformedResponse, err, "parse ai response as json")
		genErr.Raw = raw
		return brief.Content{}, genErr
	}
	if strings.TrimSpace(payload.Title) == "" {
		return brief.Content{}, errorf(KindIncompleteResponse, "ai response missing title")
	}
	if strings.TrimSpace(payload.DeepDive) == "" {
		return brief.Content{}, errorf(KindIncompleteResponse, "ai response missing deep dive")
	}

	content, err := brief.NormalizeContent(brief.Content{
		Title:         payload.Title,
		Category:      payload.Category,
		DeepDive:      payload.DeepDive,
		FunFact:       payload.FunFact,
		RadarPoints:   payload.RadarPoints,
		JargonTerm:    payload.JargonTerm,
		JargonDef:     payload.JargonDef,
		SocialCaption: payload.SocialCaption,
		CoverImage:    payload.CoverImage,
	})
	if err != nil {
		return brief.Content{}, wrapf(KindIncompleteResponse, err, "normalize generated content")
	}
	return content, nil
}
