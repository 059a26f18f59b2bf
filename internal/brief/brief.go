// Package brief models the unit of publishable newsletter content.
//
// A brief moves between exactly two states: draft (initial, re-enterable)
// and active (the single brief featured to public readers). Promotion and
// demotion are owned by the publisher package.
package brief

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dcorpo/intel/internal/platform/id"
)

// Status represents lifecycle state for a brief.
type Status string

const (
	// StatusDraft marks a brief awaiting review, invisible to public readers.
	StatusDraft Status = "draft"
	// StatusActive marks the brief currently featured on the public site.
	StatusActive Status = "active"
)

// MaxRadarPoints caps the number of regional-update bullets kept per brief.
const MaxRadarPoints = 4

// MaxTopicLength caps operator-supplied generation topics.
const MaxTopicLength = 200

var (
	// ErrEmptyTitle indicates a brief title is required.
	ErrEmptyTitle = errors.New("title is required")
	// ErrEmptyDeepDive indicates the long-form body is required.
	ErrEmptyDeepDive = errors.New("deep dive text is required")
	// ErrInvalidStatus indicates an unsupported status value.
	ErrInvalidStatus = errors.New("status is invalid")
)

// ParseStatus validates a stored status string.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.TrimSpace(value)) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusActive:
		return StatusActive, nil
	default:
		return "", ErrInvalidStatus
	}
}

// StatusFromLegacyPublishedFlag maps the retired boolean schema onto the
// two-state status enum: published rows become active, the rest draft.
func StatusFromLegacyPublishedFlag(published bool) Status {
	if published {
		return StatusActive
	}
	return StatusDraft
}

// Content holds the operator-editable fields of a brief.
type Content struct {
	Title         string
	Category      string
	DeepDive      string
	FunFact       string
	RadarPoints   []string
	JargonTerm    string
	JargonDef     string
	SocialCaption string
	CoverImage    string
}

// Brief is one unit of newsletter content.
type Brief struct {
	ID          string
	Content
	Status      Status
	PublishDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Published reports whether the brief has a publish date at or before now.
func (b Brief) Published(now time.Time) bool {
	return !b.PublishDate.IsZero() && !b.PublishDate.After(now)
}

// NormalizeContent validates and canonicalizes brief content.
func NormalizeContent(content Content) (Content, error) {
	content.Title = strings.TrimSpace(content.Title)
	if content.Title == "" {
		return Content{}, ErrEmptyTitle
	}

	content.DeepDive = strings.TrimSpace(content.DeepDive)
	if content.DeepDive == "" {
		return Content{}, ErrEmptyDeepDive
	}

	content.Category = strings.TrimSpace(content.Category)
	if content.Category == "" {
		content.Category = "Legal Tech"
	}

	content.FunFact = strings.TrimSpace(content.FunFact)
	content.JargonTerm = strings.TrimSpace(content.JargonTerm)
	content.JargonDef = strings.TrimSpace(content.JargonDef)
	content.SocialCaption = strings.TrimSpace(content.SocialCaption)
	content.CoverImage = strings.TrimSpace(content.CoverImage)

	points := make([]string, 0, len(content.RadarPoints))
	for _, point := range content.RadarPoints {
		point = strings.TrimSpace(point)
		if point == "" {
			continue
		}
		points = append(points, point)
		if len(points) == MaxRadarPoints {
			break
		}
	}
	content.RadarPoints = points

	return content, nil
}

// New constructs a normalized draft brief with generated identifiers.
func New(content Content, now func() time.Time, idGenerator func() (string, error)) (Brief, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeContent(content)
	if err != nil {
		return Brief{}, err
	}

	briefID, err := idGenerator()
	if err != nil {
		return Brief{}, fmt.Errorf("generate brief id: %w", err)
	}

	createdAt := now().UTC()
	return Brief{
		ID:        briefID,
		Content:   normalized,
		Status:    StatusDraft,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NormalizeTopic trims and caps an operator-supplied generation topic.
// An empty result means the caller should substitute a default topic.
func NormalizeTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if len(topic) > MaxTopicLength {
		cut := MaxTopicLength
		// Back up to a rune boundary so the cap never splits a rune.
		for cut > 0 && !utf8.RuneStart(topic[cut]) {
			cut--
		}
		topic = topic[:cut]
	}
	return strings.TrimSpace(topic)
}
