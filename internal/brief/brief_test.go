package brief

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"draft", StatusDraft, false},
		{"active", StatusActive, false},
		{" active ", StatusActive, false},
		{"published", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Fatalf("ParseStatus(%q): expected ErrInvalidStatus, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStatusFromLegacyPublishedFlag(t *testing.T) {
	if StatusFromLegacyPublishedFlag(true) != StatusActive {
		t.Fatal("expected published flag to map to active")
	}
	if StatusFromLegacyPublishedFlag(false) != StatusDraft {
		t.Fatal("expected unpublished flag to map to draft")
	}
}

func TestNormalizeContentRequiresTitleAndDeepDive(t *testing.T) {
	if _, err := NormalizeContent(Content{DeepDive: "body"}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := NormalizeContent(Content{Title: "T"}); !errors.Is(err, ErrEmptyDeepDive) {
		t.Fatalf("expected ErrEmptyDeepDive, got %v", err)
	}
}

func TestNormalizeContentDefaultsCategory(t *testing.T) {
	content, err := NormalizeContent(Content{Title: "T", DeepDive: "body"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if content.Category != "Legal Tech" {
		t.Fatalf("expected default category, got %q", content.Category)
	}
}

func TestNormalizeContentCapsRadarPoints(t *testing.T) {
	content, err := NormalizeContent(Content{
		Title:       "T",
		DeepDive:    "body",
		RadarPoints: []string{"a", " ", "b", "c", "d", "e"},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(content.RadarPoints) != MaxRadarPoints {
		t.Fatalf("expected %d radar points, got %d", MaxRadarPoints, len(content.RadarPoints))
	}
	if content.RadarPoints[0] != "a" || content.RadarPoints[3] != "d" {
		t.Fatalf("unexpected radar points %v", content.RadarPoints)
	}
}

func TestNewAssignsIDAndTimestamps(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	b, err := New(
		Content{Title: "T", DeepDive: "body"},
		func() time.Time { return fixed },
		func() (string, error) { return "b1", nil },
	)
	if err != nil {
		t.Fatalf("new brief: %v", err)
	}
	if b.ID != "b1" {
		t.Fatalf("expected id b1, got %q", b.ID)
	}
	if b.Status != StatusDraft {
		t.Fatalf("expected draft status, got %q", b.Status)
	}
	if !b.CreatedAt.Equal(fixed) || !b.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected timestamps %v, got created=%v updated=%v", fixed, b.CreatedAt, b.UpdatedAt)
	}
	if !b.PublishDate.IsZero() {
		t.Fatal("expected zero publish date for new draft")
	}
}

func TestPublished(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	b := Brief{PublishDate: now.Add(-time.Hour)}
	if !b.Published(now) {
		t.Fatal("expected past publish date to be published")
	}
	b.PublishDate = now.Add(time.Hour)
	if b.Published(now) {
		t.Fatal("expected future publish date to be unpublished")
	}
	if (Brief{}).Published(now) {
		t.Fatal("expected zero publish date to be unpublished")
	}
}

func TestNormalizeTopic(t *testing.T) {
	if got := NormalizeTopic("   "); got != "" {
		t.Fatalf("expected empty topic, got %q", got)
	}
	long := strings.Repeat("x", MaxTopicLength+50)
	if got := NormalizeTopic(long); len(got) != MaxTopicLength {
		t.Fatalf("expected topic capped at %d, got %d", MaxTopicLength, len(got))
	}
}

func TestNormalizeTopicCapsOnRuneBoundary(t *testing.T) {
	// Multi-byte runes straddling the cap must not be split.
	long := strings.Repeat("x", MaxTopicLength-1) + "सूचना"
	got := NormalizeTopic(long)
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid utf-8, got %q", got)
	}
	if len(got) > MaxTopicLength {
		t.Fatalf("expected topic capped at %d bytes, got %d", MaxTopicLength, len(got))
	}
}
