// Package publisher owns brief promotion and demotion. The store runs
// both sides of a promotion in one transaction, so at most one brief
// is ever active no matter how publishes interleave.
package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/storage"
)

var tracer = otel.Tracer("github.com/dcorpo/intel/internal/brief/publisher")

// Store is the persistence surface the publisher needs.
type Store interface {
	GetBrief(ctx context.Context, id string) (brief.Brief, error)
	PublishBrief(ctx context.Context, id string, now time.Time) error
	UnpublishBrief(ctx context.Context, id string, now time.Time) error
}

// Publisher coordinates brief lifecycle transitions.
type Publisher struct {
	store Store
	now   func() time.Time
}

// New returns a publisher backed by store.
func New(store Store, now func() time.Time) *Publisher {
	if now == nil {
		now = time.Now
	}
	return &Publisher{store: store, now: now}
}

// Publish promotes the brief to active, demoting any previously
// active brief, and returns the published record.
func (p *Publisher) Publish(ctx context.Context, id string) (brief.Brief, error) {
	ctx, span := tracer.Start(ctx, "publisher.Publish")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return brief.Brief{}, fmt.Errorf("brief id is required")
	}
	span.SetAttributes(attribute.String("brief.id", id))

	if err := p.store.PublishBrief(ctx, id, p.now().UTC()); err != nil {
		return brief.Brief{}, fmt.Errorf("publish brief: %w", err)
	}
	record, err := p.store.GetBrief(ctx, id)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("reload published brief: %w", err)
	}
	return record, nil
}

// Unpublish returns the brief to draft and removes it from the public
// archive by clearing its publish date.
func (p *Publisher) Unpublish(ctx context.Context, id string) (brief.Brief, error) {
	ctx, span := tracer.Start(ctx, "publisher.Unpublish")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return brief.Brief{}, fmt.Errorf("brief id is required")
	}
	span.SetAttributes(attribute.String("brief.id", id))

	if err := p.store.UnpublishBrief(ctx, id, p.now().UTC()); err != nil {
		return brief.Brief{}, fmt.Errorf("unpublish brief: %w", err)
	}
	record, err := p.store.GetBrief(ctx, id)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("reload unpublished brief: %w", err)
	}
	return record, nil
}

var _ Store = (storage.BriefStore)(nil)
