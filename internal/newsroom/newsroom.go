// Package newsroom is the admin workflow behind the console: it
// enforces the operator's role, drives generation and the brief
// lifecycle, and records an audit trail for every mutation.
package newsroom

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/storage"
)

// Audit action names, stable for log consumers.
const (
	ActionGenerateBrief  = "generate_brief"
	ActionSaveBrief      = "save_brief"
	ActionPublishBrief   = "publish_brief"
	ActionUnpublishBrief = "unpublish_brief"
	ActionDeleteBrief    = "delete_brief"
)

var (
	// ErrForbidden indicates the operator lacks the admin role.
	ErrForbidden = errors.New("operator is not an admin")
	// ErrConfirmationRequired indicates a destructive operation ran
	// without its explicit confirmation signal.
	ErrConfirmationRequired = errors.New("confirmation is required")
)

// Generator produces draft content for a topic.
type Generator interface {
	Generate(ctx context.Context, topic string) (brief.Content, error)
}

// Lifecycle drives brief promotion and demotion.
type Lifecycle interface {
	Publish(ctx context.Context, id string) (brief.Brief, error)
	Unpublish(ctx context.Context, id string) (brief.Brief, error)
}

// Store is the persistence surface the controller needs.
type Store interface {
	storage.BriefStore
	storage.AuditStore
}

// Controller runs admin workflows.
type Controller struct {
	store     Store
	generator Generator
	lifecycle Lifecycle
	now       func() time.Time
}

// NewController returns a controller over the given collaborators.
func NewController(store Store, generator Generator, lifecycle Lifecycle, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		store:     store,
		generator: generator,
		lifecycle: lifecycle,
		now:       now,
	}
}

// requireAdmin gates every workflow. The check runs before any
// spend-incurring call so a non-admin can never burn AI credits.
func requireAdmin(identity auth.Identity) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (c *Controller) audit(ctx context.Context, identity auth.Identity, action, briefID string) {
	err := c.store.PutAuditEvent(ctx, storage.AuditEvent{
		Action:     action,
		BriefID:    briefID,
		OperatorID: identity.OperatorID,
		CreatedAt:  c.now().UTC(),
	})
	if err != nil {
		// Audit failures must not undo the action they describe.
		log.Printf("record audit event %s for brief %s: %v", action, briefID, err)
	}
}

// GenerateAndStageDraft generates content for the topic and stages it
// as a draft brief.
func (c *Controller) GenerateAndStageDraft(ctx context.Context, identity auth.Identity, topic string) (brief.Brief, error) {
	if err := requireAdmin(identity); err != nil {
		return brief.Brief{}, err
	}

	content, err := c.generator.Generate(ctx, topic)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("generate content: %w", err)
	}

	record, err := brief.New(content, c.now, nil)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("stage draft: %w", err)
	}
	if err := c.store.InsertBrief(ctx, record); err != nil {
		return brief.Brief{}, fmt.Errorf("insert draft: %w", err)
	}

	c.audit(ctx, identity, ActionGenerateBrief, record.ID)
	return record, nil
}

// GetBrief returns one brief for editing.
func (c *Controller) GetBrief(ctx context.Context, identity auth.Identity, id string) (brief.Brief, error) {
	if err := requireAdmin(identity); err != nil {
		return brief.Brief{}, err
	}
	return c.store.GetBrief(ctx, strings.TrimSpace(id))
}

// SaveEdits applies a partial update and returns the fresh record.
func (c *Controller) SaveEdits(ctx context.Context, identity auth.Identity, id string, patch storage.BriefPatch) (brief.Brief, error) {
	if err := requireAdmin(identity); err != nil {
		return brief.Brief{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return brief.Brief{}, fmt.Errorf("brief id is required")
	}

	if err := c.store.UpdateBrief(ctx, id, patch, c.now().UTC()); err != nil {
		return brief.Brief{}, fmt.Errorf("save edits: %w", err)
	}
	record, err := c.store.GetBrief(ctx, id)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("reload brief: %w", err)
	}

	c.audit(ctx, identity, ActionSaveBrief, id)
	return record, nil
}

// PublishDraft persists pending edits, then promotes the brief. The
// save happens first so readers never see a pre-edit version go live.
func (c *Controller) PublishDraft(ctx context.Context, identity auth.Identity, id string, patch storage.BriefPatch) (brief.Brief, error) {
	if err := requireAdmin(identity); err != nil {
		return brief.Brief{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return brief.Brief{}, fmt.Errorf("brief id is required")
	}

	if err := c.store.UpdateBrief(ctx, id, patch, c.now().UTC()); err != nil {
		return brief.Brief{}, fmt.Errorf("save edits before publish: %w", err)
	}
	record, err := c.lifecycle.Publish(ctx, id)
	if err != nil {
		return brief.Brief{}, err
	}

	c.audit(ctx, identity, ActionPublishBrief, id)
	return record, nil
}

// Unpublish returns the brief to draft.
func (c *Controller) Unpublish(ctx context.Context, identity auth.Identity, id string) (brief.Brief, error) {
	if err := requireAdmin(identity); err != nil {
		return brief.Brief{}, err
	}

	record, err := c.lifecycle.Unpublish(ctx, id)
	if err != nil {
		return brief.Brief{}, err
	}

	c.audit(ctx, identity, ActionUnpublishBrief, record.ID)
	return record, nil
}

// DeleteBrief permanently removes the brief. The confirmed flag is the
// caller's proof that the operator saw a confirmation step.
func (c *Controller) DeleteBrief(ctx context.Context, identity auth.Identity, id string, confirmed bool) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("brief id is required")
	}

	if err := c.store.DeleteBrief(ctx, id); err != nil {
		return fmt.Errorf("delete brief: %w", err)
	}

	c.audit(ctx, identity, ActionDeleteBrief, id)
	return nil
}

// Dashboard is the data behind the admin landing page.
type Dashboard struct {
	Drafts          []brief.Brief
	Published       []brief.Brief
	SubscriberCount int
	RecentActivity  []storage.AuditEvent
}

// SubscriberCounter exposes the subscriber total to the dashboard.
type SubscriberCounter interface {
	Count(ctx context.Context) (int, error)
}

// LoadDashboard re-reads all dashboard data from storage.
func (c *Controller) LoadDashboard(ctx context.Context, identity auth.Identity, subscribers SubscriberCounter) (Dashboard, error) {
	if err := requireAdmin(identity); err != nil {
		return Dashboard{}, err
	}

	drafts, err := c.store.ListBriefsByStatus(ctx, brief.StatusDraft)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list drafts: %w", err)
	}
	published, err := c.store.ListBriefsByStatus(ctx, brief.StatusActive)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list published: %w", err)
	}

	dashboard := Dashboard{Drafts: drafts, Published: published}
	if subscribers != nil {
		count, err := subscribers.Count(ctx)
		if err != nil {
			return Dashboard{}, fmt.Errorf("count subscribers: %w", err)
		}
		dashboard.SubscriberCount = count
	}

	activity, err := c.store.ListAuditEvents(ctx, 20)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list audit events: %w", err)
	}
	dashboard.RecentActivity = activity
	return dashboard, nil
}
