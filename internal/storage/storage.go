// Package storage defines persistence contracts for newsletter state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dcorpo/intel/internal/brief"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// BriefPatch carries partial updates for a brief. Nil fields are left
// untouched; updated_at is always refreshed.
type BriefPatch struct {
	Title         *string
	Category      *string
	DeepDive      *string
	FunFact       *string
	RadarPoints   *[]string
	JargonTerm    *string
	JargonDef     *string
	SocialCaption *string
	CoverImage    *string
}

// BriefStore persists brief records and owns the single-active transition.
type BriefStore interface {
	InsertBrief(ctx context.Context, record brief.Brief) error
	GetBrief(ctx context.Context, id string) (brief.Brief, error)
	UpdateBrief(ctx context.Context, id string, patch BriefPatch, now time.Time) error
	DeleteBrief(ctx context.Context, id string) error
	ListBriefsByStatus(ctx context.Context, status brief.Status) ([]brief.Brief, error)
	ListBriefs(ctx context.Context) ([]brief.Brief, error)

	// ListArchivedBriefs returns briefs whose publish date is set and at or
	// before now, newest first, optionally filtered by a case-insensitive
	// title substring.
	ListArchivedBriefs(ctx context.Context, now time.Time, titleQuery string) ([]brief.Brief, error)

	// CurrentActiveBrief returns the single featured brief, or ErrNotFound
	// when nothing is live. If more than one row is ever active the most
	// recent publish date wins.
	CurrentActiveBrief(ctx context.Context, now time.Time) (brief.Brief, error)

	// PublishBrief demotes every active brief to draft and promotes the
	// target in one transaction, setting its publish date to now.
	PublishBrief(ctx context.Context, id string, now time.Time) error

	// UnpublishBrief returns the target to draft and clears its publish date.
	UnpublishBrief(ctx context.Context, id string, now time.Time) error
}

// Subscriber stores one newsletter opt-in.
type Subscriber struct {
	Email     string
	Consent   bool
	Status    string
	CreatedAt time.Time
}

// SubscriberStore persists newsletter subscribers.
type SubscriberStore interface {
	// InsertSubscriber returns ErrAlreadyExists for a duplicate email.
	InsertSubscriber(ctx context.Context, record Subscriber) error
	CountSubscribers(ctx context.Context) (int, error)
}

// Operator is one admin-console account.
type Operator struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// OperatorStore persists admin-console accounts.
type OperatorStore interface {
	InsertOperator(ctx context.Context, record Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (Operator, error)
	GetOperator(ctx context.Context, id string) (Operator, error)
}

// Session is one issued admin-console session.
type Session struct {
	ID         string
	OperatorID string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// SessionStore persists revocable session records.
type SessionStore interface {
	InsertSession(ctx context.Context, record Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// AuditEvent records one operator action.
type AuditEvent struct {
	Action     string
	BriefID    string
	OperatorID string
	CreatedAt  time.Time
}

// AuditStore persists operator audit events.
type AuditStore interface {
	PutAuditEvent(ctx context.Context, record AuditEvent) error
	ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error)
}

// Store aggregates every persistence contract backed by one database.
type Store interface {
	BriefStore
	SubscriberStore
	OperatorStore
	SessionStore
	AuditStore
}
