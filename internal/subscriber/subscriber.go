// Package subscriber handles newsletter signups: email normalization,
// validation, DPDPA consent capture, and idempotent persistence.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/storage"
)

// MaxEmailLength bounds stored subscriber addresses.
const MaxEmailLength = 255

var (
	// ErrInvalidEmail indicates the address failed shape or length checks.
	ErrInvalidEmail = errors.New("email address is invalid")
	// ErrConsentRequired indicates the signup lacked the consent checkbox.
	ErrConsentRequired = errors.New("consent is required")
)

// Store is the persistence surface the service needs.
type Store interface {
	InsertSubscriber(ctx context.Context, record storage.Subscriber) error
	CountSubscribers(ctx context.Context) (int, error)
}

// NormalizeEmail canonicalizes an address for storage. Two signups
// differing only in case or surrounding whitespace map to one row.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized address shape and length.
func ValidateEmail(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// Service records newsletter signups.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a signup service backed by store.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Subscribe records one signup. It reports already=true when the
// address was previously subscribed; duplicates are not an error.
func (s *Service) Subscribe(ctx context.Context, email string, consent bool) (already bool, err error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return false, err
	}
	if !consent {
		return false, ErrConsentRequired
	}

	err = s.store.InsertSubscriber(ctx, storage.Subscriber{
		Email:     email,
		Consent:   true,
		Status:    "active",
		CreatedAt: s.now().UTC(),
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	return false, nil
}

// Count returns the total subscriber count for the admin dashboard.
func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.store.CountSubscribers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}
