package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/storage"
)

// InsertSubscriber inserts one subscriber row. Duplicate emails return
// storage.ErrAlreadyExists so signup can stay idempotent at the boundary.
func (s *Store) InsertSubscriber(ctx context.Context, record storage.Subscriber) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	email := strings.TrimSpace(record.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	status := strings.TrimSpace(record.Status)
	if status == "" {
		status = "active"
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	consent := 0
	if record.Consent {
		consent = 1
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO subscribers (email, consent, status, created_at) VALUES (?, ?, ?, ?)",
		email,
		consent,
		status,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// CountSubscribers returns the number of stored subscribers.
func (s *Store) CountSubscribers(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(1) FROM subscribers").Scan(&count); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}
