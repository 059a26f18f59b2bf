package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/storage"
)

// PutAuditEvent records one operator action.
func (s *Store) PutAuditEvent(ctx context.Context, record storage.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.Action) == "" {
		return fmt.Errorf("action is required")
	}
	if strings.TrimSpace(record.OperatorID) == "" {
		return fmt.Errorf("operator id is required")
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO audit_events (action, brief_id, operator_id, created_at) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(record.Action),
		strings.TrimSpace(record.BriefID),
		strings.TrimSpace(record.OperatorID),
		toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("put audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the most recent audit events, newest first.
func (s *Store) ListAuditEvents(ctx context.Context, limit int) ([]storage.AuditEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		"SELECT action, brief_id, operator_id, created_at FROM audit_events ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var records []storage.AuditEvent
	for rows.Next() {
		var record storage.AuditEvent
		var createdAt int64
		if err := rows.Scan(&record.Action, &record.BriefID, &record.OperatorID, &createdAt); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return records, nil
}
