package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/storage"
)

// InsertOperator inserts one admin-console account.
func (s *Store) InsertOperator(ctx context.Context, record storage.Operator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	operatorID := strings.TrimSpace(record.ID)
	if operatorID == "" {
		return fmt.Errorf("operator id is required")
	}
	email := strings.TrimSpace(record.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(record.PasswordHash) == "" {
		return fmt.Errorf("password hash is required")
	}
	role := strings.TrimSpace(record.Role)
	if role == "" {
		role = "admin"
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		"INSERT INTO operators (id, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)",
		operatorID,
		email,
		record.PasswordHash,
		role,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert operator: %w", err)
	}
	return nil
}

// GetOperatorByEmail returns one operator account by email.
func (s *Store) GetOperatorByEmail(ctx context.Context, email string) (storage.Operator, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return storage.Operator{}, fmt.Errorf("email is required")
	}
	return s.getOperator(ctx, "SELECT id, email, password_hash, role, created_at FROM operators WHERE email = ?", email)
}

// GetOperator returns one operator account by id.
func (s *Store) GetOperator(ctx context.Context, id string) (storage.Operator, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Operator{}, fmt.Errorf("operator id is required")
	}
	return s.getOperator(ctx, "SELECT id, email, password_hash, role, created_at FROM operators WHERE id = ?", id)
}

func (s *Store) getOperator(ctx context.Context, query string, arg string) (storage.Operator, error) {
	if err := ctx.Err(); err != nil {
		return storage.Operator{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Operator{}, fmt.Errorf("storage is not configured")
	}

	var record storage.Operator
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, query, arg).Scan(
		&record.ID,
		&record.Email,
		&record.PasswordHash,
		&record.Role,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Operator{}, storage.ErrNotFound
		}
		return storage.Operator{}, fmt.Errorf("get operator: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}
