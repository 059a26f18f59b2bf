package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/storage"
)

const briefColumns = `id, title, category, deep_dive, fun_fact, radar_points,
       jargon_term, jargon_def, social_caption, cover_image,
       status, publish_date, created_at, updated_at`

// InsertBrief inserts one brief record.
func (s *Store) InsertBrief(ctx context.Context, record brief.Brief) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	briefID := strings.TrimSpace(record.ID)
	if briefID == "" {
		return fmt.Errorf("brief id is required")
	}
	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("title is required")
	}
	status := record.Status
	if status == "" {
		status = brief.StatusDraft
	}
	if _, err := brief.ParseStatus(string(status)); err != nil {
		return err
	}

	createdAt := record.CreatedAt.UTC()
	updatedAt := record.UpdatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	radarPoints, err := encodeRadarPoints(record.RadarPoints)
	if err != nil {
		return err
	}

	var publishDate any
	if !record.PublishDate.IsZero() {
		publishDate = toMillis(record.PublishDate)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO briefs (
		   id, title, category, deep_dive, fun_fact, radar_points,
		   jargon_term, jargon_def, social_caption, cover_image,
		   status, publish_date, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		briefID,
		strings.TrimSpace(record.Title),
		strings.TrimSpace(record.Category),
		record.DeepDive,
		record.FunFact,
		radarPoints,
		record.JargonTerm,
		record.JargonDef,
		record.SocialCaption,
		record.CoverImage,
		string(status),
		publishDate,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert brief: %w", err)
	}
	return nil
}

// GetBrief returns one brief by id.
func (s *Store) GetBrief(ctx context.Context, id string) (brief.Brief, error) {
	if err := ctx.Err(); err != nil {
		return brief.Brief{}, err
	}
	if s == nil || s.sqlDB == nil {
		return brief.Brief{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return brief.Brief{}, fmt.Errorf("brief id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+briefColumns+` FROM briefs WHERE id = ?`,
		id,
	)
	record, err := scanBrief(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return brief.Brief{}, storage.ErrNotFound
		}
		return brief.Brief{}, fmt.Errorf("get brief: %w", err)
	}
	return record, nil
}

// UpdateBrief merges the supplied patch and refreshes updated_at.
func (s *Store) UpdateBrief(ctx context.Context, id string, patch storage.BriefPatch, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("brief id is required")
	}
	if now.IsZero() {
		now = time.Now()
	}

	setParts := []string{"updated_at = ?"}
	args := []any{toMillis(now)}
	appendSet := func(column string, value any) {
		setParts = append(setParts, column+" = ?")
		args = append(args, value)
	}
	if patch.Title != nil {
		appendSet("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Category != nil {
		appendSet("category", strings.TrimSpace(*patch.Category))
	}
	if patch.DeepDive != nil {
		appendSet("deep_dive", *patch.DeepDive)
	}
	if patch.FunFact != nil {
		appendSet("fun_fact", *patch.FunFact)
	}
	if patch.RadarPoints != nil {
		encoded, err := encodeRadarPoints(*patch.RadarPoints)
		if err != nil {
			return err
		}
		appendSet("radar_points", encoded)
	}
	if patch.JargonTerm != nil {
		appendSet("jargon_term", *patch.JargonTerm)
	}
	if patch.JargonDef != nil {
		appendSet("jargon_def", *patch.JargonDef)
	}
	if patch.SocialCaption != nil {
		appendSet("social_caption", *patch.SocialCaption)
	}
	if patch.CoverImage != nil {
		appendSet("cover_image", strings.TrimSpace(*patch.CoverImage))
	}

	args = append(args, id)
	result, err := s.sqlDB.ExecContext(
		ctx,
		"UPDATE briefs SET "+strings.Join(setParts, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return fmt.Errorf("update brief: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update brief rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteBrief permanently removes one brief.
func (s *Store) DeleteBrief(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("brief id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, "DELETE FROM briefs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete brief: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete brief rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListBriefsByStatus returns briefs in one state, newest creation first.
func (s *Store) ListBriefsByStatus(ctx context.Context, status brief.Status) ([]brief.Brief, error) {
	if _, err := brief.ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return s.queryBriefs(
		ctx,
		`SELECT `+briefColumns+` FROM briefs WHERE status = ? ORDER BY created_at DESC, id DESC`,
		string(status),
	)
}

// ListBriefs returns every brief, newest creation first.
func (s *Store) ListBriefs(ctx context.Context) ([]brief.Brief, error) {
	return s.queryBriefs(
		ctx,
		`SELECT `+briefColumns+` FROM briefs ORDER BY created_at DESC, id DESC`,
	)
}

// ListArchivedBriefs returns briefs published at or before now, newest
// publish date first, optionally filtered by a case-insensitive title
// substring.
func (s *Store) ListArchivedBriefs(ctx context.Context, now time.Time, titleQuery string) ([]brief.Brief, error) {
	if now.IsZero() {
		now = time.Now()
	}
	query := `SELECT ` + briefColumns + `
	   FROM briefs
	  WHERE publish_date IS NOT NULL AND publish_date <= ?`
	args := []any{toMillis(now)}
	titleQuery = strings.TrimSpace(titleQuery)
	if titleQuery != "" {
		query += ` AND title LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(titleQuery)+"%")
	}
	query += ` ORDER BY publish_date DESC, id DESC`
	return s.queryBriefs(ctx, query, args...)
}

// CurrentActiveBrief returns the single featured brief.
func (s *Store) CurrentActiveBrief(ctx context.Context, now time.Time) (brief.Brief, error) {
	if err := ctx.Err(); err != nil {
		return brief.Brief{}, err
	}
	if s == nil || s.sqlDB == nil {
		return brief.Brief{}, fmt.Errorf("storage is not configured")
	}
	if now.IsZero() {
		now = time.Now()
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+briefColumns+`
		   FROM briefs
		  WHERE status = ? AND publish_date IS NOT NULL AND publish_date <= ?
		  ORDER BY publish_date DESC, id DESC
		  LIMIT 1`,
		string(brief.StatusActive),
		toMillis(now),
	)
	record, err := scanBrief(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return brief.Brief{}, storage.ErrNotFound
		}
		return brief.Brief{}, fmt.Errorf("current active brief: %w", err)
	}
	return record, nil
}

// PublishBrief demotes every active brief and promotes the target in one
// transaction. Demoted briefs keep their publish date so the archive retains
// history; the target's publish date is set to now.
func (s *Store) PublishBrief(ctx context.Context, id string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("brief id is required")
	}
	if now.IsZero() {
		now = time.Now()
	}
	nowMillis := toMillis(now)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish transaction: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		"UPDATE briefs SET status = ?, updated_at = ? WHERE status = ? AND id != ?",
		string(brief.StatusDraft),
		nowMillis,
		string(brief.StatusActive),
		id,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("demote active briefs: %w", err)
	}

	result, err := tx.ExecContext(
		ctx,
		"UPDATE briefs SET status = ?, publish_date = ?, updated_at = ? WHERE id = ?",
		string(brief.StatusActive),
		nowMillis,
		nowMillis,
		id,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("promote brief: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("promote brief rows affected: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit publish transaction: %w", err)
	}
	return nil
}

// UnpublishBrief returns the target to draft and clears its publish date.
func (s *Store) UnpublishBrief(ctx context.Context, id string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("brief id is required")
	}
	if now.IsZero() {
		now = time.Now()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		"UPDATE briefs SET status = ?, publish_date = NULL, updated_at = ? WHERE id = ?",
		string(brief.StatusDraft),
		toMillis(now),
		id,
	)
	if err != nil {
		return fmt.Errorf("unpublish brief: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unpublish brief rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) queryBriefs(ctx context.Context, query string, args ...any) ([]brief.Brief, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list briefs: %w", err)
	}
	defer rows.Close()

	var records []brief.Brief
	for rows.Next() {
		record, err := scanBrief(rows)
		if err != nil {
			return nil, fmt.Errorf("list briefs: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list briefs: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrief(row rowScanner) (brief.Brief, error) {
	var record brief.Brief
	var status string
	var radarPoints string
	var publishDate sql.NullInt64
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(
		&record.ID,
		&record.Title,
		&record.Category,
		&record.DeepDive,
		&record.FunFact,
		&radarPoints,
		&record.JargonTerm,
		&record.JargonDef,
		&record.SocialCaption,
		&record.CoverImage,
		&status,
		&publishDate,
		&createdAt,
		&updatedAt,
	); err != nil {
		return brief.Brief{}, err
	}

	parsed, err := brief.ParseStatus(status)
	if err != nil {
		return brief.Brief{}, fmt.Errorf("stored status %q: %w", status, err)
	}
	record.Status = parsed

	if radarPoints != "" {
		if err := json.Unmarshal([]byte(radarPoints), &record.RadarPoints); err != nil {
			return brief.Brief{}, fmt.Errorf("decode radar points: %w", err)
		}
	}
	if publishDate.Valid {
		record.PublishDate = fromMillis(publishDate.Int64)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func encodeRadarPoints(points []string) (string, error) {
	if points == nil {
		points = []string{}
	}
	encoded, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("encode radar points: %w", err)
	}
	return string(encoded), nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return replacer.Replace(value)
}
