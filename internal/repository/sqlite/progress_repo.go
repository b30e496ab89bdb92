package sqlite

import (
	"context"
	"database/sql"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"github.com/google/uuid"
)

const progressColumns = `id, student_id, session_id, date, weight, body_fat, chest, waist, hips, arms, thighs, notes, created_at`

// progressRepository implements repository.ProgressRepository using SQLite.
type progressRepository struct {
	db *DB
}

// NewProgressRepository creates a new SQLite-backed progress repository.
func NewProgressRepository(db *DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, entry *domain.StudentProgress) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO student_progress (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.StudentID,
		nullString(entry.SessionID),
		entry.Date,
		entry.Weight,
		nullFloat(entry.BodyFat),
		nullFloat(entry.Chest),
		nullFloat(entry.Waist),
		nullFloat(entry.Hips),
		nullFloat(entry.Arms),
		nullFloat(entry.Thighs),
		nullString(entry.Notes),
		entry.CreatedAt.UTC().Format(timeFormat),
	)
	return mapError(err)
}

func (r *progressRepository) GetByID(ctx context.Context, id string) (*domain.StudentProgress, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM student_progress WHERE id = ?`, id)
	entry, err := scanProgress(row)
	if err != nil {
		return nil, mapError(err)
	}
	return entry, nil
}

func (r *progressRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.StudentProgress, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+progressColumns+` FROM student_progress
		WHERE student_id = ?
		ORDER BY date DESC, created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.StudentProgress{}
	for rows.Next() {
		entry, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func (r *progressRepository) Update(ctx context.Context, entry *domain.StudentProgress) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE student_progress SET
			session_id = ?, date = ?, weight = ?, body_fat = ?, chest = ?,
			waist = ?, hips = ?, arms = ?, thighs = ?, notes = ?
		WHERE id = ?`,
		nullString(entry.SessionID),
		entry.Date,
		entry.Weight,
		nullFloat(entry.BodyFat),
		nullFloat(entry.Chest),
		nullFloat(entry.Waist),
		nullFloat(entry.Hips),
		nullFloat(entry.Arms),
		nullFloat(entry.Thighs),
		nullString(entry.Notes),
		entry.ID,
	)
	if err != nil {
		return mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *progressRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM student_progress WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanProgress(s scanner) (*domain.StudentProgress, error) {
	var (
		entry     domain.StudentProgress
		sessionID sql.NullString
		bodyFat   sql.NullFloat64
		chest     sql.NullFloat64
		waist     sql.NullFloat64
		hips      sql.NullFloat64
		arms      sql.NullFloat64
		thighs    sql.NullFloat64
		notes     sql.NullString
		createdAt string
	)
	err := s.Scan(
		&entry.ID, &entry.StudentID, &sessionID, &entry.Date, &entry.Weight,
		&bodyFat, &chest, &waist, &hips, &arms, &thighs, &notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	entry.SessionID = stringPtr(sessionID)
	entry.BodyFat = floatPtr(bodyFat)
	entry.Chest = floatPtr(chest)
	entry.Waist = floatPtr(waist)
	entry.Hips = floatPtr(hips)
	entry.Arms = floatPtr(arms)
	entry.Thighs = floatPtr(thighs)
	entry.Notes = stringPtr(notes)
	entry.CreatedAt = parseTime(createdAt)
	return &entry, nil
}
