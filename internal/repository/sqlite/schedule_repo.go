package sqlite

import (
	"context"
	"database/sql"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"github.com/google/uuid"
)

const sessionColumns = `id, trainer_id, student_id, date, time, duration, type, status, notes, created_at`

// scheduleRepository implements repository.ScheduleRepository using SQLite.
type scheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new SQLite-backed schedule repository.
func NewScheduleRepository(db *DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, session *domain.ScheduleSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Duration == 0 {
		session.Duration = 60
	}
	if session.Status == "" {
		session.Status = domain.StatusScheduled
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedule_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.TrainerID,
		session.StudentID,
		session.Date,
		session.Time,
		session.Duration,
		session.Type,
		string(session.Status),
		nullString(session.Notes),
		session.CreatedAt.UTC().Format(timeFormat),
	)
	return mapError(err)
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*domain.ScheduleSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM schedule_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		return nil, mapError(err)
	}
	return session, nil
}

func (r *scheduleRepository) ListByTrainer(ctx context.Context, trainerID string, filter repository.SessionFilter) ([]domain.ScheduleSession, error) {
	return r.list(ctx, `trainer_id = ?`, trainerID, filter)
}

func (r *scheduleRepository) ListByStudent(ctx context.Context, studentID string, filter repository.SessionFilter) ([]domain.ScheduleSession, error) {
	return r.list(ctx, `student_id = ?`, studentID, filter)
}

func (r *scheduleRepository) list(ctx context.Context, ownerClause, ownerID string, filter repository.SessionFilter) ([]domain.ScheduleSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM schedule_sessions WHERE ` + ownerClause
	args := []any{ownerID}
	if filter.Date != "" {
		query += ` AND date = ?`
		args = append(args, filter.Date)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY date, time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.ScheduleSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// ListOnDate joins trainer and student names for the admin dashboard view.
func (r *scheduleRepository) ListOnDate(ctx context.Context, date string) ([]domain.ScheduleSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.trainer_id, s.student_id, s.date, s.time, s.duration, s.type,
			s.status, s.notes, s.created_at, t.name, u.name
		FROM schedule_sessions s
		JOIN users t ON t.id = s.trainer_id
		JOIN users u ON u.id = s.student_id
		WHERE s.date = ?
		ORDER BY s.time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.ScheduleSession{}
	for rows.Next() {
		var (
			session     domain.ScheduleSession
			status      string
			notes       sql.NullString
			createdAt   string
			trainerName string
			studentName string
		)
		err := rows.Scan(
			&session.ID, &session.TrainerID, &session.StudentID, &session.Date,
			&session.Time, &session.Duration, &session.Type, &status, &notes,
			&createdAt, &trainerName, &studentName,
		)
		if err != nil {
			return nil, err
		}
		session.Status = domain.SessionStatus(status)
		session.Notes = stringPtr(notes)
		session.CreatedAt = parseTime(createdAt)
		session.TrainerName = &trainerName
		session.StudentName = &studentName
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *scheduleRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schedule_sessions`).Scan(&n)
	return n, err
}

func (r *scheduleRepository) Update(ctx context.Context, session *domain.ScheduleSession) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE schedule_sessions SET date = ?, time = ?, duration = ?, type = ?, status = ?, notes = ?
		WHERE id = ?`,
		session.Date,
		session.Time,
		session.Duration,
		session.Type,
		string(session.Status),
		nullString(session.Notes),
		session.ID,
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

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// Progress entries may link to the session; detach before deleting.
		if _, err := tx.ExecContext(ctx,
			`UPDATE student_progress SET session_id = NULL WHERE session_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM schedule_sessions WHERE id = ?`, id)
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
	})
}

func scanSession(s scanner) (*domain.ScheduleSession, error) {
	var (
		session   domain.ScheduleSession
		status    string
		notes     sql.NullString
		createdAt string
	)
	err := s.Scan(
		&session.ID, &session.TrainerID, &session.StudentID, &session.Date,
		&session.Time, &session.Duration, &session.Type, &status, &notes, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	session.Status = domain.SessionStatus(status)
	session.Notes = stringPtr(notes)
	session.CreatedAt = parseTime(createdAt)
	return &session, nil
}
