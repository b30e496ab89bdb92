package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitpro/gym-app/internal/domain"
	"fitpro/gym-app/internal/repository"

	"github.com/google/uuid"
)

const userColumns = `id, name, email, password_hash, role, avatar, phone, cref,
	email_verified, verification_token, reset_token, reset_token_expires, trainer_id, created_at`

// userRepository implements repository.UserRepository using SQLite.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite-backed user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return errors.New("user email, password hash, and role are required")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Avatar,
		nullString(user.Phone),
		nullString(user.Cref),
		user.EmailVerified,
		nullString(user.VerificationToken),
		nullString(user.ResetToken),
		nullTime(user.ResetTokenExpires),
		nullString(user.TrainerID),
		user.CreatedAt.UTC().Format(timeFormat),
	)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *userRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token = ?`, token)
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = ?`, token)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any
	if filter.Search != "" {
		query += ` AND (name LIKE ? OR email LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if filter.Role != "" {
		query += ` AND role = ?`
		args = append(args, string(filter.Role))
	}
	query += ` ORDER BY created_at DESC`
	return r.queryUsers(ctx, query, args...)
}

func (r *userRepository) Recent(ctx context.Context, limit int) ([]domain.User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT ?`, limit)
}

func (r *userRepository) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[domain.Role(role)] = n
	}
	return counts, rows.Err()
}

func (r *userRepository) CountVerified(ctx context.Context) (verified, unverified int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN email_verified = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN email_verified = 0 THEN 1 ELSE 0 END), 0)
		FROM users`).Scan(&verified, &unverified)
	return
}

func (r *userRepository) GetStudentsByTrainerID(ctx context.Context, trainerID string) ([]domain.User, error) {
	return r.queryUsers(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE trainer_id = ? AND role = ?
		ORDER BY name`, trainerID, string(domain.RoleStudent))
}

func (r *userRepository) SetTrainerForStudent(ctx context.Context, studentID string, trainerID *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET trainer_id = ? WHERE id = ? AND role = ?`,
		nullString(trainerID), studentID, string(domain.RoleStudent))
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

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			name = ?, email = ?, password_hash = ?, role = ?, avatar = ?,
			phone = ?, cref = ?, email_verified = ?, verification_token = ?,
			reset_token = ?, reset_token_expires = ?, trainer_id = ?
		WHERE id = ?`,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Avatar,
		nullString(user.Phone),
		nullString(user.Cref),
		user.EmailVerified,
		nullString(user.VerificationToken),
		nullString(user.ResetToken),
		nullTime(user.ResetTokenExpires),
		nullString(user.TrainerID),
		user.ID,
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

// Delete removes the user and everything referencing them, children before
// parents, in a single transaction.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		steps := []struct {
			query string
			args  []any
		}{
			{`DELETE FROM notifications WHERE user_id = ?`, []any{id}},
			{`DELETE FROM completed_exercises
				WHERE student_id = ?
				OR workout_plan_id IN (SELECT id FROM workout_plans WHERE trainer_id = ? OR student_id = ?)
				OR exercise_id IN (SELECT id FROM exercises WHERE created_by = ?)`, []any{id, id, id, id}},
			{`DELETE FROM student_progress WHERE student_id = ?`, []any{id}},
			// Progress rows of other students may point at sessions this user
			// was part of; detach them before removing the sessions.
			{`UPDATE student_progress SET session_id = NULL
				WHERE session_id IN (SELECT id FROM schedule_sessions WHERE trainer_id = ? OR student_id = ?)`, []any{id, id}},
			{`DELETE FROM schedule_sessions WHERE trainer_id = ? OR student_id = ?`, []any{id, id}},
			{`DELETE FROM workout_exercises
				WHERE workout_plan_id IN (SELECT id FROM workout_plans WHERE trainer_id = ? OR student_id = ?)
				OR exercise_id IN (SELECT id FROM exercises WHERE created_by = ?)`, []any{id, id, id}},
			{`DELETE FROM workout_plans WHERE trainer_id = ? OR student_id = ?`, []any{id, id}},
			{`DELETE FROM exercises WHERE created_by = ?`, []any{id}},
			{`UPDATE users SET trainer_id = NULL WHERE trainer_id = ?`, []any{id}},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
				return mapError(err)
			}
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		user              domain.User
		role              string
		phone, cref       sql.NullString
		verifToken        sql.NullString
		resetToken        sql.NullString
		resetExpires      sql.NullString
		trainerID         sql.NullString
		createdAt         string
	)
	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.Avatar,
		&phone, &cref, &user.EmailVerified, &verifToken, &resetToken, &resetExpires,
		&trainerID, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	user.Phone = stringPtr(phone)
	user.Cref = stringPtr(cref)
	user.VerificationToken = stringPtr(verifToken)
	user.ResetToken = stringPtr(resetToken)
	user.ResetTokenExpires = timePtr(resetExpires)
	user.TrainerID = stringPtr(trainerID)
	user.CreatedAt = parseTime(createdAt)
	return &user, nil
}
