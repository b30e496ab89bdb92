package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"fitpro/gym-app/internal/repository"

	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored. RFC3339 in UTC keeps string
// ordering consistent with chronological ordering.
const timeFormat = time.RFC3339

// DB wraps the sql.DB handle and owns schema migration.
type DB struct {
	*sql.DB
	migrateOnce sync.Once
	migrateErr  error
}

// Open opens (or creates) the SQLite database at path. Use ":memory:" for an
// in-memory database in tests.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY between the pool's connections.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return &DB{DB: db}, nil
}

// WithTx runs fn inside a transaction, rolling back on error.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// usersDDL is the current definition of the users table. The body (everything
// inside the parentheses) is reused when the table has to be rebuilt to widen
// the role CHECK constraint.
const usersDDLBody = `
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('trainer','student','admin')),
	avatar TEXT NOT NULL DEFAULT '💪',
	phone TEXT,
	cref TEXT,
	email_verified INTEGER NOT NULL DEFAULT 0,
	verification_token TEXT,
	reset_token TEXT,
	reset_token_expires TEXT,
	trainer_id TEXT REFERENCES users(id),
	created_at TEXT NOT NULL`

var createTables = []string{
	`CREATE TABLE IF NOT EXISTS users (` + usersDDLBody + `)`,

	`CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		muscle_group TEXT NOT NULL,
		equipment TEXT NOT NULL DEFAULT 'Nenhum',
		description TEXT,
		difficulty TEXT NOT NULL CHECK (difficulty IN ('Iniciante','Intermediário','Avançado')),
		created_by TEXT REFERENCES users(id),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS workout_plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		trainer_id TEXT NOT NULL REFERENCES users(id),
		student_id TEXT NOT NULL REFERENCES users(id),
		day_of_week TEXT NOT NULL DEFAULT '[]',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id TEXT PRIMARY KEY,
		workout_plan_id TEXT NOT NULL REFERENCES workout_plans(id),
		exercise_id TEXT NOT NULL REFERENCES exercises(id),
		sets INTEGER NOT NULL,
		reps TEXT NOT NULL,
		rest_seconds INTEGER NOT NULL DEFAULT 60,
		weight TEXT,
		notes TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_sessions (
		id TEXT PRIMARY KEY,
		trainer_id TEXT NOT NULL REFERENCES users(id),
		student_id TEXT NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		duration INTEGER NOT NULL DEFAULT 60,
		type TEXT NOT NULL CHECK (type IN ('Treino','Avaliação','Consulta')),
		status TEXT NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled','completed','cancelled')),
		notes TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS student_progress (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES users(id),
		session_id TEXT REFERENCES schedule_sessions(id),
		date TEXT NOT NULL,
		weight REAL NOT NULL,
		body_fat REAL,
		chest REAL,
		waist REAL,
		hips REAL,
		arms REAL,
		thighs REAL,
		notes TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'info' CHECK (type IN ('info','success','warning')),
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS completed_exercises (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES users(id),
		workout_plan_id TEXT NOT NULL REFERENCES workout_plans(id),
		exercise_id TEXT NOT NULL REFERENCES exercises(id),
		completed_at TEXT NOT NULL
	)`,
}

// addColumnMigrations are forward-only column additions for instances created
// before the column existed. Each is attempted and the error ignored: failure
// means the column is already present.
var addColumnMigrations = []string{
	`ALTER TABLE users ADD COLUMN avatar TEXT NOT NULL DEFAULT '💪'`,
	`ALTER TABLE users ADD COLUMN phone TEXT`,
	`ALTER TABLE users ADD COLUMN cref TEXT`,
	`ALTER TABLE users ADD COLUMN email_verified INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE users ADD COLUMN verification_token TEXT`,
	`ALTER TABLE users ADD COLUMN reset_token TEXT`,
	`ALTER TABLE users ADD COLUMN reset_token_expires TEXT`,
	`ALTER TABLE users ADD COLUMN trainer_id TEXT REFERENCES users(id)`,
	`ALTER TABLE schedule_sessions ADD COLUMN notes TEXT`,
	`ALTER TABLE student_progress ADD COLUMN session_id TEXT REFERENCES schedule_sessions(id)`,
}

// Migrate creates all tables and applies forward-only migrations. It runs at
// most once per process; subsequent calls return the first result.
func (db *DB) Migrate(ctx context.Context) error {
	db.migrateOnce.Do(func() {
		db.migrateErr = db.migrate(ctx)
	})
	return db.migrateErr
}

func (db *DB) migrate(ctx context.Context) error {
	for _, ddl := range createTables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, stmt := range addColumnMigrations {
		// Best effort: an error means the column already exists.
		db.ExecContext(ctx, stmt)
	}
	return db.rebuildUsersIfStale(ctx)
}

// rebuildUsersIfStale widens the role CHECK constraint on users tables created
// before the admin role existed. SQLite cannot alter a CHECK constraint in
// place, so a stale table is rebuilt: create a shadow table with the current
// DDL, copy the rows (restricted to columns both versions share), drop the old
// table and rename the shadow into place, with foreign keys off for the
// duration.
func (db *DB) rebuildUsersIfStale(ctx context.Context) error {
	var ddl string
	err := db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&ddl)
	if err != nil {
		return fmt.Errorf("inspect users table: %w", err)
	}
	if strings.Contains(ddl, "'admin'") {
		return nil
	}

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer db.ExecContext(ctx, `PRAGMA foreign_keys = ON`)

	cols, err := db.tableColumns(ctx, "users")
	if err != nil {
		return err
	}
	// Copy only columns present in both the old table and the new DDL, to
	// tolerate partially migrated instances.
	var shared []string
	for _, c := range cols {
		if strings.Contains(usersDDLBody, c+" ") {
			shared = append(shared, c)
		}
	}
	colList := strings.Join(shared, ", ")

	steps := []string{
		`DROP TABLE IF EXISTS users_new`,
		`CREATE TABLE users_new (` + usersDDLBody + `)`,
		fmt.Sprintf(`INSERT INTO users_new (%s) SELECT %s FROM users`, colList, colList),
		`DROP TABLE users`,
		`ALTER TABLE users_new RENAME TO users`,
	}
	for _, stmt := range steps {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("rebuild users table: %w", err)
		}
	}
	return nil
}

func (db *DB) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// mapError converts driver errors into repository sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repository.ErrDuplicate
	}
	return err
}

// --- null conversion helpers ---

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeFormat), Valid: true}
}

func timePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(timeFormat, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}
