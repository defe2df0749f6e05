// Package sqlstore persists answers and users in PostgreSQL or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/randomtoy/oracle-go/internal/domain"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Store implements ports.AnswerStore and ports.UserStore on database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time

	mu   sync.Mutex
	last time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open connects to dsn, runs migrations and returns a ready Store.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*Store, error) {
	driverName, err := dialect.driverName()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == SQLite {
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := &Store{db: db, dialect: dialect, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if err := s.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return s, nil
}

func (s *Store) RunMigrations(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(s.dialect.gooseDialect()); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, "migrations/"+string(s.dialect))
}

func (s *Store) Close() error {
	return s.db.Close()
}

// nextTimestamp returns the current time, clamped so it never precedes an
// earlier insert from this process.
func (s *Store) nextTimestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	// TIMESTAMPTZ keeps microseconds.
	t := s.now().UTC().Truncate(time.Microsecond)
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}

func (s *Store) CreateAnswer(ctx context.Context, in domain.NewAnswer) (domain.Answer, error) {
	a := domain.Answer{
		ID:        uuid.NewString(),
		Question:  in.Question,
		Answer:    in.Answer,
		CreatedAt: s.nextTimestamp(),
	}
	var userID sql.NullString
	if in.UserID != nil && *in.UserID != "" {
		id := *in.UserID
		a.UserID = &id
		userID = sql.NullString{String: id, Valid: true}
	}

	query := s.dialect.rebind(`INSERT INTO answers (id, question, answer, created_at, user_id)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query,
		a.ID, a.Question, a.Answer, s.dialect.encodeTime(a.CreatedAt), userID); err != nil {
		return domain.Answer{}, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

const answerColumns = `id, question, answer, created_at, user_id`

func (s *Store) GetAnswerByID(ctx context.Context, id string) (domain.Answer, error) {
	query := s.dialect.rebind(`SELECT ` + answerColumns + ` FROM answers WHERE id = ?`)

	a, err := scanAnswer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Answer{}, domain.ErrAnswerNotFound
		}
		return domain.Answer{}, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (s *Store) GetAllAnswers(ctx context.Context) ([]domain.Answer, error) {
	return s.listAnswers(ctx, `SELECT `+answerColumns+` FROM answers
		ORDER BY created_at DESC, seq DESC`)
}

func (s *Store) GetAnswersByUserID(ctx context.Context, userID string) ([]domain.Answer, error) {
	return s.listAnswers(ctx, `SELECT `+answerColumns+` FROM answers
		WHERE user_id = ?
		ORDER BY created_at DESC, seq DESC`, userID)
}

func (s *Store) listAnswers(ctx context.Context, query string, args ...any) ([]domain.Answer, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []domain.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(r rowScanner) (domain.Answer, error) {
	var (
		a       domain.Answer
		created timestamp
		userID  sql.NullString
	)
	if err := r.Scan(&a.ID, &a.Question, &a.Answer, &created, &userID); err != nil {
		return domain.Answer{}, err
	}
	a.CreatedAt = created.t
	if userID.Valid {
		a.UserID = &userID.String
	}
	return a, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.getUser(ctx, `SELECT id, username, password FROM users WHERE id = ?`, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.getUser(ctx, `SELECT id, username, password FROM users WHERE username = ?`, username)
}

func (s *Store) getUser(ctx context.Context, query string, arg string) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(query), arg).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, in domain.NewUser) (domain.User, error) {
	u := domain.User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Password: in.Password,
	}

	query := s.dialect.rebind(`INSERT INTO users (id, username, password) VALUES (?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, u.ID, u.Username, u.Password); err != nil {
		if s.dialect.isUniqueViolation(err) {
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// DB exposes the underlying pool for maintenance tasks.
func (s *Store) DB() *sql.DB {
	return s.db
}
