// Package sqlstore persists game data through database/sql, on SQLite or Postgres.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = time.RFC3339Nano

// Storage is a database/sql implementation of the storage interface
type Storage struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured database and applies the schema.
// Safe to call against an existing database.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Driver != DriverSQLite && cfg.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Storage{db: db, driver: cfg.Driver}
	if err := s.applySchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) applySchema(ctx context.Context) error {
	if s.driver == DriverSQLite {
		for _, pragma := range []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		} {
			if _, err := s.db.ExecContext(ctx, pragma); err != nil {
				return fmt.Errorf("failed to execute %q: %w", pragma, err)
			}
		}
	}

	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders into the $n form Postgres expects
func (s *Storage) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Storage) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Storage) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

func (s *Storage) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

// Daily challenge operations

func (s *Storage) InsertDailyChallengeIfAbsent(ctx context.Context, challenge *model.DailyChallenge) (*model.DailyChallenge, bool, error) {
	puzzle, err := json.Marshal(challenge.Puzzle)
	if err != nil {
		return nil, false, err
	}

	res, err := s.exec(ctx,
		`INSERT INTO daily_challenges (id, challenge_date, puzzle, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (challenge_date) DO NOTHING`,
		challenge.ID, string(challenge.Date), string(puzzle), formatTime(challenge.CreatedAt))
	if err != nil {
		return nil, false, fmt.Errorf("insert daily challenge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	stored, err := s.GetDailyChallenge(ctx, challenge.Date)
	if err != nil {
		return nil, false, err
	}
	return stored, affected == 1, nil
}

func (s *Storage) GetDailyChallenge(ctx context.Context, date model.Date) (*model.DailyChallenge, error) {
	var (
		c         model.DailyChallenge
		day       string
		puzzle    string
		createdAt string
	)
	err := s.queryRow(ctx,
		`SELECT id, challenge_date, puzzle, created_at FROM daily_challenges WHERE challenge_date = ?`,
		string(date)).Scan(&c.ID, &day, &puzzle, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrDailyChallengeNotFound
		}
		return nil, fmt.Errorf("get daily challenge: %w", err)
	}

	c.Date = model.Date(day)
	if err := json.Unmarshal([]byte(puzzle), &c.Puzzle); err != nil {
		return nil, fmt.Errorf("decode puzzle: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Daily result operations

const resultColumns = `id, username, challenge_id, completion_time_seconds, completed_at, score, created_at`

func (s *Storage) InsertDailyResultIfAbsent(ctx context.Context, result *model.DailyChallengeResult) (*model.DailyChallengeResult, bool, error) {
	var seconds sql.NullInt64
	if result.CompletionTimeSeconds != nil {
		seconds = sql.NullInt64{Int64: int64(*result.CompletionTimeSeconds), Valid: true}
	}
	var completedAt sql.NullString
	if result.CompletedAt != nil {
		completedAt = sql.NullString{String: formatTime(*result.CompletedAt), Valid: true}
	}

	res, err := s.exec(ctx,
		`INSERT INTO daily_challenge_results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (username, challenge_id) DO NOTHING`,
		result.ID, result.Username, result.ChallengeID, seconds, completedAt, result.Score, formatTime(result.CreatedAt))
	if err != nil {
		return nil, false, fmt.Errorf("insert daily result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	stored, err := s.GetDailyResult(ctx, result.ChallengeID, result.Username)
	if err != nil {
		return nil, false, err
	}
	return stored, affected == 1, nil
}

func (s *Storage) GetDailyResult(ctx context.Context, challengeID, username string) (*model.DailyChallengeResult, error) {
	row := s.queryRow(ctx,
		`SELECT `+resultColumns+` FROM daily_challenge_results WHERE challenge_id = ? AND username = ?`,
		challengeID, username)
	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrDailyResultNotFound
		}
		return nil, fmt.Errorf("get daily result: %w", err)
	}
	return result, nil
}

func (s *Storage) ListDailyResults(ctx context.Context, challengeID string) ([]*model.DailyChallengeResult, error) {
	rows, err := s.query(ctx,
		`SELECT `+resultColumns+` FROM daily_challenge_results WHERE challenge_id = ? ORDER BY created_at, id`,
		challengeID)
	if err != nil {
		return nil, fmt.Errorf("list daily results: %w", err)
	}
	defer rows.Close()

	var results []*model.DailyChallengeResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*model.DailyChallengeResult, error) {
	var (
		r           model.DailyChallengeResult
		seconds     sql.NullInt64
		completedAt sql.NullString
		createdAt   string
	)
	if err := row.Scan(&r.ID, &r.Username, &r.ChallengeID, &seconds, &completedAt, &r.Score, &createdAt); err != nil {
		return nil, err
	}

	if seconds.Valid {
		v := int(seconds.Int64)
		r.CompletionTimeSeconds = &v
	}
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		r.CompletedAt = &t
	}
	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// Time attack operations

func (s *Storage) InsertTimeAttackResult(ctx context.Context, result *model.TimeAttackResult) error {
	_, err := s.exec(ctx,
		`INSERT INTO time_attack_results (id, username, difficulty, questions_solved, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		result.ID, result.Username, int(result.Difficulty), result.QuestionsSolved, formatTime(result.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert time attack result: %w", err)
	}
	return nil
}

func (s *Storage) ListTimeAttackResults(ctx context.Context, difficulty model.Tier) ([]*model.TimeAttackResult, error) {
	q := `SELECT id, username, difficulty, questions_solved, created_at FROM time_attack_results`
	var args []any
	if difficulty != 0 {
		q += ` WHERE difficulty = ?`
		args = append(args, int(difficulty))
	}
	q += ` ORDER BY created_at, id`

	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list time attack results: %w", err)
	}
	defer rows.Close()

	var results []*model.TimeAttackResult
	for rows.Next() {
		var (
			r         model.TimeAttackResult
			tier      int
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Username, &tier, &r.QuestionsSolved, &createdAt); err != nil {
			return nil, err
		}
		r.Difficulty = model.Tier(tier)
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t.UTC(), nil
}
