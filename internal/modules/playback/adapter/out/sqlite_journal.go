package out

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"playfin/internal/modules/playback/domain"
	playbackout "playfin/internal/modules/playback/port/out"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLiteJournal(dbPath string) (playbackout.Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	if err := migrateUp(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// migrateUp runs on its own handle because the migrate driver closes the
// database it was given.
func migrateUp(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite for migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("journal migrations: driver: %w", err)
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("journal migrations: iofs init: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("journal migrations: create: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("journal migrations: up: %w", err)
	}
	return nil
}

func (j *SQLiteJournal) Append(ctx context.Context, r domain.Record) error {
	const stmt = `
INSERT INTO playback_journal (id, item_id, name, started_at, ended_at, start_ticks, end_ticks, duration_ticks, reports_sent, reports_failed, stop_reported, outcome)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := j.db.ExecContext(ctx, stmt,
		r.ID,
		r.ItemID,
		r.Name,
		r.StartedAt.UTC().Format(timeLayout),
		r.EndedAt.UTC().Format(timeLayout),
		r.StartTicks,
		r.EndTicks,
		r.DurationTicks,
		r.ReportsSent,
		r.ReportsFailed,
		r.StopReported,
		string(r.Outcome),
	)
	if err != nil {
		return fmt.Errorf("append journal record: %w", err)
	}
	return nil
}

// Recent lists the newest records first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
SELECT id, item_id, name, started_at, ended_at, start_ticks, end_ticks, duration_ticks, reports_sent, reports_failed, stop_reported, outcome
FROM playback_journal
ORDER BY started_at DESC, id DESC
LIMIT ?;
`
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			r                  domain.Record
			startedAt, endedAt string
			outcome            string
		)
		if err := rows.Scan(&r.ID, &r.ItemID, &r.Name, &startedAt, &endedAt, &r.StartTicks, &r.EndTicks, &r.DurationTicks, &r.ReportsSent, &r.ReportsFailed, &r.StopReported, &outcome); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if r.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		r.Outcome = domain.Outcome(outcome)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
