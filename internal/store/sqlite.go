package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts or updates a user's settings.
// If the user (chat_id) exists, fields are updated; otherwise, a new row is inserted.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, u *domain.UserSettings) error {
	if u == nil {
		return errors.New("nil user")
	}

	created := u.CreatedAt.UTC().Unix()
	if u.CreatedAt.IsZero() {
		created = time.Now().UTC().Unix()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			chat_id, created_at, tz, location_path, lat, lon,
			daily_hour, daily_minute, use_llm
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			tz            = excluded.tz,
			location_path = excluded.location_path,
			lat           = excluded.lat,
			lon           = excluded.lon,
			daily_hour    = excluded.daily_hour,
			daily_minute  = excluded.daily_minute,
			use_llm       = excluded.use_llm`,
		u.ChatID, created, u.TZ, u.LocationPath,
		toNullFloat64(u.Lat), toNullFloat64(u.Lon),
		u.DailyHour, u.DailyMinute, boolToInt(u.UseLLM),
	)
	return err
}

// GetUser returns a user's settings by chatID or sql.ErrNoRows if not found.
func (r *SQLiteRepo) GetUser(ctx context.Context, chatID int64) (*domain.UserSettings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, created_at, tz, location_path, lat, lon,
		       daily_hour, daily_minute, use_llm
		FROM users
		WHERE chat_id = ?`,
		chatID,
	)
	u, err := scanUser(row.Scan)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns every stored user, used to rearm daily jobs on startup.
func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]domain.UserSettings, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, created_at, tz, location_path, lat, lon,
		       daily_hour, daily_minute, use_llm
		FROM users
		ORDER BY chat_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.UserSettings
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// SetUseLLM toggles the per-user summarizer flag.
func (r *SQLiteRepo) SetUseLLM(ctx context.Context, chatID int64, on bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET use_llm = ?
		WHERE chat_id = ?`,
		boolToInt(on), chatID,
	)
	return err
}

func scanUser(scan func(dest ...any) error) (*domain.UserSettings, error) {
	var (
		chatID      int64
		createdAt   int64
		tz          string
		location    string
		latNF       sql.NullFloat64
		lonNF       sql.NullFloat64
		dailyHour   int
		dailyMinute int
		useLLMInt   int
	)
	if err := scan(
		&chatID, &createdAt, &tz, &location, &latNF, &lonNF,
		&dailyHour, &dailyMinute, &useLLMInt,
	); err != nil {
		return nil, err
	}
	return &domain.UserSettings{
		ChatID:       chatID,
		TZ:           tz,
		LocationPath: location,
		Lat:          fromNullFloat64(latNF),
		Lon:          fromNullFloat64(lonNF),
		DailyHour:    dailyHour,
		DailyMinute:  dailyMinute,
		UseLLM:       useLLMInt != 0,
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
	}, nil
}
