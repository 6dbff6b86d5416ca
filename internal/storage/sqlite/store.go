// Package sqlite provides a single-file character store for running the
// combat server without PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/storage/sqlite/migrations"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = character.ErrNotFound

// Store persists characters in SQLite. It implements roster.Store.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite database at path and applies embedded migrations.
//
// Precondition: path must be non-empty.
// Postcondition: Returns a migrated Store or a non-nil error.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func applyMigrations(sqlDB *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts c or updates the stored character of the same name.
// Combat state is never stored.
func (s *Store) Save(ctx context.Context, c *character.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("character name is required")
	}
	skills, err := json.Marshal(orEmpty(c.Skills))
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}
	items, err := json.Marshal(orEmpty(c.Items))
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	now := toMillis(time.Now())

	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO characters (
		   name, job_id, level, exp, hp, max_hp, mp, max_mp, gold,
		   location, x, y, skills, items, is_admin, banned, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   job_id = excluded.job_id, level = excluded.level, exp = excluded.exp,
		   hp = excluded.hp, max_hp = excluded.max_hp,
		   mp = excluded.mp, max_mp = excluded.max_mp, gold = excluded.gold,
		   location = excluded.location, x = excluded.x, y = excluded.y,
		   skills = excluded.skills, items = excluded.items,
		   is_admin = excluded.is_admin, banned = excluded.banned,
		   updated_at = excluded.updated_at`,
		c.Name, c.JobID, c.Level, c.Exp, c.HP, c.MaxHP, c.MP, c.MaxMP, c.Gold,
		c.Location, c.X, c.Y, string(skills), string(items), c.IsAdmin, c.Banned, now, now,
	)
	if err != nil {
		return fmt.Errorf("save character %q: %w", c.Name, err)
	}
	return nil
}

// GetByName retrieves a character by name.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (s *Store) GetByName(ctx context.Context, name string) (*character.Character, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE name = ?`, name)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("get character: %w", err)
	}
	return c, nil
}

// Count returns the number of stored characters.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count characters: %w", err)
	}
	return n, nil
}

const characterColumns = `id, name, job_id, level, exp, hp, max_hp, mp, max_mp, gold,
	location, x, y, skills, items, is_admin, banned, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (*character.Character, error) {
	var (
		c                    character.Character
		skills, items        string
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&c.ID, &c.Name, &c.JobID, &c.Level, &c.Exp,
		&c.HP, &c.MaxHP, &c.MP, &c.MaxMP, &c.Gold,
		&c.Location, &c.X, &c.Y, &skills, &items,
		&c.IsAdmin, &c.Banned, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skills), &c.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &c.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
