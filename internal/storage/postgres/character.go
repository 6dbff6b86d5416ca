package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duelcore/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = character.ErrNotFound

// CharacterRepository persists characters keyed by name. It implements
// roster.Store.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, name, job_id, level, exp, hp, max_hp, mp, max_mp, gold,
	location, x, y, skills, items, is_admin, banned, created_at, updated_at`

// Save inserts c or updates the stored character of the same name.
// Combat state is never stored.
//
// Precondition: c.Name must be non-empty.
// Postcondition: Returns nil once the row reflects c.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	items := c.Items
	if items == nil {
		items = []character.ItemStack{}
	}
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO characters
			(name, job_id, level, exp, hp, max_hp, mp, max_mp, gold,
			 location, x, y, skills, items, is_admin, banned)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (name) DO UPDATE SET
			job_id = EXCLUDED.job_id, level = EXCLUDED.level, exp = EXCLUDED.exp,
			hp = EXCLUDED.hp, max_hp = EXCLUDED.max_hp,
			mp = EXCLUDED.mp, max_mp = EXCLUDED.max_mp, gold = EXCLUDED.gold,
			location = EXCLUDED.location, x = EXCLUDED.x, y = EXCLUDED.y,
			skills = EXCLUDED.skills, items = EXCLUDED.items,
			is_admin = EXCLUDED.is_admin, banned = EXCLUDED.banned,
			updated_at = NOW()`,
		c.Name, c.JobID, c.Level, c.Exp, c.HP, c.MaxHP, c.MP, c.MaxMP, c.Gold,
		c.Location, c.X, c.Y, skills, items, c.IsAdmin, c.Banned,
	)
	if err != nil {
		return fmt.Errorf("saving character %q: %w", c.Name, err)
	}
	return nil
}

// GetByName retrieves a character by name.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE name = $1`, name)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// Count returns the number of stored characters.
//
// Postcondition: Returns a non-negative count or a non-nil error.
func (r *CharacterRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM characters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting characters: %w", err)
	}
	return n, nil
}

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	if err := row.Scan(
		&c.ID, &c.Name, &c.JobID, &c.Level, &c.Exp,
		&c.HP, &c.MaxHP, &c.MP, &c.MaxMP, &c.Gold,
		&c.Location, &c.X, &c.Y, &c.Skills, &c.Items,
		&c.IsAdmin, &c.Banned, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
