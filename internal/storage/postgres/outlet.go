package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_harvester/internal/domain"
)

const outletColumns = `id, name, slug, website, description, active, created_at, updated_at`

type OutletStore struct {
	db *sqlx.DB
}

func NewOutletStore(db *sqlx.DB) *OutletStore {
	return &OutletStore{db: db}
}

// GetOrCreate finds the outlet by name or inserts it with the given seed
// values. An existing row is returned untouched.
func (s *OutletStore) GetOrCreate(ctx context.Context, outlet domain.Outlet) (domain.Outlet, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO outlets (name, slug, website, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
		RETURNING ` + outletColumns

	var out domain.Outlet
	err := sqlx.GetContext(ctx, exec, &out, query,
		outlet.Name, outlet.Slug, outlet.Website, outlet.Description)

	if errors.Is(err, sql.ErrNoRows) {
		err = sqlx.GetContext(ctx, exec, &out,
			`SELECT `+outletColumns+` FROM outlets WHERE name = $1`, outlet.Name)
	}
	if err != nil {
		return domain.Outlet{}, err
	}
	return out, nil
}

func (s *OutletStore) GetBySlug(ctx context.Context, slug string) (domain.Outlet, error) {
	var out domain.Outlet
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &out,
		`SELECT `+outletColumns+` FROM outlets WHERE slug = $1`, slug)
	if err != nil {
		return domain.Outlet{}, err
	}
	return out, nil
}

// Delete soft-deletes: the row stays, articles stay, only Active flips.
func (s *OutletStore) Delete(ctx context.Context, id int64) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE outlets SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}
