package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_harvester/internal/domain"
)

const categoryColumns = `id, name, slug, created_at, updated_at`

type CategoryStore struct {
	db *sqlx.DB
}

func NewCategoryStore(db *sqlx.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// GetOrCreate finds the category by slug or inserts it with the given
// display name. Names that slugify identically collapse onto one row, and
// the name stored first wins.
func (s *CategoryStore) GetOrCreate(ctx context.Context, name, slug string) (domain.Category, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO NOTHING
		RETURNING ` + categoryColumns

	var cat domain.Category
	err := sqlx.GetContext(ctx, exec, &cat, query, name, slug)

	if errors.Is(err, sql.ErrNoRows) {
		err = sqlx.GetContext(ctx, exec, &cat,
			`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	}
	if err != nil {
		return domain.Category{}, err
	}
	return cat, nil
}
