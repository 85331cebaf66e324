package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_harvester/internal/domain"
)

const authorColumns = `id, name, outlet_id, profile, twitter, linkedin, facebook, website, avatar, about, created_at, updated_at`

type AuthorStore struct {
	db *sqlx.DB
}

func NewAuthorStore(db *sqlx.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

// GetOrCreate finds the author by (name, outlet) or inserts one populated
// from the record. On reuse the stored row is returned as-is: social links
// are only ever set by whichever run first created the row.
func (s *AuthorStore) GetOrCreate(ctx context.Context, outletID int64, rec domain.AuthorRecord) (domain.Author, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO authors (name, outlet_id, profile, twitter, linkedin, facebook, website, avatar, about)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name, outlet_id) DO NOTHING
		RETURNING ` + authorColumns

	var author domain.Author
	err := sqlx.GetContext(ctx, exec, &author, query,
		rec.Name, outletID, rec.Profile, rec.Twitter, rec.Linkedin,
		rec.Facebook, rec.Website, rec.Avatar, rec.About)

	if errors.Is(err, sql.ErrNoRows) {
		err = sqlx.GetContext(ctx, exec, &author,
			`SELECT `+authorColumns+` FROM authors WHERE name = $1 AND outlet_id = $2`,
			rec.Name, outletID)
	}
	if err != nil {
		return domain.Author{}, err
	}
	return author, nil
}

// Exists reports whether an author row already covers (name, outlet).
// Adapters call this before fetching profile pages.
func (s *AuthorStore) Exists(ctx context.Context, name string, outletID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		`SELECT EXISTS (SELECT 1 FROM authors WHERE name = $1 AND outlet_id = $2)`,
		name, outletID)
	return exists, err
}
