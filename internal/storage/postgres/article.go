package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"news_harvester/internal/domain"
)

const articleColumns = `id, title, date, url, thumb, content, outlet_id, created_at, updated_at`

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// GetOrCreate inserts the article keyed by URL, or returns the existing row
// untouched. The second return reports whether a new row was created;
// relation attachment is only valid on that path.
func (s *ArticleStore) GetOrCreate(ctx context.Context, article domain.Article) (domain.Article, bool, error) {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO articles (title, date, url, thumb, content, outlet_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO NOTHING
		RETURNING ` + articleColumns

	var out domain.Article
	err := sqlx.GetContext(ctx, exec, &out, query,
		article.Title, article.Date, article.URL, article.Thumb,
		article.Content, article.OutletID)
	if err == nil {
		return out, true, nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		err = sqlx.GetContext(ctx, exec, &out,
			`SELECT `+articleColumns+` FROM articles WHERE url = $1`, article.URL)
		if err != nil {
			return domain.Article{}, false, err
		}
		return out, false, nil
	}

	return domain.Article{}, false, err
}

// ExistsByURL is the cheap dedup probe adapters run before any secondary
// page fetch.
func (s *ArticleStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`, url)
	return exists, err
}

func (s *ArticleStore) AttachAuthors(ctx context.Context, articleID int64, authorIDs []int64) error {
	return s.attach(ctx, "article_authors", "author_id", articleID, authorIDs)
}

func (s *ArticleStore) AttachCategories(ctx context.Context, articleID int64, categoryIDs []int64) error {
	return s.attach(ctx, "article_categories", "category_id", articleID, categoryIDs)
}

func (s *ArticleStore) attach(ctx context.Context, table, column string, articleID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO " + table + " (article_id, " + column + ") VALUES ")
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, articleID)

	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($1, $")
		sb.WriteString(strconv.Itoa(i + 2))
		sb.WriteString(")")
		args = append(args, id)
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	return err
}
