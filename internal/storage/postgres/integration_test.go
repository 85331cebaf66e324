//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"news_harvester/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_schema.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM article_authors")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM article_categories")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM authors")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM categories")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM outlets")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) createOutlet() domain.Outlet {
	store := NewOutletStore(s.db)
	outlet, err := store.GetOrCreate(s.ctx, domain.Outlet{
		Name:    "TechCrunch",
		Slug:    "techcrunch",
		Website: "https://techcrunch.com",
	})
	s.Require().NoError(err)
	return outlet
}

func (s *PostgresIntegrationSuite) TestOutletStore_GetOrCreate() {
	store := NewOutletStore(s.db)

	first, err := store.GetOrCreate(s.ctx, domain.Outlet{
		Name:        "TechCrunch",
		Slug:        "techcrunch",
		Website:     "https://techcrunch.com",
		Description: "startup news",
	})
	s.NoError(err)
	s.Greater(first.ID, int64(0))
	s.True(first.Active)

	// Re-seeding with a different description must not touch the row.
	second, err := store.GetOrCreate(s.ctx, domain.Outlet{
		Name:        "TechCrunch",
		Slug:        "techcrunch",
		Website:     "https://techcrunch.com",
		Description: "something else",
	})
	s.NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal("startup news", second.Description)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM outlets")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestOutletStore_SoftDelete() {
	store := NewOutletStore(s.db)
	outlet := s.createOutlet()

	articles := NewArticleStore(s.db)
	_, created, err := articles.GetOrCreate(s.ctx, domain.Article{
		Title:    "Kept",
		Date:     time.Now(),
		URL:      "https://techcrunch.com/kept/",
		Content:  "body",
		OutletID: outlet.ID,
	})
	s.Require().NoError(err)
	s.Require().True(created)

	s.NoError(store.Delete(s.ctx, outlet.ID))

	got, err := store.GetBySlug(s.ctx, "techcrunch")
	s.NoError(err)
	s.False(got.Active)

	// Article history survives the delete.
	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM articles WHERE outlet_id = $1", outlet.ID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestArticleStore_GetOrCreate() {
	outlet := s.createOutlet()
	store := NewArticleStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	article := domain.Article{
		Title:    "First Pass",
		Date:     now,
		URL:      "https://techcrunch.com/2026/08/30/first-pass/",
		Content:  "body text",
		OutletID: outlet.ID,
	}

	first, created, err := store.GetOrCreate(s.ctx, article)
	s.NoError(err)
	s.True(created)
	s.Greater(first.ID, int64(0))

	// Same URL again: row reused, nothing overwritten.
	article.Title = "Second Pass"
	second, created, err := store.GetOrCreate(s.ctx, article)
	s.NoError(err)
	s.False(created)
	s.Equal(first.ID, second.ID)
	s.Equal("First Pass", second.Title)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM articles")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestArticleStore_ExistsByURL() {
	outlet := s.createOutlet()
	store := NewArticleStore(s.db)

	exists, err := store.ExistsByURL(s.ctx, "https://techcrunch.com/missing/")
	s.NoError(err)
	s.False(exists)

	_, _, err = store.GetOrCreate(s.ctx, domain.Article{
		Title:    "Here",
		Date:     time.Now(),
		URL:      "https://techcrunch.com/here/",
		Content:  "body",
		OutletID: outlet.ID,
	})
	s.Require().NoError(err)

	exists, err = store.ExistsByURL(s.ctx, "https://techcrunch.com/here/")
	s.NoError(err)
	s.True(exists)
}

func (s *PostgresIntegrationSuite) TestAuthorStore_ScopedToOutlet() {
	outlet := s.createOutlet()
	other, err := NewOutletStore(s.db).GetOrCreate(s.ctx, domain.Outlet{
		Name:    "Engadget",
		Slug:    "engadget",
		Website: "https://www.engadget.com",
	})
	s.Require().NoError(err)

	store := NewAuthorStore(s.db)

	first, err := store.GetOrCreate(s.ctx, outlet.ID, domain.AuthorRecord{
		Name:    "Jane Writer",
		Twitter: "https://twitter.com/janewriter",
	})
	s.NoError(err)

	// Same name, same outlet: reused, first write wins.
	again, err := store.GetOrCreate(s.ctx, outlet.ID, domain.AuthorRecord{Name: "Jane Writer"})
	s.NoError(err)
	s.Equal(first.ID, again.ID)
	s.Equal("https://twitter.com/janewriter", again.Twitter)

	// Same name, different outlet: separate identity.
	elsewhere, err := store.GetOrCreate(s.ctx, other.ID, domain.AuthorRecord{Name: "Jane Writer"})
	s.NoError(err)
	s.NotEqual(first.ID, elsewhere.ID)

	exists, err := store.Exists(s.ctx, "Jane Writer", outlet.ID)
	s.NoError(err)
	s.True(exists)

	exists, err = store.Exists(s.ctx, "Nobody", outlet.ID)
	s.NoError(err)
	s.False(exists)
}

func (s *PostgresIntegrationSuite) TestCategoryStore_SlugCollapse() {
	store := NewCategoryStore(s.db)

	first, err := store.GetOrCreate(s.ctx, "It", "it")
	s.NoError(err)

	second, err := store.GetOrCreate(s.ctx, "IT", "it")
	s.NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal("It", second.Name)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM categories")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestArticleStore_AttachRelations() {
	outlet := s.createOutlet()
	articles := NewArticleStore(s.db)
	authors := NewAuthorStore(s.db)
	categories := NewCategoryStore(s.db)

	article, created, err := articles.GetOrCreate(s.ctx, domain.Article{
		Title:    "Linked",
		Date:     time.Now(),
		URL:      "https://techcrunch.com/linked/",
		Content:  "body",
		OutletID: outlet.ID,
	})
	s.Require().NoError(err)
	s.Require().True(created)

	author, err := authors.GetOrCreate(s.ctx, outlet.ID, domain.AuthorRecord{Name: "Jane Writer"})
	s.Require().NoError(err)
	category, err := categories.GetOrCreate(s.ctx, "Startups", "startups")
	s.Require().NoError(err)

	s.NoError(articles.AttachAuthors(s.ctx, article.ID, []int64{author.ID}))
	s.NoError(articles.AttachCategories(s.ctx, article.ID, []int64{category.ID}))

	// Re-attaching the same pair is a no-op.
	s.NoError(articles.AttachAuthors(s.ctx, article.ID, []int64{author.ID}))

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM article_authors WHERE article_id = $1", article.ID)
	s.NoError(err)
	s.Equal(1, count)

	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM article_categories WHERE article_id = $1", article.ID)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransactionManager_RollsBack() {
	outlet := s.createOutlet()
	tm := NewTransactionManager(s.db)
	articles := NewArticleStore(s.db)

	err := tm.WithTransaction(s.ctx, func(txCtx context.Context) error {
		_, _, err := articles.GetOrCreate(txCtx, domain.Article{
			Title:    "Doomed",
			Date:     time.Now(),
			URL:      "https://techcrunch.com/doomed/",
			Content:  "body",
			OutletID: outlet.ID,
		})
		s.Require().NoError(err)
		return context.Canceled
	})
	s.Error(err)

	exists, err := articles.ExistsByURL(s.ctx, "https://techcrunch.com/doomed/")
	s.NoError(err)
	s.False(exists)
}
