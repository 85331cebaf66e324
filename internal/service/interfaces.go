package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_harvester/internal/domain"
)

// Source is one outlet adapter. Outlet returns the seed row the adapter
// harvests for; FetchArticles runs the whole feed pass and emits
// normalized records without persisting anything itself.
type Source interface {
	Outlet() domain.Outlet
	FetchArticles(ctx context.Context, outlet domain.Outlet) ([]domain.ArticleRecord, error)
}

type OutletStore interface {
	GetOrCreate(ctx context.Context, outlet domain.Outlet) (domain.Outlet, error)
}

type AuthorStore interface {
	GetOrCreate(ctx context.Context, outletID int64, rec domain.AuthorRecord) (domain.Author, error)
}

type CategoryStore interface {
	GetOrCreate(ctx context.Context, name, slug string) (domain.Category, error)
}

type ArticleStore interface {
	GetOrCreate(ctx context.Context, article domain.Article) (domain.Article, bool, error)
	AttachAuthors(ctx context.Context, articleID int64, authorIDs []int64) error
	AttachCategories(ctx context.Context, articleID int64, categoryIDs []int64) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, outlet domain.Outlet, article *domain.Article) error
	Close() error
}
