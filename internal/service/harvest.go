package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"news_harvester/internal/domain"
	"news_harvester/internal/scrape"
)

// HarvestService runs one outlet's harvest end to end: fetch normalized
// records from the adapter, validate each, persist through get-or-create
// and publish the ones that are actually new.
type HarvestService struct {
	source     Source
	outlets    OutletStore
	authors    AuthorStore
	categories CategoryStore
	articles   ArticleStore
	txManager  TransactionManager
	publisher  Publisher
	logger     *slog.Logger
}

func NewHarvestService(
	source Source,
	outlets OutletStore,
	authors AuthorStore,
	categories CategoryStore,
	articles ArticleStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *HarvestService {
	return &HarvestService{
		source:     source,
		outlets:    outlets,
		authors:    authors,
		categories: categories,
		articles:   articles,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger.With("outlet", source.Outlet().Slug),
	}
}

func (s *HarvestService) Harvest(ctx context.Context) (*domain.HarvestStats, error) {
	startTime := time.Now()

	seed := s.source.Outlet()
	stats := &domain.HarvestStats{Outlet: seed.Slug}

	outlet, err := s.outlets.GetOrCreate(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("resolve outlet: %w", err)
	}

	if !outlet.Active {
		s.logger.Info("outlet inactive, run skipped")
		return stats, nil
	}

	s.logger.Info("starting harvest", "feed_outlet", outlet.Name)

	records, err := s.source.FetchArticles(ctx, outlet)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	stats.Fetched = len(records)

	for i := range records {
		rec := &records[i]

		if err := scrape.CheckRecord(*rec); err != nil {
			// A malformed record fails the remaining batch, not just
			// this entry.
			stats.Errors++
			return stats, fmt.Errorf("validate %s: %w", rec.URL, err)
		}

		article, created, err := s.persist(ctx, outlet, *rec)
		if err != nil {
			s.logger.Error("persist failed", "url", rec.URL, "error", err)
			stats.Errors++
			continue
		}
		if !created {
			stats.Skipped++
			continue
		}
		stats.New++

		if s.publisher != nil {
			if err := s.publisher.Publish(ctx, outlet, &article); err != nil {
				s.logger.Warn("publish failed", "url", article.URL, "error", err)
				stats.Errors++
			} else {
				stats.Published++
			}
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("harvest completed",
		"fetched", stats.Fetched,
		"new", stats.New,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// persist writes one record atomically. Every step is get-or-create:
// existing rows are reused untouched, and relations are attached only when
// the article row itself was just created.
func (s *HarvestService) persist(ctx context.Context, outlet domain.Outlet, rec domain.ArticleRecord) (domain.Article, bool, error) {
	var (
		article domain.Article
		created bool
	)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		authorIDs := make([]int64, 0, len(rec.Authors))
		for _, a := range rec.Authors {
			author, err := s.authors.GetOrCreate(txCtx, outlet.ID, a)
			if err != nil {
				return fmt.Errorf("author %q: %w", a.Name, err)
			}
			authorIDs = append(authorIDs, author.ID)
		}

		var categoryIDs []int64
		seen := map[string]bool{}
		for _, name := range rec.Categories {
			slug := scrape.Slugify(name)
			if slug == "" || seen[slug] {
				// Names that collapse to the same slug are one category.
				continue
			}
			seen[slug] = true

			category, err := s.categories.GetOrCreate(txCtx, scrape.Title(name), slug)
			if err != nil {
				return fmt.Errorf("category %q: %w", name, err)
			}
			categoryIDs = append(categoryIDs, category.ID)
		}

		var err error
		article, created, err = s.articles.GetOrCreate(txCtx, domain.Article{
			Title:    rec.Title,
			Date:     rec.Date,
			URL:      rec.URL,
			Thumb:    rec.Thumb,
			Content:  rec.Content,
			OutletID: outlet.ID,
		})
		if err != nil {
			return fmt.Errorf("article: %w", err)
		}

		if !created {
			return nil
		}

		if err := s.articles.AttachAuthors(txCtx, article.ID, authorIDs); err != nil {
			return fmt.Errorf("attach authors: %w", err)
		}
		if err := s.articles.AttachCategories(txCtx, article.ID, categoryIDs); err != nil {
			return fmt.Errorf("attach categories: %w", err)
		}
		return nil
	})

	return article, created, err
}
