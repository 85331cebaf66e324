// Package cheesecakelabs scrapes blog articles discovered through the
// outlet's activity-stream feed. Article pages themselves carry all the
// data, including the author vcard blocks, so there are no secondary
// author-page fetches here.
package cheesecakelabs

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"news_harvester/internal/domain"
	"news_harvester/internal/scrape"
	"news_harvester/internal/source"
)

const (
	outletName = "CheesecakeLabs"
	outletSlug = "cheesecake-labs"
)

// noteURLExpr mines blog links out of plain note posts.
var noteURLExpr = regexp.MustCompile(`cheesecakelabs\.com[^"]+`)

type Config struct {
	FeedURL   string // activity-stream endpoint
	Timeout   time.Duration
	UserAgent string
}

type Source struct {
	client  *scrape.Client
	checker source.Checker
	feedURL string
	logger  *slog.Logger
}

func New(cfg Config, checker source.Checker, logger *slog.Logger) *Source {
	return &Source{
		client:  scrape.NewClient(cfg.Timeout, cfg.UserAgent),
		checker: checker,
		feedURL: cfg.FeedURL,
		logger:  logger.With("outlet", outletSlug),
	}
}

func (s *Source) Outlet() domain.Outlet {
	return domain.Outlet{
		Name:        outletName,
		Slug:        outletSlug,
		Website:     "https://cheesecakelabs.com",
		Description: "Engineering and design articles from the Cheesecake Labs blog.",
	}
}

func (s *Source) FetchArticles(ctx context.Context, outlet domain.Outlet) ([]domain.ArticleRecord, error) {
	var feed activityFeed
	if err := s.client.JSON(ctx, s.feedURL, &feed); err != nil {
		return nil, fmt.Errorf("download activity feed: %w: %w", domain.ErrFeedUnavailable, err)
	}

	var records []domain.ArticleRecord
	for _, item := range feed.Items {
		url := discoverURL(item)
		if url == "" {
			continue
		}

		exists, err := s.checker.ArticleExists(ctx, url)
		if err != nil {
			s.logger.Warn("dedup check failed", "url", url, "error", err)
			continue
		}
		if exists {
			continue
		}

		rec, ok := s.extractArticle(ctx, url, item.Published)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// discoverURL finds the article link in an activity item: article-type
// attachments carry it directly, plain notes need the link mined out of
// their content.
func discoverURL(item activityItem) string {
	if item.Published == "" || item.Object == nil {
		return ""
	}

	if len(item.Object.Attachments) == 0 {
		if item.Object.ObjectType != "note" {
			return ""
		}
		match := noteURLExpr.FindString(item.Object.Content)
		if match == "" {
			return ""
		}
		return "http://" + match
	}

	for _, attach := range item.Object.Attachments {
		if attach.ObjectType == "article" && attach.URL != "" {
			return scrape.RemoveQuery(attach.URL)
		}
	}
	return ""
}

func (s *Source) extractArticle(ctx context.Context, url, published string) (domain.ArticleRecord, bool) {
	page, err := s.client.HTML(ctx, url)
	if err != nil {
		s.logger.Debug("article page unavailable", "url", url, "error", err)
		return domain.ArticleRecord{}, false
	}

	var rec domain.ArticleRecord
	rec.URL = url

	// A missing title node means the link led somewhere else entirely
	// (a video page, say); drop the entry.
	rec.Title = scrape.HTMLText(page, `h1[@class='entry__title']`).String()
	if rec.Title == "" {
		return rec, false
	}

	rec.Categories = scrape.HTMLText(page, `div[@class='post-categories']/a`).List()

	if thumb := scrape.HTMLAttr(page, `img[@class='cover-media']`, "src"); !thumb.Empty() {
		rec.Thumb = thumb.String()
	}

	datetime := scrape.HTMLAttr(page, `time`, "datetime").String()
	if datetime == "" {
		datetime = published
	}
	date, err := dateparse.ParseAny(datetime)
	if err != nil {
		s.logger.Debug("entry dropped, unparseable date", "url", url, "datetime", datetime)
		return rec, false
	}
	rec.Date = date

	// Content keeps its markup: the blog's body formatting matters.
	if content, _ := htmlquery.Query(page, `//div[@class='entry__content ']`); content != nil {
		rec.Content = strings.TrimSpace(scrape.HTMLString(content))
	}

	rec.Authors = s.extractAuthors(page)

	return rec, true
}

func (s *Source) extractAuthors(page *html.Node) []domain.AuthorRecord {
	about := scrape.HTMLText(page, `div[@class='author-description']/p[2]`).String()

	vcards, _ := htmlquery.QueryAll(page, `//span[@class='author vcard']`)

	var authors []domain.AuthorRecord
	for _, vcard := range vcards {
		authors = append(authors, domain.AuthorRecord{
			Name:    scrape.HTMLAttr(vcard, `img`, "alt").String(),
			Profile: scrape.HTMLAttr(vcard, `a`, "href").String(),
			Avatar:  scrape.HTMLAttr(vcard, `img`, "src").String(),
			About:   scrape.CleanText(about),
		})
	}
	return authors
}
