// Package mashable scrapes articles discovered through the outlet's tech
// social timeline. Posts without an outbound mashable link are ignored;
// everything else is extracted from the article page's og: metadata, with
// the author's real profile link (when the page exposes one) taking
// precedence over the slugified-name guess.
package mashable

import (
	"context"
	"fmt"
	"log/slog"
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
	outletName = "Mashable"
	outletSlug = "mashable"

	defaultBaseURL = "http://mashable.com"
)

type Config struct {
	FeedURL   string // timeline endpoint
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Source struct {
	client  *scrape.Client
	checker source.Checker
	feedURL string
	baseURL string
	logger  *slog.Logger
}

func New(cfg Config, checker source.Checker, logger *slog.Logger) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Source{
		client:  scrape.NewClient(cfg.Timeout, cfg.UserAgent),
		checker: checker,
		feedURL: cfg.FeedURL,
		baseURL: cfg.BaseURL,
		logger:  logger.With("outlet", outletSlug),
	}
}

func (s *Source) Outlet() domain.Outlet {
	return domain.Outlet{
		Name:        outletName,
		Slug:        outletSlug,
		Website:     "https://mashable.com",
		Description: "Tech, digital culture and entertainment news.",
	}
}

func (s *Source) FetchArticles(ctx context.Context, outlet domain.Outlet) ([]domain.ArticleRecord, error) {
	var posts []post
	if err := s.client.JSON(ctx, s.feedURL, &posts); err != nil {
		return nil, fmt.Errorf("download timeline: %w: %w", domain.ErrFeedUnavailable, err)
	}

	var records []domain.ArticleRecord
	for _, p := range posts {
		link := articleLink(p)
		if link == "" {
			continue
		}

		rec, ok := s.extractArticle(ctx, outlet, link, p.CreatedAt)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// articleLink picks the post's outbound link leading to the outlet; other
// links point back at the timeline itself.
func articleLink(p post) string {
	for _, u := range p.URLs {
		if strings.Contains(u.ExpandedURL, "mash") {
			return u.ExpandedURL
		}
	}
	return ""
}

func (s *Source) extractArticle(ctx context.Context, outlet domain.Outlet, link, postedAt string) (domain.ArticleRecord, bool) {
	var rec domain.ArticleRecord

	// Probe the expanded link first: when it is already the canonical URL
	// this saves the page fetch. The og:url is checked again below because
	// the post link may be a shortened variant.
	if exists, err := s.checker.ArticleExists(ctx, scrape.RemoveQuery(link)); err == nil && exists {
		return rec, false
	}

	page, err := s.client.HTML(ctx, link)
	if err != nil {
		s.logger.Debug("article page unavailable", "url", link, "error", err)
		return rec, false
	}

	rec.Title = scrape.HTMLAttr(page, `meta[@property='og:title']`, "content").String()
	rec.URL = scrape.RemoveQuery(scrape.HTMLAttr(page, `meta[@property='og:url']`, "content").String())
	if rec.Title == "" || rec.URL == "" {
		return rec, false
	}

	exists, err := s.checker.ArticleExists(ctx, rec.URL)
	if err != nil {
		s.logger.Warn("dedup check failed", "url", rec.URL, "error", err)
		return rec, false
	}
	if exists {
		return rec, false
	}

	published := scrape.HTMLAttr(page, `meta[@property='og:article:published_time']`, "content").String()
	if published == "" {
		// No publish date on the page; the post's own timestamp stands in.
		published = postedAt
	}
	date, err := dateparse.ParseAny(published)
	if err != nil {
		s.logger.Debug("entry dropped, unparseable date", "url", rec.URL, "published", published)
		return rec, false
	}
	rec.Date = date

	if thumb := scrape.HTMLAttr(page, `meta[@property='og:image']`, "content"); !thumb.Empty() {
		rec.Thumb = thumb.String()
	}

	if keywords := scrape.HTMLAttr(page, `meta[@name='keywords']`, "content").String(); keywords != "" {
		for _, c := range strings.Split(keywords, ", ") {
			rec.Categories = append(rec.Categories, scrape.Title(c))
		}
	}

	name := scrape.HTMLAttr(page, `meta[@name='author']`, "content").String()
	if name != "" {
		rec.Authors = []domain.AuthorRecord{
			s.resolveAuthor(ctx, outlet, name, s.authorProfileURL(page, name)),
		}
	}

	contentNodes, _ := htmlquery.QueryAll(page, `//section[@class='article-content blueprint']/p`)
	rec.Content = scrape.CleanNodes(contentNodes)

	return rec, true
}

// authorProfileURL prefers the profile link exposed on the article page
// over the slugified-name guess. The override travels as a return value
// through the call chain; nothing is parked on the Source between entries.
func (s *Source) authorProfileURL(page *html.Node, name string) string {
	if href := scrape.HTMLAttr(page, `span[@class='author_name']/a`, "href").String(); href != "" {
		return s.baseURL + href
	}
	return s.baseURL + "/author/" + scrape.Slugify(name)
}

func (s *Source) resolveAuthor(ctx context.Context, outlet domain.Outlet, name, profileURL string) domain.AuthorRecord {
	bare := domain.AuthorRecord{Name: name}

	exists, err := s.checker.AuthorExists(ctx, name, outlet.ID)
	if err != nil {
		s.logger.Warn("author lookup failed", "author", name, "error", err)
		return bare
	}
	if exists {
		return bare
	}

	page, err := s.client.HTML(ctx, profileURL)
	if err != nil {
		s.logger.Warn("author profile unavailable", "author", name, "error", err)
		return bare
	}

	author := s.extractAuthor(page)
	author.Name = name
	return author
}

func (s *Source) extractAuthor(page *html.Node) domain.AuthorRecord {
	var author domain.AuthorRecord

	links := scrape.HTMLAttr(page, `div[@class='profile-networks']/a`, "href")
	scrape.SetAuthorLinks(&author, scrape.ClassifyLinks(links.List()))

	aboutNodes, _ := htmlquery.QueryAll(page, `//div[@class='profile-about']`)
	author.About = scrape.CleanNodes(aboutNodes)

	if profile := scrape.HTMLAttr(page, `figure/a`, "href"); !profile.Empty() {
		author.Profile = profile.String()
	}

	if avatar := scrape.HTMLAttr(page, `figure/a/img`, "src"); !avatar.Empty() {
		author.Avatar = avatar.String()
	}

	return author
}
