// Package techcrunch scrapes articles from the TechCrunch RSS feed. The
// feed itself carries everything the article needs (feedburner:origLink,
// dc:creator, media:thumbnail); author details come from profile pages,
// with a one-shot fallback through the article page when the slugified
// profile URL guess turns out wrong.
package techcrunch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"news_harvester/internal/domain"
	"news_harvester/internal/scrape"
	"news_harvester/internal/source"
)

const (
	outletName = "TechCrunch"
	outletSlug = "techcrunch"

	defaultFeedURL = "http://feeds.feedburner.com/TechCrunch/"
	defaultBaseURL = "https://techcrunch.com"
)

// profileMode is the state of the author-profile lookup. The lookup starts
// Direct (slugified-name URL guess) and may transition to Fallback (URL
// re-derived from the article page) exactly once.
type profileMode int

const (
	profileDirect profileMode = iota
	profileFallback
)

type Config struct {
	FeedURL   string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Source struct {
	client  *scrape.Client
	checker source.Checker
	extract *scrape.XMLExtractor
	feedURL string
	baseURL string
	logger  *slog.Logger
}

func New(cfg Config, checker source.Checker, logger *slog.Logger) *Source {
	if cfg.FeedURL == "" {
		cfg.FeedURL = defaultFeedURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Source{
		client:  scrape.NewClient(cfg.Timeout, cfg.UserAgent),
		checker: checker,
		extract: scrape.NewXMLExtractor(nil),
		feedURL: cfg.FeedURL,
		baseURL: cfg.BaseURL,
		logger:  logger.With("outlet", outletSlug),
	}
}

func (s *Source) Outlet() domain.Outlet {
	return domain.Outlet{
		Name:        outletName,
		Slug:        outletSlug,
		Website:     "https://techcrunch.com",
		Description: "Startup and technology news.",
	}
}

func (s *Source) FetchArticles(ctx context.Context, outlet domain.Outlet) ([]domain.ArticleRecord, error) {
	feed, err := s.client.XML(ctx, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("download feed: %w: %w", domain.ErrFeedUnavailable, err)
	}

	items, err := xmlquery.QueryAll(feed, "//item")
	if err != nil {
		return nil, fmt.Errorf("walk feed: %w: %w", domain.ErrFeedUnavailable, err)
	}

	var records []domain.ArticleRecord
	for _, item := range items {
		rec, ok := s.extractArticle(ctx, outlet, item)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Source) extractArticle(ctx context.Context, outlet domain.Outlet, item *xmlquery.Node) (domain.ArticleRecord, bool) {
	var rec domain.ArticleRecord

	rec.Title = s.extract.Text(item, "title").String()
	rec.Categories = s.extract.Text(item, "category").List()

	rec.URL = scrape.RemoveQuery(s.extract.Text(item, "feedburner:origLink").String())
	if rec.URL == "" {
		return rec, false
	}

	exists, err := s.checker.ArticleExists(ctx, rec.URL)
	if err != nil {
		s.logger.Warn("dedup check failed", "url", rec.URL, "error", err)
		return rec, false
	}
	if exists {
		// Already ingested: skip before any author-page fetch runs.
		return rec, false
	}

	pubDate := s.extract.Text(item, "pubDate").String()
	date, err := dateparse.ParseAny(pubDate)
	if err != nil {
		s.logger.Debug("entry dropped, unparseable date", "url", rec.URL, "pub_date", pubDate)
		return rec, false
	}
	rec.Date = date

	// Multiple authors arrive comma-separated in a single dc:creator.
	for i, name := range strings.Split(s.extract.Text(item, "dc:creator").String(), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rec.Authors = append(rec.Authors, s.resolveAuthor(ctx, outlet, name, rec.URL, i))
	}

	thumb := s.extract.Attr(item, "media:thumbnail", "url")
	if !thumb.Empty() {
		rec.Thumb = scrape.RemoveQuery(thumb.String())
	}

	content := scrape.CleanText(s.extract.Text(item, "description").String())
	content = strings.ReplaceAll(content, "&nbsp;", "")
	content = strings.TrimSuffix(strings.TrimSpace(content), "Read More")
	rec.Content = strings.TrimSpace(content)

	return rec, true
}

// resolveAuthor returns the author record for a feed entry. A (name,
// outlet) pair that already has a row skips the profile fetch entirely and
// keeps the stored data.
func (s *Source) resolveAuthor(ctx context.Context, outlet domain.Outlet, name, articleURL string, idx int) domain.AuthorRecord {
	bare := domain.AuthorRecord{Name: name}

	exists, err := s.checker.AuthorExists(ctx, name, outlet.ID)
	if err != nil {
		s.logger.Warn("author lookup failed", "author", name, "error", err)
		return bare
	}
	if exists {
		return bare
	}

	author, err := s.scrapeAuthor(ctx, name, articleURL, s.profileURL(name), idx, profileDirect)
	if err != nil {
		s.logger.Warn("author profile unavailable", "author", name, "error", err)
		return bare
	}
	author.Name = name
	return author
}

func (s *Source) profileURL(name string) string {
	return s.baseURL + "/author/" + scrape.Slugify(name)
}

// scrapeAuthor extracts an author from a profile page. In the Direct state
// a page without a twitter link is taken as evidence the slugified URL
// guess hit the wrong page, and the lookup transitions to Fallback: the
// real profile URL is read off the article page and extraction retries
// exactly once. The mode guard is what stops a second transition.
func (s *Source) scrapeAuthor(ctx context.Context, name, articleURL, profileURL string, idx int, mode profileMode) (domain.AuthorRecord, error) {
	page, err := s.client.HTML(ctx, profileURL)
	if err != nil {
		return domain.AuthorRecord{}, err
	}

	author := s.extractAuthor(page)

	if author.Twitter == "" && mode == profileDirect {
		realProfile, twitter, err := s.profileFromArticle(ctx, articleURL, idx)
		if err != nil {
			s.logger.Debug("no author link on article page", "author", name, "error", err)
			return author, nil
		}

		fallback, err := s.scrapeAuthor(ctx, name, articleURL, realProfile, idx, profileFallback)
		if err != nil {
			return author, nil
		}
		if fallback.Twitter == "" {
			fallback.Twitter = twitter
		}
		if fallback.Profile == "" {
			fallback.Profile = realProfile
		}
		return fallback, nil
	}

	return author, nil
}

// profileFromArticle pulls the idx-th author's profile link and twitter
// handle off the article page itself.
func (s *Source) profileFromArticle(ctx context.Context, articleURL string, idx int) (string, string, error) {
	page, err := s.client.HTML(ctx, articleURL)
	if err != nil {
		return "", "", err
	}

	anchors, _ := htmlquery.QueryAll(page, `//a[@rel='author']`)
	if idx >= len(anchors) {
		return "", "", errors.New("no author relation on article page")
	}
	profile := s.baseURL + htmlquery.SelectAttr(anchors[idx], "href")

	var twitter string
	handles, _ := htmlquery.QueryAll(page, `//span[@class='twitter-handle']/a`)
	if idx < len(handles) {
		twitter = htmlquery.SelectAttr(handles[idx], "href")
	}

	return profile, twitter, nil
}

func (s *Source) extractAuthor(page *html.Node) domain.AuthorRecord {
	var author domain.AuthorRecord

	links := scrape.HTMLAttr(page, `div[@class='profile cf']/div/ul/li/a`, "href")
	scrape.SetAuthorLinks(&author, scrape.ClassifyLinks(links.List()))

	aboutNodes, _ := htmlquery.QueryAll(page, `//div[contains(@class, 'profile-text')]/p`)
	author.About = scrape.CleanNodes(aboutNodes)

	if website := scrape.HTMLAttr(page, `div[contains(@class, 'profile-text')]/a`, "href"); !website.Empty() {
		author.Website = website.String()
	}

	if avatar := scrape.HTMLAttr(page, `div[@class='profile cf']/div/img`, "src"); !avatar.Empty() {
		author.Avatar = avatar.String()
	}

	if profile := scrape.HTMLAttr(page, `meta[@property='og:url']`, "content"); profile.Scalar() {
		author.Profile = profile.String()
	}

	return author
}
