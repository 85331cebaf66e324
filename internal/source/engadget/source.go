// Package engadget scrapes articles from the Engadget RSS feed. The feed
// declares the Dublin Core namespace over https, so the extractor runs
// with an override table. Thumbnails are dug out of the embedded <img> in
// each entry's description HTML.
package engadget

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"

	"news_harvester/internal/domain"
	"news_harvester/internal/scrape"
	"news_harvester/internal/source"
)

const (
	outletName = "Engadget"
	outletSlug = "engadget"

	defaultFeedURL = "http://www.engadget.com/rss.xml"
	defaultBaseURL = "http://www.engadget.com"

	thumbCDNPrefix = "https://s.aolcdn.com/hss/"
)

// thumbPathExpr matches the CDN storage path fragment inside an img src.
var thumbPathExpr = regexp.MustCompile(`storage[^(&|")]+`)

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
		// Engadget serves dc over https instead of the usual http URI.
		extract: scrape.NewXMLExtractor(map[string]string{
			"dc": "https://purl.org/dc/elements/1.1/",
		}),
		feedURL: cfg.FeedURL,
		baseURL: cfg.BaseURL,
		logger:  logger.With("outlet", outletSlug),
	}
}

func (s *Source) Outlet() domain.Outlet {
	return domain.Outlet{
		Name:        outletName,
		Slug:        outletSlug,
		Website:     "https://www.engadget.com",
		Description: "Consumer electronics and gadget news.",
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

	rec.URL = scrape.RemoveQuery(s.extract.Text(item, "link").String())
	if rec.URL == "" {
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

	pubDate := s.extract.Text(item, "pubDate").String()
	date, err := dateparse.ParseAny(pubDate)
	if err != nil {
		s.logger.Debug("entry dropped, unparseable date", "url", rec.URL, "pub_date", pubDate)
		return rec, false
	}
	rec.Date = date

	for i, name := range s.extract.Text(item, "dc:creator").List() {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		rec.Authors = append(rec.Authors, s.resolveAuthor(ctx, outlet, name, rec.URL, i))
	}

	desc := s.extract.Text(item, "description").String()
	rec.Content = scrape.CleanText(desc)
	rec.Thumb = extractThumb(desc)

	return rec, true
}

// extractThumb finds the first <img> in the description markup and rebuilds
// the CDN URL from its storage path fragment.
func extractThumb(desc string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return ""
	}

	src, ok := doc.Find("img").First().Attr("src")
	if !ok {
		return ""
	}

	path := thumbPathExpr.FindString(src)
	if path == "" {
		return ""
	}
	if unescaped, err := url.QueryUnescape(path); err == nil {
		path = unescaped
	}
	return thumbCDNPrefix + path
}

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

	page, err := s.client.HTML(ctx, s.profileURL(name))
	if err != nil {
		s.logger.Warn("author profile unavailable", "author", name, "error", err)
		return bare
	}

	author := s.extractAuthor(page)
	author.Name = name

	// The editor page often omits the twitter link; the article page's
	// twitter:creator meta is the second chance.
	if author.Twitter == "" {
		author.Twitter = s.twitterFromArticle(ctx, articleURL)
	}
	return author
}

func (s *Source) profileURL(name string) string {
	return s.baseURL + "/about/editors/" + scrape.Slugify(name)
}

func (s *Source) extractAuthor(page *html.Node) domain.AuthorRecord {
	var author domain.AuthorRecord

	for _, link := range scrape.HTMLAttr(page, `div/span/a`, "href").List() {
		if strings.Contains(link, "twitter.com") {
			author.Twitter = link
		}
	}

	aboutNodes, _ := htmlquery.QueryAll(page, `//div[@class='t-d3']`)
	author.About = scrape.CleanNodes(aboutNodes)

	if profile := scrape.HTMLAttr(page, `meta[@property='og:url']`, "content"); profile.Scalar() {
		author.Profile = profile.String()
	}

	if avatar := scrape.HTMLAttr(page, `meta[@name='twitter:image']`, "content"); !avatar.Empty() {
		// The content value may carry a resizer prefix; keep the final
		// https URL embedded in it.
		src := avatar.String()
		if i := strings.LastIndex(src, "https"); i >= 0 {
			author.Avatar = src[i:]
		}
	}

	return author
}

func (s *Source) twitterFromArticle(ctx context.Context, articleURL string) string {
	page, err := s.client.HTML(ctx, articleURL)
	if err != nil {
		return ""
	}

	handle := scrape.HTMLAttr(page, `meta[@name='twitter:creator']`, "content").String()
	if len(handle) > 1 && strings.HasPrefix(handle, "@") {
		return "https://twitter.com/" + handle[1:]
	}
	return ""
}
