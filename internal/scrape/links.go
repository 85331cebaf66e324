package scrape

import (
	"strings"

	"news_harvester/internal/domain"
)

const (
	LinkTwitter  = "twitter"
	LinkLinkedin = "linkedin"
	LinkFacebook = "facebook"
	LinkWebsite  = "website"
)

type SocialLink struct {
	Kind string
	URL  string
}

// ClassifyLinks buckets profile-page links into known social networks.
// Relative URLs (anything without "http") are dropped; everything that is
// not a known network falls through to "website". Output preserves the
// input order of the surviving entries.
func ClassifyLinks(links []string) []SocialLink {
	var results []SocialLink

	for _, link := range links {
		switch {
		case !strings.Contains(link, "http"):
			continue
		case strings.Contains(link, "twitter.com"):
			results = append(results, SocialLink{Kind: LinkTwitter, URL: link})
		case strings.Contains(link, "linkedin.com"):
			results = append(results, SocialLink{Kind: LinkLinkedin, URL: link})
		case strings.Contains(link, "facebook.com"):
			results = append(results, SocialLink{Kind: LinkFacebook, URL: link})
		default:
			results = append(results, SocialLink{Kind: LinkWebsite, URL: link})
		}
	}
	return results
}

// SetAuthorLinks copies classified links onto the author record. A later
// link of the same kind overwrites an earlier one, which matches how
// profile pages list a single link per network.
func SetAuthorLinks(author *domain.AuthorRecord, links []SocialLink) {
	for _, l := range links {
		switch l.Kind {
		case LinkTwitter:
			author.Twitter = l.URL
		case LinkLinkedin:
			author.Linkedin = l.URL
		case LinkFacebook:
			author.Facebook = l.URL
		case LinkWebsite:
			author.Website = l.URL
		}
	}
}
