package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"news_harvester/internal/domain"
)

func TestClassifyLinks(t *testing.T) {
	links := []string{
		"http://www.facebook.com/matthew.panzarino",
		"http://twitter.com/Panzer",
		"https://www.linkedin.com/in/matthewpanzarino",
		"/author/matthew-panzarino/feed/",
		"http://th.linkedin.com/in/jmarussell",
	}

	assert.Equal(t, []SocialLink{
		{Kind: LinkFacebook, URL: "http://www.facebook.com/matthew.panzarino"},
		{Kind: LinkTwitter, URL: "http://twitter.com/Panzer"},
		{Kind: LinkLinkedin, URL: "https://www.linkedin.com/in/matthewpanzarino"},
		{Kind: LinkLinkedin, URL: "http://th.linkedin.com/in/jmarussell"},
	}, ClassifyLinks(links))
}

func TestClassifyLinks_UnknownHostIsWebsite(t *testing.T) {
	got := ClassifyLinks([]string{
		"http://twitter.com/a",
		"http://linkedin.com/b",
		"/rel/c",
		"http://x.com/d",
	})

	assert.Equal(t, []SocialLink{
		{Kind: LinkTwitter, URL: "http://twitter.com/a"},
		{Kind: LinkLinkedin, URL: "http://linkedin.com/b"},
		{Kind: LinkWebsite, URL: "http://x.com/d"},
	}, got)
}

func TestClassifyLinks_Empty(t *testing.T) {
	assert.Empty(t, ClassifyLinks(nil))
	assert.Empty(t, ClassifyLinks([]string{"/relative/only"}))
}

func TestSetAuthorLinks(t *testing.T) {
	var author domain.AuthorRecord
	SetAuthorLinks(&author, ClassifyLinks([]string{
		"http://twitter.com/a",
		"https://facebook.com/b",
		"http://example.com/blog",
	}))

	assert.Equal(t, "http://twitter.com/a", author.Twitter)
	assert.Equal(t, "https://facebook.com/b", author.Facebook)
	assert.Equal(t, "http://example.com/blog", author.Website)
	assert.Empty(t, author.Linkedin)
}
