package scrape

import (
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
     xmlns:dc="http://purl.org/dc/elements/1.1/"
     xmlns:media="http://search.yahoo.com/mrss/"
     xmlns:feedburner="http://rssnamespace.org/feedburner/ext/1.0">
  <channel>
    <item>
      <title>That time I got locked out of my Google account for a month</title>
      <category>Cloud</category>
      <category>Drama</category>
      <category>Security</category>
      <dc:creator>Ron Miller</dc:creator>
      <feedburner:origLink>https://techcrunch.com/2017/12/22/locked-out/</feedburner:origLink>
      <media:thumbnail url="https://cdn.example.com/a.jpg?w=210"/>
      <media:thumbnail url="https://cdn.example.com/a.jpg"/>
    </item>
  </channel>
</rss>`

func parseFeed(t *testing.T) *xmlquery.Node {
	t.Helper()
	doc, err := xmlquery.Parse(strings.NewReader(feedXML))
	require.NoError(t, err)
	items, err := xmlquery.QueryAll(doc, "//item")
	require.NoError(t, err)
	require.Len(t, items, 1)
	return items[0]
}

func TestXMLExtractor_SingleMatchCollapses(t *testing.T) {
	item := parseFeed(t)
	ex := NewXMLExtractor(nil)

	title := ex.Text(item, "title")
	assert.True(t, title.Scalar())
	assert.Equal(t, "That time I got locked out of my Google account for a month", title.String())
}

func TestXMLExtractor_MultipleMatchesStayList(t *testing.T) {
	item := parseFeed(t)
	ex := NewXMLExtractor(nil)

	cats := ex.Text(item, "category")
	assert.False(t, cats.Scalar())
	assert.Equal(t, []string{"Cloud", "Drama", "Security"}, cats.List())
}

func TestXMLExtractor_ZeroMatchesIsEmpty(t *testing.T) {
	item := parseFeed(t)
	ex := NewXMLExtractor(nil)

	missing := ex.Text(item, "nonexistent")
	assert.True(t, missing.Empty())
	assert.False(t, missing.Scalar())
	assert.Empty(t, missing.List())
	assert.Equal(t, "", missing.String())
}

func TestXMLExtractor_NamespacedTextAndAttr(t *testing.T) {
	item := parseFeed(t)
	ex := NewXMLExtractor(nil)

	creator := ex.Text(item, "dc:creator")
	assert.True(t, creator.Scalar())
	assert.Equal(t, "Ron Miller", creator.String())

	orig := ex.Text(item, "feedburner:origLink")
	assert.Equal(t, "https://techcrunch.com/2017/12/22/locked-out/", orig.String())

	thumbs := ex.Attr(item, "media:thumbnail", "url")
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg?w=210",
		"https://cdn.example.com/a.jpg",
	}, thumbs.List())
}

func TestXMLExtractor_NamespaceOverride(t *testing.T) {
	const httpsDC = `<?xml version="1.0"?>
<rss xmlns:dc="https://purl.org/dc/elements/1.1/">
  <item><dc:creator>Jon Fingas</dc:creator></item>
</rss>`

	doc, err := xmlquery.Parse(strings.NewReader(httpsDC))
	require.NoError(t, err)
	items, err := xmlquery.QueryAll(doc, "//item")
	require.NoError(t, err)

	// The default table binds dc to the http URI, so it misses here.
	assert.True(t, NewXMLExtractor(nil).Text(items[0], "dc:creator").Empty())

	ex := NewXMLExtractor(map[string]string{"dc": "https://purl.org/dc/elements/1.1/"})
	creator := ex.Text(items[0], "dc:creator")
	assert.Equal(t, "Jon Fingas", creator.String())
}

func TestHTMLExtract(t *testing.T) {
	const page = `<html><head>
	  <meta property="og:url" content="https://mashable.com/2017/12/22/thing/"/>
	</head><body>
	  <div class="profile-networks">
	    <a href="http://twitter.com/someone">t</a>
	    <a href="https://www.linkedin.com/in/someone">l</a>
	  </div>
	</body></html>`

	doc, err := htmlquery.Parse(strings.NewReader(page))
	require.NoError(t, err)

	url := HTMLAttr(doc, `meta[@property='og:url']`, "content")
	assert.True(t, url.Scalar())
	assert.Equal(t, "https://mashable.com/2017/12/22/thing/", url.String())

	hrefs := HTMLAttr(doc, `div[@class='profile-networks']/a`, "href")
	assert.Equal(t, []string{
		"http://twitter.com/someone",
		"https://www.linkedin.com/in/someone",
	}, hrefs.List())

	assert.True(t, HTMLText(doc, `span[@class='missing']`).Empty())
}
