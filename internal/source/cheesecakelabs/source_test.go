package cheesecakelabs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	articles map[string]bool
}

func (f *fakeChecker) ArticleExists(ctx context.Context, url string) (bool, error) {
	return f.articles[url], nil
}

func (f *fakeChecker) AuthorExists(ctx context.Context, name string, outletID int64) (bool, error) {
	return false, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type harness struct {
	server *httptest.Server
	pages  map[string]string
	hits   map[string]int
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		pages: map[string]string{},
		hits:  map[string]int{},
	}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.hits[r.URL.Path]++
		page, ok := h.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(h.server.Close)
	return h
}

func (h *harness) source(checker *fakeChecker) *Source {
	return New(Config{
		FeedURL: h.server.URL + "/activity.json",
	}, checker, testLogger())
}

const articlePage = `<html><body>
<h1 class="entry__title">Scaling a Design System</h1>
<div class="post-categories"><a>Design</a><a>Engineering</a></div>
<img class="cover-media" src="https://cheesecakelabs.com/img/cover.png">
<time datetime="2026-08-29T15:00:00+00:00">Aug 29</time>
<div class="entry__content "><p>Intro paragraph.</p><h2>Details</h2><p>More text.</p></div>
<span class="author vcard">
  <a href="https://cheesecakelabs.com/blog/author/maria/"><img alt="Maria Dev" src="https://cheesecakelabs.com/img/maria.png"></a>
</span>
<div class="author-description">
  <p>Maria Dev</p>
  <p>Maria builds mobile apps.</p>
</div>
</body></html>`

func TestFetchArticles_ArticleAttachment(t *testing.T) {
	h := newHarness(t)
	h.pages["/activity.json"] = `{"items": [
  {"published": "2026-08-29T16:00:00Z",
   "object": {"objectType": "activity",
     "attachments": [
       {"objectType": "image", "url": "https://cheesecakelabs.com/img/x.png"},
       {"objectType": "article", "url": "` + h.server.URL + `/blog/design-system/?share=tw"}
     ]}}
]}`
	h.pages["/blog/design-system/"] = articlePage

	src := h.source(&fakeChecker{articles: map[string]bool{}})

	records, err := src.FetchArticles(context.Background(), src.Outlet())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Scaling a Design System", rec.Title)
	assert.Equal(t, h.server.URL+"/blog/design-system/", rec.URL)
	assert.Equal(t, []string{"Design", "Engineering"}, rec.Categories)
	assert.Equal(t, "https://cheesecakelabs.com/img/cover.png", rec.Thumb)
	assert.Equal(t, time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC), rec.Date.UTC())
	assert.Contains(t, rec.Content, "<p>Intro paragraph.</p>")
	assert.Contains(t, rec.Content, "<h2>Details</h2>")

	require.Len(t, rec.Authors, 1)
	author := rec.Authors[0]
	assert.Equal(t, "Maria Dev", author.Name)
	assert.Equal(t, "https://cheesecakelabs.com/blog/author/maria/", author.Profile)
	assert.Equal(t, "https://cheesecakelabs.com/img/maria.png", author.Avatar)
	assert.Equal(t, "Maria builds mobile apps.", author.About)
}

func TestFetchArticles_KnownURLSkippedBeforePageFetch(t *testing.T) {
	h := newHarness(t)
	h.pages["/activity.json"] = `{"items": [
  {"published": "2026-08-29T16:00:00Z",
   "object": {"objectType": "activity",
     "attachments": [{"objectType": "article", "url": "` + h.server.URL + `/blog/design-system/"}]}}
]}`

	checker := &fakeChecker{articles: map[string]bool{h.server.URL + "/blog/design-system/": true}}
	src := h.source(checker)

	records, err := src.FetchArticles(context.Background(), src.Outlet())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, h.hits["/blog/design-system/"])
}

func TestDiscoverURL(t *testing.T) {
	tests := []struct {
		name string
		item activityItem
		want string
	}{
		{
			name: "article attachment wins",
			item: activityItem{
				Published: "2026-08-29T16:00:00Z",
				Object: &activityObject{
					ObjectType: "activity",
					Attachments: []attachment{
						{ObjectType: "article", URL: "https://cheesecakelabs.com/blog/post/?ref=feed"},
					},
				},
			},
			want: "https://cheesecakelabs.com/blog/post/",
		},
		{
			name: "note content mined for link",
			item: activityItem{
				Published: "2026-08-29T16:00:00Z",
				Object: &activityObject{
					ObjectType: "note",
					Content:    `Check this out <a href="http://cheesecakelabs.com/blog/mined-post/">link</a>`,
				},
			},
			want: "http://cheesecakelabs.com/blog/mined-post/",
		},
		{
			name: "note without link",
			item: activityItem{
				Published: "2026-08-29T16:00:00Z",
				Object:    &activityObject{ObjectType: "note", Content: "nothing here"},
			},
			want: "",
		},
		{
			name: "non-note without attachments",
			item: activityItem{
				Published: "2026-08-29T16:00:00Z",
				Object:    &activityObject{ObjectType: "activity"},
			},
			want: "",
		},
		{
			name: "unpublished item",
			item: activityItem{Object: &activityObject{ObjectType: "note", Content: "x"}},
			want: "",
		},
		{
			name: "missing object",
			item: activityItem{Published: "2026-08-29T16:00:00Z"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, discoverURL(tt.item))
		})
	}
}

func TestFetchArticles_NonArticlePageDropped(t *testing.T) {
	h := newHarness(t)
	h.pages["/activity.json"] = `{"items": [
  {"published": "2026-08-29T16:00:00Z",
   "object": {"objectType": "activity",
     "attachments": [{"objectType": "article", "url": "` + h.server.URL + `/blog/video/"}]}}
]}`
	h.pages["/blog/video/"] = `<html><body><video src="clip.mp4"></video></body></html>`

	src := h.source(&fakeChecker{articles: map[string]bool{}})

	records, err := src.FetchArticles(context.Background(), src.Outlet())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchArticles_ItemTimestampStandsInForMissingDate(t *testing.T) {
	h := newHarness(t)
	h.pages["/activity.json"] = `{"items": [
  {"published": "2026-08-29T16:00:00Z",
   "object": {"objectType": "activity",
     "attachments": [{"objectType": "article", "url": "` + h.server.URL + `/blog/undated/"}]}}
]}`
	h.pages["/blog/undated/"] = `<html><body>
<h1 class="entry__title">Undated Post</h1>
<div class="entry__content "><p>Body.</p></div>
</body></html>`

	src := h.source(&fakeChecker{articles: map[string]bool{}})

	records, err := src.FetchArticles(context.Background(), src.Outlet())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2026, 8, 29, 16, 0, 0, 0, time.UTC), records[0].Date.UTC())
}
