package mashable

// post is one entry of the tech account's social timeline. The timeline
// substitutes for an RSS feed: each post carries the outbound links that
// lead to the article pages.
type post struct {
	CreatedAt string    `json:"created_at"`
	URLs      []postURL `json:"urls"`
}

type postURL struct {
	ExpandedURL string `json:"expanded_url"`
}
