package postgres

import "context"

// Checker bundles the existence probes the outlet adapters need for their
// skip-before-fetch optimization.
type Checker struct {
	articles *ArticleStore
	authors  *AuthorStore
}

func NewChecker(articles *ArticleStore, authors *AuthorStore) *Checker {
	return &Checker{articles: articles, authors: authors}
}

func (c *Checker) ArticleExists(ctx context.Context, url string) (bool, error) {
	return c.articles.ExistsByURL(ctx, url)
}

func (c *Checker) AuthorExists(ctx context.Context, name string, outletID int64) (bool, error) {
	return c.authors.Exists(ctx, name, outletID)
}
