// Package source holds the contract shared by the outlet adapters. Each
// subpackage implements one outlet end to end: feed download, entry
// iteration, article extraction and author resolution.
package source

import "context"

// Checker exposes the existence probes adapters run while iterating a
// feed. Probing the article URL before any secondary page fetch is the
// load-bearing optimization: author profile fetches are expensive and must
// not run for already-ingested articles.
type Checker interface {
	ArticleExists(ctx context.Context, url string) (bool, error)
	AuthorExists(ctx context.Context, name string, outletID int64) (bool, error)
}
