package domain

import "time"

// ArticleRecord is the normalized output of an outlet adapter and the input
// to validation and persistence. Its JSON form, with omitempty on every
// optional field, is the wire contract: the validator works on exactly that
// key set.
type ArticleRecord struct {
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	Date       time.Time      `json:"date"`
	Content    string         `json:"content"`
	Thumb      string         `json:"thumb,omitempty"`
	Categories []string       `json:"categories,omitempty"`
	Authors    []AuthorRecord `json:"authors"`
}

type AuthorRecord struct {
	Name     string `json:"name"`
	Twitter  string `json:"twitter,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Website  string `json:"website,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Profile  string `json:"profile,omitempty"`
	About    string `json:"about,omitempty"`
}

// HarvestStats summarizes one adapter run.
type HarvestStats struct {
	Outlet    string
	Fetched   int
	New       int
	Skipped   int
	Errors    int
	Published int
	Duration  time.Duration
}
