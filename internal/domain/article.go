package domain

import "time"

// Outlet is a news source the harvester knows how to scrape. Outlets are
// never hard-deleted; Delete flips Active so article history stays intact.
type Outlet struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Website     string    `db:"website"`
	Description string    `db:"description"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Author identity is scoped to (Name, OutletID): the same person writing for
// two outlets is two rows.
type Author struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	OutletID  *int64    `db:"outlet_id"`
	Profile   string    `db:"profile"`
	Twitter   string    `db:"twitter"`
	Linkedin  string    `db:"linkedin"`
	Facebook  string    `db:"facebook"`
	Website   string    `db:"website"`
	Avatar    string    `db:"avatar"`
	About     string    `db:"about"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Article is keyed by URL; the URL stored here always has its query string
// stripped so re-encounters dedup correctly.
type Article struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Date      time.Time `db:"date"`
	URL       string    `db:"url"`
	Thumb     string    `db:"thumb"`
	Content   string    `db:"content"`
	OutletID  int64     `db:"outlet_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
