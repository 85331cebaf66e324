package scrape

import (
	"encoding/json"
	"fmt"

	"news_harvester/internal/domain"
)

// Field schemas for the normalized record contract. Validation is purely
// structural: it checks key sets and presence, never URL shape or date
// plausibility.
var (
	articleRequired = []string{"title", "url", "date", "content", "authors"}
	articleAccepted = keySet("title", "url", "date", "content", "authors",
		"categories", "thumb")

	authorRequired = []string{"name"}
	authorAccepted = keySet("name", "twitter", "avatar", "facebook",
		"linkedin", "about", "profile", "website")
)

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// CheckRecord validates an adapter-built record against the field schemas.
// The record is checked through its JSON key set, so optional fields left
// empty simply vanish instead of tripping the accepted-set check.
func CheckRecord(rec domain.ArticleRecord) error {
	if rec.Date.IsZero() {
		return &domain.IntegrityError{Kind: domain.MissingRequiredField, Scope: "article", Field: "date"}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	return CheckFields(fields)
}

// CheckFields validates the decoded JSON form of a record. Unknown keys at
// either level are rejected with UnacceptableField; absent or empty required
// keys, and an empty authors list, are rejected with MissingRequiredField.
func CheckFields(fields map[string]any) error {
	for key := range fields {
		if !articleAccepted[key] {
			return &domain.IntegrityError{Kind: domain.UnacceptableField, Scope: "article", Field: key}
		}
	}
	for _, key := range articleRequired {
		if empty(fields[key]) {
			return &domain.IntegrityError{Kind: domain.MissingRequiredField, Scope: "article", Field: key}
		}
	}

	authors, ok := fields["authors"].([]any)
	if !ok || len(authors) == 0 {
		return &domain.IntegrityError{Kind: domain.MissingRequiredField, Scope: "article", Field: "authors"}
	}

	for _, a := range authors {
		author, ok := a.(map[string]any)
		if !ok {
			return &domain.IntegrityError{Kind: domain.MissingRequiredField, Scope: "author", Field: "name"}
		}
		for key := range author {
			if !authorAccepted[key] {
				return &domain.IntegrityError{Kind: domain.UnacceptableField, Scope: "author", Field: key}
			}
		}
		for _, key := range authorRequired {
			if empty(author[key]) {
				return &domain.IntegrityError{Kind: domain.MissingRequiredField, Scope: "author", Field: key}
			}
		}
	}
	return nil
}

func empty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	}
	return false
}
