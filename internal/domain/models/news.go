package models

import "time"

// NewsArticle is one article returned by the news provider.
// Sentiment is scored over Title only.
type NewsArticle struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
