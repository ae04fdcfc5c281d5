package domain

import "time"

// Domain contains core models and interfaces.

// Source attributes an article to its publisher.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Article is a single news item. URL is its identity: two articles with the
// same URL are the same item regardless of differing text.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Source      Source    `json:"source"`
}

// Text is the title and description joined, the surface keyword rules match against.
func (a Article) Text() string {
	return a.Title + " " + a.Description
}
