// Package newsmap defines the core domain types shared by the game,
// the headline cache and the location directory.
// It has zero external dependencies — everything here is pure Go.
package newsmap

import "time"

type Location struct {
	ID       string  `json:"location_id"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Timezone string  `json:"timezone"`
}

// Headline is a single news item attributed to a city. Published is kept
// as the upstream string; providers disagree on the format.
type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishedAt string    `json:"published_at"`
	URL         string    `json:"url"`
	CachedAt    time.Time `json:"cached_at"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
