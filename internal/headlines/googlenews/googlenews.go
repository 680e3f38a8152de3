// Package googlenews fetches headlines from the Google News RSS search feed.
package googlenews

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/playperu/newsmap/internal/httpclient"
	"github.com/playperu/newsmap/internal/newsmap"
)

const DefaultURL = "https://news.google.com/rss/search"

type Provider struct {
	baseURL string
	fetcher *httpclient.Fetcher
	now     func() time.Time
}

func New(fetcher *httpclient.Fetcher, baseURL string) *Provider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Provider{baseURL: baseURL, fetcher: fetcher, now: time.Now}
}

func (p *Provider) Name() string { return "google_news" }

func (p *Provider) Fetch(ctx context.Context, city, country string) ([]newsmap.Headline, error) {
	q := url.Values{}
	q.Set("q", city+" "+country)
	q.Set("hl", "en")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")

	body, err := p.fetcher.Get(ctx, p.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("google news: %w", err)
	}

	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("google news: parsing feed: %w", err)
	}

	now := p.now()
	out := make([]newsmap.Headline, 0, len(feed.Items))
	for _, it := range feed.Items {
		source := "Google News"
		if it.Source != nil && it.Source.Title != "" {
			source = it.Source.Title
		}
		title := it.Title
		if title == "" {
			title = "No title"
		}
		out = append(out, newsmap.Headline{
			Title:       title,
			Source:      source,
			PublishedAt: it.PubDate,
			URL:         it.Link,
			CachedAt:    now,
		})
	}
	return out, nil
}
