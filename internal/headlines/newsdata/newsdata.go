// Package newsdata fetches headlines from the newsdata.io "latest" API.
package newsdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/playperu/newsmap/internal/httpclient"
	"github.com/playperu/newsmap/internal/newsmap"
)

const DefaultURL = "https://newsdata.io/api/1/latest"

type Provider struct {
	baseURL string
	apiKey  string
	fetcher *httpclient.Fetcher
	now     func() time.Time
}

func New(fetcher *httpclient.Fetcher, baseURL, apiKey string) *Provider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		fetcher: fetcher,
		now:     time.Now,
	}
}

func (p *Provider) Name() string { return "newsdata" }

type response struct {
	Status  string    `json:"status"`
	Results []article `json:"results"`
}

type article struct {
	Title    string `json:"title"`
	SourceID string `json:"source_id"`
	PubDate  string `json:"pubDate"`
	Link     string `json:"link"`
}

// Fetch queries by city name in English. Without an API key it returns
// nothing so the next provider is tried.
func (p *Provider) Fetch(ctx context.Context, city, _ string) ([]newsmap.Headline, error) {
	if p.apiKey == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("apikey", p.apiKey)
	q.Set("language", "en")

	body, err := p.fetcher.Get(ctx, p.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("newsdata: %w", err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("newsdata: decoding response: %w", err)
	}

	now := p.now()
	out := make([]newsmap.Headline, 0, len(resp.Results))
	for _, a := range resp.Results {
		out = append(out, newsmap.Headline{
			Title:       orDefault(a.Title, "No title"),
			Source:      orDefault(a.SourceID, "Unknown"),
			PublishedAt: a.PubDate,
			URL:         a.Link,
			CachedAt:    now,
		})
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
