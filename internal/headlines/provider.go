package headlines

import (
	"context"
	"log/slog"

	"github.com/playperu/newsmap/internal/newsmap"
)

// Provider fetches headlines for a city from one upstream source. An empty
// result and an error are both treated as a miss by the cache.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city, country string) ([]newsmap.Headline, error)
}

// Chain tries providers in order and returns the first non-empty result.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Len reports how many providers the chain tries.
func (c *Chain) Len() int { return len(c.providers) }

// Fetch returns the headlines of the first provider that yields any, and
// that provider's name. It never returns an error: upstream failures are
// logged and the next provider is tried.
func (c *Chain) Fetch(ctx context.Context, city, country string) ([]newsmap.Headline, string) {
	for _, p := range c.providers {
		hs, err := p.Fetch(ctx, city, country)
		if err != nil {
			c.logger.Warn("headline provider failed",
				"provider", p.Name(),
				"city", city,
				"country", country,
				"error", err,
			)
			continue
		}
		if len(hs) > 0 {
			return hs, p.Name()
		}
		c.logger.Debug("headline provider returned nothing", "provider", p.Name(), "city", city)
	}
	return nil, ""
}
