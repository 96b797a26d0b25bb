package catalog

import (
	"context"
	"errors"
	"fmt"

	"ytmusicbot/internal/logger"
)

// Chain tries multiple searchers in order, returning results from
// the first one that succeeds with non-empty results.
type Chain struct {
	searchers []Searcher
	logger    *logger.Logger
}

// NewChain creates a Chain that queries searchers in order.
func NewChain(searchers []Searcher, log *logger.Logger) *Chain {
	return &Chain{searchers: searchers, logger: log}
}

func (c *Chain) Name() string { return "chain" }

// Search returns the first non-empty result set. If every searcher failed the
// joined error is returned; if they merely found nothing, (nil, nil).
func (c *Chain) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	var errs []error
	for _, s := range c.searchers {
		results, err := s.Search(ctx, query, limit)
		if err != nil {
			c.logger.Debug("searcher %s failed: %v", s.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
		c.logger.Debug("searcher %s found nothing for %q", s.Name(), query)
	}

	if len(errs) > 0 && len(errs) == len(c.searchers) {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
