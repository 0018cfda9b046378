package cache

import (
	"context"
	"time"

	"motoparts/backend/internal/domain"
)

// DocumentCache holds rendered documents so repeated reprints of the same
// invoice or report skip the render step. Entries are ephemeral; the
// invoice ledger stays the source of truth.
type DocumentCache interface {
	Get(ctx context.Context, key string) (*domain.DocumentRender, bool, error)
	Set(ctx context.Context, key string, value *domain.DocumentRender, ttl time.Duration) error
}

type NoopDocumentCache struct{}

func (NoopDocumentCache) Get(_ context.Context, _ string) (*domain.DocumentRender, bool, error) {
	return nil, false, nil
}

func (NoopDocumentCache) Set(_ context.Context, _ string, _ *domain.DocumentRender, _ time.Duration) error {
	return nil
}
