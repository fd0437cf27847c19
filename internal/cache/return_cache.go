package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/returns-service/internal/repository"
)

type ReturnRepository interface {
	GetAllActive(ctx context.Context) ([]*repository.ReturnRequest, error)
}

// ReturnCache keeps the in-flight return requests (pending approval or
// with a refund in progress) in memory. Terminal requests are evicted on
// transition.
type ReturnCache struct {
	mu    sync.RWMutex
	cache map[uuid.UUID]*repository.ReturnRequest
	repo  ReturnRepository
}

func NewReturnCache(repo ReturnRepository) *ReturnCache {
	return &ReturnCache{
		cache: make(map[uuid.UUID]*repository.ReturnRequest),
		repo:  repo,
	}
}

func (c *ReturnCache) LoadInitialData(ctx context.Context) error {
	reqs, err := c.repo.GetAllActive(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, req := range reqs {
		reqCopy := *req
		c.cache[req.ID] = &reqCopy
	}
	metrics.ReturnCacheItems.Set(float64(len(c.cache)))
	zap.L().Info("loaded active return requests into cache", zap.Int("count", len(c.cache)))
	return nil
}

func (c *ReturnCache) Get(id uuid.UUID) (*repository.ReturnRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	req, found := c.cache[id]
	if !found {
		return nil, false
	}
	reqCopy := *req
	return &reqCopy, true
}

func (c *ReturnCache) Set(req *repository.ReturnRequest) {
	if !isActive(req) {
		c.Delete(req.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	reqCopy := *req
	c.cache[req.ID] = &reqCopy
	metrics.ReturnCacheItems.Set(float64(len(c.cache)))
}

func (c *ReturnCache) Delete(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[id]; found {
		delete(c.cache, id)
		metrics.ReturnCacheItems.Set(float64(len(c.cache)))
	}
}

func isActive(req *repository.ReturnRequest) bool {
	return req.Status == "Pending" || req.RefundStatus == "Refund Initiated"
}
