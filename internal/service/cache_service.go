package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/avidya-edu/academy-cms-gateway/internal/dto"
	"github.com/avidya-edu/academy-cms-gateway/pkg/config"
	apperrors "github.com/avidya-edu/academy-cms-gateway/pkg/errors"
)

// View-model cache keys.
const (
	cacheKeyContent   = "view:content"
	cacheKeyLanding   = "view:landing"
	cacheKeyDashboard = "view:dashboard"
)

// CacheStore is the Redis-backed JSON store; satisfied by the cache
// repository.
type CacheStore interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheService fronts the view-model cache. All lookups are best effort: a
// cache failure degrades to a rebuild, never to a request failure. A nil
// *CacheService is valid and always misses.
type CacheService struct {
	store  CacheStore
	cfg    config.CacheConfig
	logger *zap.Logger
}

// NewCacheService builds a CacheService. Returns nil when caching is
// disabled or no store is wired, which callers treat as a pass-through.
func NewCacheService(store CacheStore, cfg config.CacheConfig, logger *zap.Logger) *CacheService {
	if store == nil || !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, cfg: cfg, logger: logger}
}

// GetLanding returns the cached landing view, if present.
func (c *CacheService) GetLanding(ctx context.Context) (*dto.LandingView, bool) {
	if c == nil {
		return nil, false
	}
	var view dto.LandingView
	if !c.lookup(ctx, cacheKeyLanding, &view) {
		return nil, false
	}
	return &view, true
}

// SetLanding stores the landing view under the content TTL.
func (c *CacheService) SetLanding(ctx context.Context, view *dto.LandingView) {
	c.put(ctx, cacheKeyLanding, view, c.contentTTL())
}

// GetContent returns the cached admin content view, if present.
func (c *CacheService) GetContent(ctx context.Context) (*dto.ContentView, bool) {
	if c == nil {
		return nil, false
	}
	var view dto.ContentView
	if !c.lookup(ctx, cacheKeyContent, &view) {
		return nil, false
	}
	return &view, true
}

// SetContent stores the admin content view under the content TTL.
func (c *CacheService) SetContent(ctx context.Context, view *dto.ContentView) {
	c.put(ctx, cacheKeyContent, view, c.contentTTL())
}

// GetDashboard returns the cached dashboard summary, if present.
func (c *CacheService) GetDashboard(ctx context.Context) (*dto.DashboardSummary, bool) {
	if c == nil {
		return nil, false
	}
	var summary dto.DashboardSummary
	if !c.lookup(ctx, cacheKeyDashboard, &summary) {
		return nil, false
	}
	return &summary, true
}

// SetDashboard stores the dashboard summary under the dashboard TTL.
func (c *CacheService) SetDashboard(ctx context.Context, summary *dto.DashboardSummary) {
	ttl := 5 * time.Minute
	if c != nil && c.cfg.DashboardTTL > 0 {
		ttl = c.cfg.DashboardTTL
	}
	c.put(ctx, cacheKeyDashboard, summary, ttl)
}

// InvalidateViews drops every cached view model, called after CMS writes.
func (c *CacheService) InvalidateViews(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.store.Delete(ctx, cacheKeyContent, cacheKeyLanding, cacheKeyDashboard); err != nil {
		c.logger.Warn("view cache invalidation failed", zap.Error(err))
	}
}

func (c *CacheService) contentTTL() time.Duration {
	if c != nil && c.cfg.ContentTTL > 0 {
		return c.cfg.ContentTTL
	}
	return time.Minute
}

func (c *CacheService) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := c.store.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCacheMiss.Code {
		c.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (c *CacheService) put(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}
