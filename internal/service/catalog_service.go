package service

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
	"golang.org/x/sync/singleflight"
)

const (
	catalogFlightKey      = "catalog"
	defaultFeaturedCount  = 6
	defaultCatalogTimeout = 15 * time.Second

	MsgCatalogLoadFailed = "Failed to load products"
)

// ProductSource fetches the raw catalog from its remote origin.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]entity.Product, error)
}

type CatalogServiceConfig struct {
	CacheTTL      time.Duration
	FeaturedCount int
	Timeout       time.Duration
}

// CatalogService never fails towards its callers: a catalog that cannot be loaded is an
// empty catalog plus an error notice.
type CatalogService struct {
	source        ProductSource
	cache         repository.CatalogCache
	log           logger.Logger
	metrics       *metrics.MetricsManager
	group         singleflight.Group
	cacheTTL      time.Duration
	featuredCount int
	timeout       time.Duration
}

// NewCatalogService accepts a nil cache, in which case every call goes to the source.
func NewCatalogService(
	source ProductSource,
	cache repository.CatalogCache,
	log logger.Logger,
	m *metrics.MetricsManager,
	cfg CatalogServiceConfig,
) *CatalogService {
	featured := cfg.FeaturedCount
	if featured <= 0 {
		featured = defaultFeaturedCount
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCatalogTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &CatalogService{
		source:        source,
		cache:         cache,
		log:           log,
		metrics:       m,
		cacheTTL:      cfg.CacheTTL,
		featuredCount: featured,
		timeout:       timeout,
	}
}

func (s *CatalogService) FetchProducts(ctx context.Context) ([]entity.Product, *entity.Notice) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			s.log.Debugf("Catalog served from cache: %d products", len(cached))
			s.metrics.CatalogFetched(metrics.ResultCache, len(cached))
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Error reading catalog from cache: %v. Fetching from source.", err)
		}
	}

	v, err, shared := s.group.Do(catalogFlightKey, func() (interface{}, error) {
		// Detached so one caller's cancellation does not fail the callers sharing the flight.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.source.FetchProducts(fetchCtx)
	})
	if err != nil {
		s.log.Errorf("Error fetching products: %v", err)
		s.metrics.CatalogFetched(metrics.ResultFailure, 0)
		return []entity.Product{}, entity.NewNotice(entity.NoticeError, MsgCatalogLoadFailed)
	}
	products := v.([]entity.Product)
	if shared {
		s.log.Debugf("Catalog fetch shared with a concurrent caller")
	}
	s.metrics.CatalogFetched(metrics.ResultSuccess, len(products))

	if s.cache != nil && s.cacheTTL > 0 {
		if errSet := s.cache.Set(ctx, products, s.cacheTTL); errSet != nil {
			s.log.Warnf("Failed to cache catalog: %v", errSet)
		}
	}

	out := make([]entity.Product, len(products))
	copy(out, products)
	return out, nil
}

// Featured returns the head of the catalog shown on the landing page.
func (s *CatalogService) Featured(ctx context.Context) ([]entity.Product, *entity.Notice) {
	products, notice := s.FetchProducts(ctx)
	if len(products) > s.featuredCount {
		products = products[:s.featuredCount]
	}
	return products, notice
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, *entity.Notice) {
	products, notice := s.FetchProducts(ctx)
	return entity.UniqueCategories(products), notice
}

// Product looks an id up in the current catalog. An unavailable catalog is reported as
// ErrCatalogUnavailable so callers can tell it apart from an unknown id.
func (s *CatalogService) Product(ctx context.Context, id string) (entity.Product, error) {
	products, notice := s.FetchProducts(ctx)
	if p, ok := entity.FindProduct(products, id); ok {
		return p, nil
	}
	if notice != nil && notice.Level == entity.NoticeError {
		return entity.Product{}, ErrCatalogUnavailable
	}
	return entity.Product{}, ErrProductNotFound
}

// Invalidate drops the cached catalog so the next read goes to the source.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx)
}
