package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/pkg/utils"
)

const productsCacheKey = "products:all"

type ProductRepo interface {
	List(ctx context.Context) ([]entities.Product, error)
	GetBySlug(ctx context.Context, slug string) (entities.Product, error)
	GetByID(ctx context.Context, id int64) (entities.Product, error)
	Create(ctx context.Context, p entities.Product) (entities.Product, error)
	Update(ctx context.Context, p entities.Product) error
	Delete(ctx context.Context, id int64) error
}

type ReviewRepo interface {
	Create(ctx context.Context, r entities.Review) (entities.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]entities.Review, error)
}

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

type productService struct {
	logger  *slog.Logger
	repo    ProductRepo
	reviews ReviewRepo
	cache   Cache
}

func NewProductService(logger *slog.Logger, repo ProductRepo, reviews ReviewRepo, cache Cache) *productService {
	return &productService{
		logger:  logger.With(slog.String("service", "product")),
		repo:    repo,
		reviews: reviews,
		cache:   cache,
	}
}

// Products serves the full catalog from a single cached key. Within the TTL
// repeated calls return identical content; any mutation invalidates
// synchronously so the next read reflects it.
func (s *productService) Products(ctx context.Context) ([]entities.Product, error) {
	if data, ok := s.cache.Get(productsCacheKey); ok {
		var products []entities.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		// Broken cache entry: drop it and fall through to the store.
		s.cache.Delete(productsCacheKey)
	}

	var products []entities.Product
	fn := func() error {
		var err error
		products, err = s.repo.List(ctx)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  3,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		s.cache.Set(productsCacheKey, data)
	}
	return products, nil
}

func (s *productService) ProductBySlug(ctx context.Context, slug string) (entities.Product, []entities.Review, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return entities.Product{}, nil, err
	}

	reviews, err := s.reviews.ListByProduct(ctx, product.ID)
	if err != nil {
		return entities.Product{}, nil, err
	}
	return product, reviews, nil
}

func (s *productService) CreateProduct(ctx context.Context, p entities.Product) (entities.Product, error) {
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return entities.Product{}, err
	}
	s.cache.Delete(productsCacheKey)
	return created, nil
}

func (s *productService) UpdateProduct(ctx context.Context, p entities.Product) error {
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.cache.Delete(productsCacheKey)
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(productsCacheKey)
	return nil
}

// AddReview stores a review after confirming the product exists.
func (s *productService) AddReview(ctx context.Context, review entities.Review) (entities.Review, error) {
	if _, err := s.repo.GetByID(ctx, review.ProductID); err != nil {
		return entities.Review{}, err
	}
	return s.reviews.Create(ctx, review)
}
