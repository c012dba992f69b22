package service

import (
	"context"
	"log/slog"

	"github.com/santhosharam/kottravai-backend/internal/entities"
)

type WishlistRepo interface {
	Exists(ctx context.Context, username string, productID int64) (bool, error)
	Add(ctx context.Context, username string, productID int64) error
	Remove(ctx context.Context, username string, productID int64) error
	ListProducts(ctx context.Context, username string) ([]entities.Product, error)
}

type wishlistService struct {
	logger *slog.Logger
	repo   WishlistRepo
}

func NewWishlistService(logger *slog.Logger, repo WishlistRepo) *wishlistService {
	return &wishlistService{
		logger: logger.With(slog.String("service", "wishlist")),
		repo:   repo,
	}
}

// Toggle flips the (username, product) entry and reports whether it is now
// present. Calling it twice restores the original state.
func (s *wishlistService) Toggle(ctx context.Context, username string, productID int64) (bool, error) {
	exists, err := s.repo.Exists(ctx, username, productID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.repo.Remove(ctx, username, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.Add(ctx, username, productID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *wishlistService) List(ctx context.Context, username string) ([]entities.Product, error) {
	return s.repo.ListProducts(ctx, username)
}
