package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/santhosharam/kottravai-backend/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type wishlistRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewWishlistRepo(db *sqlx.DB) *wishlistRepo {
	return &wishlistRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *wishlistRepo) Exists(ctx context.Context, username string, productID int64) (bool, error) {
	query, args := r.qb.Select("1").
		From("wishlist").
		Where(sq.Eq{"username": username, "product_id": productID}).
		MustSql()

	var one int
	err := r.db.GetContext(ctx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return true, nil
}

func (r *wishlistRepo) Add(ctx context.Context, username string, productID int64) error {
	query, args := r.qb.Insert("wishlist").
		Columns("username", "product_id").
		Values(username, productID).
		Suffix("ON CONFLICT (username, product_id) DO NOTHING").
		MustSql()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

func (r *wishlistRepo) Remove(ctx context.Context, username string, productID int64) error {
	query, args := r.qb.Delete("wishlist").
		Where(sq.Eq{"username": username, "product_id": productID}).
		MustSql()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}

// ListProducts returns the wished products joined against the catalog.
func (r *wishlistRepo) ListProducts(ctx context.Context, username string) ([]entities.Product, error) {
	cols := make([]string, 0, len(productColumns))
	for _, c := range productColumns {
		cols = append(cols, "p."+c)
	}

	query, args := r.qb.Select(cols...).
		From("wishlist w").
		Join("products p ON p.id = w.product_id").
		Where(sq.Eq{"w.username": username}).
		OrderBy("p.id ASC").
		MustSql()

	var rows []Product
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select wishlist: %w", err)
	}

	products := make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		p, err := ProductToEntity(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
