package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type reviewRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewReviewRepo(db *sqlx.DB) *reviewRepo {
	return &reviewRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *reviewRepo) Create(ctx context.Context, review entities.Review) (entities.Review, error) {
	query, args := r.qb.Insert("reviews").
		Columns("product_id", "name", "email", "rating", "comment").
		Values(review.ProductID, review.Name, nullString(review.Email),
			review.Rating, nullString(review.Comment)).
		Suffix("RETURNING id, created_at").
		MustSql()

	row := struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return entities.Review{}, fmt.Errorf("failed to create review: %w", err)
	}

	review.ID = row.ID
	review.CreatedAt = row.CreatedAt
	return review, nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID int64) ([]entities.Review, error) {
	query, args := r.qb.Select("id", "product_id", "name", "email", "rating", "comment", "created_at").
		From("reviews").
		Where(sq.Eq{"product_id": productID}).
		OrderBy("created_at DESC").
		MustSql()

	var rows []Review
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select reviews: %w", err)
	}

	reviews := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, ReviewToEntity(row))
	}
	return reviews, nil
}
