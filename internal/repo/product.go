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

var productColumns = []string{
	"id", "slug", "name", "price", "category", "category_slug", "image",
	"gallery", "short_description", "description", "features",
	"best_seller", "custom_request", "custom_form", "default_form",
	"variants", "created_at",
}

type productRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewProductRepo(db *sqlx.DB) *productRepo {
	return &productRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *productRepo) List(ctx context.Context) ([]entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		OrderBy("id ASC").
		MustSql()

	var rows []Product
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
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

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"slug": slug}).
		MustSql()
	return r.get(ctx, query, args)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (entities.Product, error) {
	query, args := r.qb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		MustSql()
	return r.get(ctx, query, args)
}

func (r *productRepo) get(ctx context.Context, query string, args []any) (entities.Product, error) {
	var row Product
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(row)
}

func (r *productRepo) Create(ctx context.Context, p entities.Product) (entities.Product, error) {
	values, err := productJSONValues(p)
	if err != nil {
		return entities.Product{}, err
	}

	query, args := r.qb.Insert("products").
		Columns("slug", "name", "price", "category", "category_slug", "image",
			"gallery", "short_description", "description", "features",
			"best_seller", "custom_request", "custom_form", "default_form", "variants").
		Values(p.Slug, p.Name, p.Price, p.Category, p.CategorySlug, nullString(p.Image),
			values.gallery, nullString(p.ShortDescription), nullString(p.Description), values.features,
			p.BestSeller, p.CustomRequest, values.customForm, values.defaultForm, values.variants).
		Suffix("RETURNING id, created_at").
		MustSql()

	row := struct {
		ID        int64        `db:"id"`
		CreatedAt sql.NullTime `db:"created_at"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return entities.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	p.ID = row.ID
	if row.CreatedAt.Valid {
		p.CreatedAt = row.CreatedAt.Time
	}
	return p, nil
}

func (r *productRepo) Update(ctx context.Context, p entities.Product) error {
	values, err := productJSONValues(p)
	if err != nil {
		return err
	}

	query, args := r.qb.Update("products").
		Set("slug", p.Slug).
		Set("name", p.Name).
		Set("price", p.Price).
		Set("category", p.Category).
		Set("category_slug", p.CategorySlug).
		Set("image", nullString(p.Image)).
		Set("gallery", values.gallery).
		Set("short_description", nullString(p.ShortDescription)).
		Set("description", nullString(p.Description)).
		Set("features", values.features).
		Set("best_seller", p.BestSeller).
		Set("custom_request", p.CustomRequest).
		Set("custom_form", values.customForm).
		Set("default_form", values.defaultForm).
		Set("variants", values.variants).
		Where(sq.Eq{"id": p.ID}).
		MustSql()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireProductAffected(res)
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	query, args := r.qb.Delete("products").
		Where(sq.Eq{"id": id}).
		MustSql()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireProductAffected(res)
}

type productJSON struct {
	gallery, features, customForm, defaultForm, variants any
}

func productJSONValues(p entities.Product) (productJSON, error) {
	gallery, err := jsonOrNil(p.Gallery)
	if err != nil {
		return productJSON{}, err
	}
	features, err := jsonOrNil(p.Features)
	if err != nil {
		return productJSON{}, err
	}
	customForm, err := jsonOrNil(p.CustomForm)
	if err != nil {
		return productJSON{}, err
	}
	defaultForm, err := jsonOrNil(p.DefaultForm)
	if err != nil {
		return productJSON{}, err
	}
	variants, err := jsonOrNil(p.Variants)
	if err != nil {
		return productJSON{}, err
	}
	return productJSON{
		gallery:     gallery,
		features:    features,
		customForm:  customForm,
		defaultForm: defaultForm,
		variants:    variants,
	}, nil
}

func requireProductAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return entities.ErrProductNotFound
	}
	return nil
}
