package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var orderColumns = []string{
	"id", "reference", "customer_name", "email", "phone", "address",
	"city", "state", "pincode", "total", "status", "items",
	"payment_id", "shiprocket_order_id", "shipment_id", "created_at",
}

type orderRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewOrderRepo(db *sqlx.DB) *orderRepo {
	return &orderRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *orderRepo) Save(ctx context.Context, o entities.Order) (entities.Order, error) {
	items, err := itemsToJSON(o.Items)
	if err != nil {
		return entities.Order{}, err
	}

	query, args := r.qb.Insert("orders").
		Columns("reference", "customer_name", "email", "phone", "address",
			"city", "state", "pincode", "total", "status", "items", "payment_id").
		Values(o.Reference, o.CustomerName, nullString(o.Email), nullString(o.Phone),
			nullString(o.Address), nullString(o.City), nullString(o.State),
			nullString(o.Pincode), o.Total, string(o.Status), items, nullString(o.PaymentID)).
		Suffix("RETURNING id, created_at").
		MustSql()

	row := struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}{}
	if err := r.getContext(ctx, &row, query, args...); err != nil {
		return entities.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	o.ID = row.ID
	o.CreatedAt = row.CreatedAt
	return o, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		MustSql()

	var row Order
	err := r.getContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return OrderToEntity(row)
}

func (r *orderRepo) ListAll(ctx context.Context) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC").
		MustSql()
	return r.list(ctx, query, args)
}

func (r *orderRepo) ListByEmail(ctx context.Context, email string) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"email": email}).
		OrderBy("created_at DESC").
		MustSql()
	return r.list(ctx, query, args)
}

// ListByPhoneSuffix matches orders whose phone ends with the given digits.
// Best-effort legacy lookup for phone-only accounts, not a unique key.
func (r *orderRepo) ListByPhoneSuffix(ctx context.Context, last10 string) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Like{"phone": "%" + last10}).
		OrderBy("created_at DESC").
		MustSql()
	return r.list(ctx, query, args)
}

// ListUnshipped returns orders past minAge with no shipment reference,
// excluding cancelled ones. Input for the shipment reconciler.
func (r *orderRepo) ListUnshipped(ctx context.Context, olderThan time.Time) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"shipment_id": nil}).
		Where(sq.Lt{"created_at": olderThan}).
		Where(sq.NotEq{"status": string(entities.StatusCancelled)}).
		OrderBy("created_at ASC").
		MustSql()
	return r.list(ctx, query, args)
}

func (r *orderRepo) list(ctx context.Context, query string, args []any) ([]entities.Order, error) {
	var rows []Order
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		order, err := OrderToEntity(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status entities.OrderStatus) error {
	query, args := r.qb.Update("orders").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireAffected(res)
}

// UpdateShipment attaches the provider's order and shipment ids after the
// asynchronous shipment creation succeeds.
func (r *orderRepo) UpdateShipment(ctx context.Context, id int64, providerOrderID, shipmentID string) error {
	query, args := r.qb.Update("orders").
		Set("shiprocket_order_id", nullString(providerOrderID)).
		Set("shipment_id", nullString(shipmentID)).
		Where(sq.Eq{"id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order shipment: %w", err)
	}
	return requireAffected(res)
}

func (r *orderRepo) Delete(ctx context.Context, id int64) error {
	query, args := r.qb.Delete("orders").
		Where(sq.Eq{"id": id}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *orderRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *orderRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
