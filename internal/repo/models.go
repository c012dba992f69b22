package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"

	"github.com/jmoiron/sqlx/types"
)

type Order struct {
	ID                int64          `db:"id"`
	Reference         string         `db:"reference"`
	CustomerName      string         `db:"customer_name"`
	Email             sql.NullString `db:"email"`
	Phone             sql.NullString `db:"phone"`
	Address           sql.NullString `db:"address"`
	City              sql.NullString `db:"city"`
	State             sql.NullString `db:"state"`
	Pincode           sql.NullString `db:"pincode"`
	Total             int            `db:"total"`
	Status            string         `db:"status"`
	Items             types.JSONText `db:"items"`
	PaymentID         sql.NullString `db:"payment_id"`
	ShiprocketOrderID sql.NullString `db:"shiprocket_order_id"`
	ShipmentID        sql.NullString `db:"shipment_id"`
	CreatedAt         time.Time      `db:"created_at"`
}

// orderItem mirrors the denormalized line-item snapshot stored as JSONB.
type orderItem struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	SKU       string `json:"sku,omitempty"`
}

func OrderToEntity(o Order) (entities.Order, error) {
	var items []orderItem
	if len(o.Items) > 0 {
		if err := json.Unmarshal(o.Items, &items); err != nil {
			return entities.Order{}, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	order := entities.Order{
		ID:                o.ID,
		Reference:         o.Reference,
		CustomerName:      o.CustomerName,
		Email:             nullStringToString(o.Email),
		Phone:             nullStringToString(o.Phone),
		Address:           nullStringToString(o.Address),
		City:              nullStringToString(o.City),
		State:             nullStringToString(o.State),
		Pincode:           nullStringToString(o.Pincode),
		Total:             o.Total,
		Status:            entities.OrderStatus(o.Status),
		PaymentID:         nullStringToString(o.PaymentID),
		ShiprocketOrderID: nullStringToString(o.ShiprocketOrderID),
		ShipmentID:        nullStringToString(o.ShipmentID),
		CreatedAt:         o.CreatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, entities.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				Quantity:  it.Quantity,
				SKU:       it.SKU,
			})
		}
	}

	return order, nil
}

func itemsToJSON(items []entities.OrderItem) (types.JSONText, error) {
	rows := make([]orderItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, orderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			SKU:       it.SKU,
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	return types.JSONText(data), nil
}

type Product struct {
	ID               int64          `db:"id"`
	Slug             string         `db:"slug"`
	Name             string         `db:"name"`
	Price            int            `db:"price"`
	Category         string         `db:"category"`
	CategorySlug     string         `db:"category_slug"`
	Image            sql.NullString `db:"image"`
	Gallery          types.JSONText `db:"gallery"`
	ShortDescription sql.NullString `db:"short_description"`
	Description      sql.NullString `db:"description"`
	Features         types.JSONText `db:"features"`
	BestSeller       bool           `db:"best_seller"`
	CustomRequest    bool           `db:"custom_request"`
	CustomForm       types.JSONText `db:"custom_form"`
	DefaultForm      types.JSONText `db:"default_form"`
	Variants         types.JSONText `db:"variants"`
	CreatedAt        time.Time      `db:"created_at"`
}

func ProductToEntity(p Product) (entities.Product, error) {
	product := entities.Product{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		Price:            p.Price,
		Category:         p.Category,
		CategorySlug:     p.CategorySlug,
		Image:            nullStringToString(p.Image),
		ShortDescription: nullStringToString(p.ShortDescription),
		Description:      nullStringToString(p.Description),
		BestSeller:       p.BestSeller,
		CustomRequest:    p.CustomRequest,
		CreatedAt:        p.CreatedAt,
	}

	for _, pair := range []struct {
		src  types.JSONText
		dest any
	}{
		{p.Gallery, &product.Gallery},
		{p.Features, &product.Features},
		{p.CustomForm, &product.CustomForm},
		{p.DefaultForm, &product.DefaultForm},
		{p.Variants, &product.Variants},
	} {
		if len(pair.src) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.src, pair.dest); err != nil {
			return entities.Product{}, fmt.Errorf("failed to decode product %d: %w", p.ID, err)
		}
	}

	return product, nil
}

type Review struct {
	ID        int64          `db:"id"`
	ProductID int64          `db:"product_id"`
	Name      string         `db:"name"`
	Email     sql.NullString `db:"email"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt time.Time      `db:"created_at"`
}

func ReviewToEntity(r Review) entities.Review {
	return entities.Review{
		ID:        r.ID,
		ProductID: r.ProductID,
		Name:      r.Name,
		Email:     nullStringToString(r.Email),
		Rating:    r.Rating,
		Comment:   nullStringToString(r.Comment),
		CreatedAt: r.CreatedAt,
	}
}

type OTP struct {
	ID        int64     `db:"id"`
	Identity  string    `db:"identity"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func OTPToEntity(o OTP) entities.OTP {
	return entities.OTP{
		ID:        o.ID,
		Identity:  o.Identity,
		Code:      o.Code,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: o.CreatedAt,
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func jsonOrNil(v any) (types.JSONText, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return types.JSONText(data), nil
}
