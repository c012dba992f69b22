package handler

import (
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
)

// Order is the wire representation of an order.
type Order struct {
	ID           int64       `json:"id"`
	Reference    string      `json:"reference"`
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	Address      string      `json:"address,omitempty"`
	City         string      `json:"city,omitempty"`
	State        string      `json:"state,omitempty"`
	Pincode      string      `json:"pincode,omitempty"`
	Total        int         `json:"total"`
	Status       string      `json:"status"`
	Items        []OrderItem `json:"items"`
	PaymentID    string      `json:"payment_id,omitempty"`

	ShiprocketOrderID string `json:"shiprocket_order_id,omitempty"`
	ShipmentID        string `json:"shipment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID       int64  `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Price    int    `json:"price" validate:"gte=0"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
	SKU      string `json:"sku,omitempty"`
}

type PlaceOrderRequest struct {
	Reference    string      `json:"reference,omitempty"`
	CustomerName string      `json:"customer_name" validate:"required"`
	Email        string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string      `json:"phone,omitempty"`
	Address      string      `json:"address" validate:"required"`
	City         string      `json:"city" validate:"required"`
	State        string      `json:"state" validate:"required"`
	Pincode      string      `json:"pincode" validate:"required"`
	Total        int         `json:"total" validate:"required,gt=0"`
	Items        []OrderItem `json:"items" validate:"required,min=1,dive"`
	PaymentID    string      `json:"payment_id,omitempty"`
}

type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

func PlaceOrderToEntity(req PlaceOrderRequest) entities.Order {
	items := make([]entities.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entities.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			SKU:       it.SKU,
		})
	}

	return entities.Order{
		Reference:    req.Reference,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Total:        req.Total,
		Items:        items,
		PaymentID:    req.PaymentID,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			SKU:      it.SKU,
		})
	}

	return Order{
		ID:                o.ID,
		Reference:         o.Reference,
		CustomerName:      o.CustomerName,
		Email:             o.Email,
		Phone:             o.Phone,
		Address:           o.Address,
		City:              o.City,
		State:             o.State,
		Pincode:           o.Pincode,
		Total:             o.Total,
		Status:            string(o.Status),
		Items:             items,
		PaymentID:         o.PaymentID,
		ShiprocketOrderID: o.ShiprocketOrderID,
		ShipmentID:        o.ShipmentID,
		CreatedAt:         o.CreatedAt,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderEntityToJSON(o))
	}
	return out
}

// Variant is validated at the boundary rather than passed through as an
// opaque blob.
type Variant struct {
	Label  string   `json:"label" validate:"required"`
	Price  int      `json:"price" validate:"required,gt=0"`
	Images []string `json:"images,omitempty"`
}

type FormField struct {
	Name     string   `json:"name" validate:"required"`
	Label    string   `json:"label" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=text textarea number select checkbox file"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

type Product struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	Category     string `json:"category"`
	CategorySlug string `json:"category_slug"`

	Image   string   `json:"image,omitempty"`
	Gallery []string `json:"gallery,omitempty"`

	ShortDescription string   `json:"short_description,omitempty"`
	Description      string   `json:"description,omitempty"`
	Features         []string `json:"features,omitempty"`

	BestSeller    bool `json:"best_seller"`
	CustomRequest bool `json:"custom_request"`

	CustomForm  []FormField `json:"custom_form,omitempty"`
	DefaultForm []FormField `json:"default_form,omitempty"`
	Variants    []Variant   `json:"variants,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

type ProductRequest struct {
	Slug         string `json:"slug" validate:"required,max=120"`
	Name         string `json:"name" validate:"required"`
	Price        int    `json:"price" validate:"required,gt=0"`
	Category     string `json:"category" validate:"required"`
	CategorySlug string `json:"category_slug" validate:"required"`

	Image   string   `json:"image,omitempty"`
	Gallery []string `json:"gallery,omitempty"`

	ShortDescription string   `json:"short_description,omitempty"`
	Description      string   `json:"description,omitempty"`
	Features         []string `json:"features,omitempty"`

	BestSeller    bool `json:"best_seller,omitempty"`
	CustomRequest bool `json:"custom_request,omitempty"`

	CustomForm  []FormField `json:"custom_form,omitempty" validate:"omitempty,dive"`
	DefaultForm []FormField `json:"default_form,omitempty" validate:"omitempty,dive"`
	Variants    []Variant   `json:"variants,omitempty" validate:"omitempty,dive"`
}

func ProductRequestToEntity(req ProductRequest) entities.Product {
	return entities.Product{
		Slug:             req.Slug,
		Name:             req.Name,
		Price:            req.Price,
		Category:         req.Category,
		CategorySlug:     req.CategorySlug,
		Image:            req.Image,
		Gallery:          req.Gallery,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Features:         req.Features,
		BestSeller:       req.BestSeller,
		CustomRequest:    req.CustomRequest,
		CustomForm:       formFieldsToEntity(req.CustomForm),
		DefaultForm:      formFieldsToEntity(req.DefaultForm),
		Variants:         variantsToEntity(req.Variants),
	}
}

func formFieldsToEntity(fields []FormField) []entities.FormField {
	if len(fields) == 0 {
		return nil
	}
	out := make([]entities.FormField, 0, len(fields))
	for _, f := range fields {
		out = append(out, entities.FormField{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return out
}

func variantsToEntity(variants []Variant) []entities.Variant {
	if len(variants) == 0 {
		return nil
	}
	out := make([]entities.Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, entities.Variant{Label: v.Label, Price: v.Price, Images: v.Images})
	}
	return out
}

func ProductEntityToJSON(p entities.Product) Product {
	product := Product{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		Price:            p.Price,
		Category:         p.Category,
		CategorySlug:     p.CategorySlug,
		Image:            p.Image,
		Gallery:          p.Gallery,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Features:         p.Features,
		BestSeller:       p.BestSeller,
		CustomRequest:    p.CustomRequest,
		CreatedAt:        p.CreatedAt,
	}

	for _, f := range p.CustomForm {
		product.CustomForm = append(product.CustomForm, FormField{
			Name: f.Name, Label: f.Label, Type: f.Type, Required: f.Required, Options: f.Options,
		})
	}
	for _, f := range p.DefaultForm {
		product.DefaultForm = append(product.DefaultForm, FormField{
			Name: f.Name, Label: f.Label, Type: f.Type, Required: f.Required, Options: f.Options,
		})
	}
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, Variant{Label: v.Label, Price: v.Price, Images: v.Images})
	}
	return product
}

func ProductsEntityToJSON(products []entities.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, ProductEntityToJSON(p))
	}
	return out
}

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewRequest struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment,omitempty"`
}

func ReviewEntityToJSON(r entities.Review) Review {
	return Review{
		ID:        r.ID,
		ProductID: r.ProductID,
		Name:      r.Name,
		Email:     r.Email,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func ReviewsEntityToJSON(reviews []entities.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewEntityToJSON(r))
	}
	return out
}

// ProductDetail is the by-slug response: product plus its reviews.
type ProductDetail struct {
	Product
	Reviews []Review `json:"reviews"`
}
