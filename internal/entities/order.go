package entities

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses are immutable: no further updates or transitions allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// OrderItem is a denormalized snapshot of the product at purchase time,
// not a live reference to the catalog.
type OrderItem struct {
	ProductID int64
	Name      string
	Price     int
	Quantity  int
	SKU       string
}

type Order struct {
	ID        int64
	Reference string

	CustomerName string
	Email        string
	Phone        string
	Address      string
	City         string
	State        string
	Pincode      string

	Total  int
	Status OrderStatus
	Items  []OrderItem

	PaymentID string

	// Populated asynchronously after shipment creation; both empty means
	// "not yet shipped or shipment failed".
	ShiprocketOrderID string
	ShipmentID        string

	CreatedAt time.Time
}

// ItemsTotal is the sum of line totals. Orders whose Total differs are rejected.
func (o Order) ItemsTotal() int {
	total := 0
	for _, it := range o.Items {
		total += it.Price * it.Quantity
	}
	return total
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderTerminal = errors.New("order is in a terminal status")
	ErrTotalMismatch = errors.New("order total does not match items")
)
