package shiprocket

import (
	"context"
	"net/http"
	"strconv"

	"github.com/santhosharam/kottravai-backend/internal/entities"
)

// Default package dimensions (cm / kg) when the order carries none.
// Handcrafted goods ship in a standard box.
const (
	defaultLength = 10.0
	defaultBreath = 10.0
	defaultHeight = 10.0
	defaultWeight = 0.5
)

type orderItemPayload struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Units        int    `json:"units"`
	SellingPrice int    `json:"selling_price"`
}

type orderPayload struct {
	OrderID         string             `json:"order_id"`
	OrderDate       string             `json:"order_date"`
	PickupLocation  string             `json:"pickup_location"`
	BillingName     string             `json:"billing_customer_name"`
	BillingLastName string             `json:"billing_last_name"`
	BillingAddress  string             `json:"billing_address"`
	BillingCity     string             `json:"billing_city"`
	BillingPincode  string             `json:"billing_pincode"`
	BillingState    string             `json:"billing_state"`
	BillingCountry  string             `json:"billing_country"`
	BillingEmail    string             `json:"billing_email"`
	BillingPhone    string             `json:"billing_phone"`
	ShippingIsBill  bool               `json:"shipping_is_billing"`
	OrderItems      []orderItemPayload `json:"order_items"`
	PaymentMethod   string             `json:"payment_method"`
	SubTotal        int                `json:"sub_total"`
	Length          float64            `json:"length"`
	Breadth         float64            `json:"breadth"`
	Height          float64            `json:"height"`
	Weight          float64            `json:"weight"`
}

func payloadFromOrder(o entities.Order, pickupLocation string) orderPayload {

	items := make([]orderItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		sku := it.SKU
		if sku == "" {
			sku = "KTV-" + strconv.FormatInt(it.ProductID, 10)
		}
		items = append(items, orderItemPayload{
			Name:         it.Name,
			SKU:          sku,
			Units:        it.Quantity,
			SellingPrice: it.Price,
		})
	}

	return orderPayload{
		OrderID:        o.Reference,
		OrderDate:      o.CreatedAt.Format("2006-01-02 15:04"),
		PickupLocation: pickupLocation,
		BillingName:    o.CustomerName,
		BillingAddress: o.Address,
		BillingCity:    o.City,
		BillingPincode: o.Pincode,
		BillingState:   o.State,
		BillingCountry: "India",
		BillingEmail:   o.Email,
		BillingPhone:   SanitizePhone(o.Phone),
		ShippingIsBill: true,
		OrderItems:     items,
		PaymentMethod:  "Prepaid",
		SubTotal:       o.Total,
		Length:         defaultLength,
		Breadth:        defaultBreath,
		Height:         defaultHeight,
		Weight:         defaultWeight,
	}
}

type CreateOrderResult struct {
	OrderID    string
	ShipmentID string
}

// CreateOrder registers the order with the aggregator and returns the
// provider's order and shipment ids.
func (c *Client) CreateOrder(ctx context.Context, o entities.Order) (CreateOrderResult, error) {
	var result struct {
		OrderID    int64 `json:"order_id"`
		ShipmentID int64 `json:"shipment_id"`
	}
	payload := payloadFromOrder(o, c.pickupLocation)
	if err := c.call(ctx, http.MethodPost, "/orders/create/adhoc", payload, &result); err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{
		OrderID:    strconv.FormatInt(result.OrderID, 10),
		ShipmentID: strconv.FormatInt(result.ShipmentID, 10),
	}, nil
}

type Courier struct {
	ID           int     `json:"courier_company_id"`
	Name         string  `json:"courier_name"`
	Rate         float64 `json:"rate"`
	EstimatedDays string  `json:"etd"`
}

// Serviceability lists couriers able to carry a shipment between pincodes.
func (c *Client) Serviceability(ctx context.Context, pickupPincode, deliveryPincode string, weight float64) ([]Courier, error) {
	var result struct {
		Data struct {
			AvailableCouriers []Courier `json:"available_courier_companies"`
		} `json:"data"`
	}
	path := "/courier/serviceability/?pickup_postcode=" + pickupPincode +
		"&delivery_postcode=" + deliveryPincode +
		"&weight=" + strconv.FormatFloat(weight, 'f', -1, 64) +
		"&cod=0"
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Data.AvailableCouriers, nil
}

type AWBResult struct {
	AWBCode     string
	CourierName string
}

// AssignAWB books a courier for a shipment.
func (c *Client) AssignAWB(ctx context.Context, shipmentID string, courierID int) (AWBResult, error) {
	body := map[string]any{"shipment_id": shipmentID}
	if courierID > 0 {
		body["courier_id"] = courierID
	}
	var result struct {
		Response struct {
			Data struct {
				AWBCode     string `json:"awb_code"`
				CourierName string `json:"courier_name"`
			} `json:"data"`
		} `json:"response"`
	}
	if err := c.call(ctx, http.MethodPost, "/courier/assign/awb", body, &result); err != nil {
		return AWBResult{}, err
	}
	return AWBResult{
		AWBCode:     result.Response.Data.AWBCode,
		CourierName: result.Response.Data.CourierName,
	}, nil
}

// SchedulePickup requests a pickup for booked shipments.
func (c *Client) SchedulePickup(ctx context.Context, shipmentIDs []string) error {
	return c.call(ctx, http.MethodPost, "/courier/generate/pickup",
		map[string]any{"shipment_id": shipmentIDs}, nil)
}

type TrackingActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type TrackingInfo struct {
	CurrentStatus string
	Activities    []TrackingActivity
}

// Track fetches the shipment's tracking history.
func (c *Client) Track(ctx context.Context, shipmentID string) (TrackingInfo, error) {
	var result struct {
		TrackingData struct {
			ShipmentTrack []struct {
				CurrentStatus string `json:"current_status"`
			} `json:"shipment_track"`
			ShipmentTrackActivities []TrackingActivity `json:"shipment_track_activities"`
		} `json:"tracking_data"`
	}
	if err := c.call(ctx, http.MethodGet, "/courier/track/shipment/"+shipmentID, nil, &result); err != nil {
		return TrackingInfo{}, err
	}
	info := TrackingInfo{Activities: result.TrackingData.ShipmentTrackActivities}
	if len(result.TrackingData.ShipmentTrack) > 0 {
		info.CurrentStatus = result.TrackingData.ShipmentTrack[0].CurrentStatus
	}
	return info, nil
}

// Cancel voids provider orders by their provider order ids.
func (c *Client) Cancel(ctx context.Context, providerOrderIDs []string) error {
	ids := make([]int64, 0, len(providerOrderIDs))
	for _, s := range providerOrderIDs {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return &APIError{Status: http.StatusBadRequest, Message: "invalid provider order id " + s}
		}
		ids = append(ids, id)
	}
	return c.call(ctx, http.MethodPost, "/orders/cancel", map[string]any{"ids": ids}, nil)
}

// GenerateLabel returns a URL to a printable label for the shipments.
func (c *Client) GenerateLabel(ctx context.Context, shipmentIDs []string) (string, error) {
	var result struct {
		LabelURL string `json:"label_url"`
	}
	if err := c.call(ctx, http.MethodPost, "/courier/generate/label",
		map[string]any{"shipment_id": shipmentIDs}, &result); err != nil {
		return "", err
	}
	return result.LabelURL, nil
}
