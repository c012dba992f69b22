package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/santhosharam/kottravai-backend/internal/entities"
	"github.com/santhosharam/kottravai-backend/internal/identity"
	"github.com/santhosharam/kottravai-backend/internal/mailer"
	"github.com/santhosharam/kottravai-backend/internal/shiprocket"
	"github.com/santhosharam/kottravai-backend/pkg/trm"

	"golang.org/x/sync/errgroup"
)

type OrderRepo interface {
	Save(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id int64) (entities.Order, error)
	ListAll(ctx context.Context) ([]entities.Order, error)
	ListByEmail(ctx context.Context, email string) ([]entities.Order, error)
	ListByPhoneSuffix(ctx context.Context, last10 string) ([]entities.Order, error)
	ListUnshipped(ctx context.Context, olderThan time.Time) ([]entities.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entities.OrderStatus) error
	UpdateShipment(ctx context.Context, id int64, providerOrderID, shipmentID string) error
	Delete(ctx context.Context, id int64) error
}

type Mailer interface {
	Send(msg mailer.Message) error
}

type Shipper interface {
	CreateOrder(ctx context.Context, o entities.Order) (shiprocket.CreateOrderResult, error)
}

type Publisher interface {
	PublishOrderCreated(ctx context.Context, o entities.Order) error
}

type orderService struct {
	logger     *slog.Logger
	txManager  trm.Manager
	repo       OrderRepo
	mailer     Mailer
	shipper    Shipper
	publisher  Publisher // nil when event publishing is disabled
	adminEmail string

	wg sync.WaitGroup
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, m Mailer, shipper Shipper, publisher Publisher, adminEmail string) *orderService {
	return &orderService{
		logger:     logger.With(slog.String("service", "order")),
		txManager:  txManager,
		repo:       repo,
		mailer:     m,
		shipper:    shipper,
		publisher:  publisher,
		adminEmail: adminEmail,
	}
}

// PlaceOrder validates and persists the order, then kicks off the best-effort
// fan-out (emails, shipment, event) detached from the request. Persistence is
// the commit point: once it succeeds the order is placed, whatever happens to
// the side effects afterwards.
func (s *orderService) PlaceOrder(ctx context.Context, order entities.Order, ident identity.Identity) (entities.Order, error) {
	if len(order.Items) == 0 {
		return entities.Order{}, entities.ErrTotalMismatch
	}
	if order.Total != order.ItemsTotal() {
		return entities.Order{}, entities.ErrTotalMismatch
	}

	if order.Phone == "" {
		order.Phone = ident.Phone
	}
	if order.Email == "" {
		order.Email = ident.Email
	}
	if order.Reference == "" {
		order.Reference = newReference()
	}
	order.Status = entities.StatusPending

	var saved entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.repo.Save(ctx, order)
		return err
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to place order: %w", err)
	}

	ordersPlaced.Inc()
	s.logger.Info("order placed",
		slog.Int64("order_id", saved.ID),
		slog.String("reference", saved.Reference))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Deliberately detached from the request context: the client has
		// already been answered.
		s.fanOut(context.Background(), saved)
	}()

	return saved, nil
}

// Wait blocks until in-flight fan-outs finish. Used on shutdown and in tests.
func (s *orderService) Wait() {
	s.wg.Wait()
}

func (s *orderService) fanOut(ctx context.Context, order entities.Order) {
	var g errgroup.Group

	g.Go(func() error {
		s.notify(order)
		return nil
	})

	g.Go(func() error {
		s.ship(ctx, order)
		return nil
	})

	if s.publisher != nil {
		g.Go(func() error {
			if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
				s.logger.Error("failed to publish order event",
					slog.Int64("order_id", order.ID), slog.Any("error", err))
			}
			return nil
		})
	}

	g.Wait()
}

// notify sends the admin and customer copies in parallel. Failures are
// logged and counted, never propagated.
func (s *orderService) notify(order entities.Order) {
	var g errgroup.Group

	g.Go(func() error {
		msg := mailer.Message{
			To:       s.adminEmail,
			Subject:  fmt.Sprintf("New order %s", order.Reference),
			HTML:     adminOrderEmail(order),
			Category: mailer.CategoryOrder,
		}
		if err := s.mailer.Send(msg); err != nil {
			notificationFailures.Inc()
			s.logger.Error("failed to send admin order email",
				slog.Int64("order_id", order.ID), slog.Any("error", err))
		}
		return nil
	})

	g.Go(func() error {
		if order.Email == "" {
			return nil
		}
		msg := mailer.Message{
			To:       order.Email,
			Subject:  fmt.Sprintf("Your Kottravai order %s is confirmed", order.Reference),
			HTML:     customerOrderEmail(order),
			Category: mailer.CategoryOrder,
		}
		if err := s.mailer.Send(msg); err != nil {
			notificationFailures.Inc()
			s.logger.Error("failed to send customer order email",
				slog.Int64("order_id", order.ID), slog.Any("error", err))
		}
		return nil
	})

	g.Wait()
}

func (s *orderService) ship(ctx context.Context, order entities.Order) {
	result, err := s.shipper.CreateOrder(ctx, order)
	if err != nil {
		shipmentFailures.Inc()
		s.logger.Error("MANUAL SHIPMENT CREATION REQUIRED: shipment creation failed",
			slog.Int64("order_id", order.ID),
			slog.String("reference", order.Reference),
			slog.Any("error", err))
		return
	}

	if err := s.repo.UpdateShipment(ctx, order.ID, result.OrderID, result.ShipmentID); err != nil {
		s.logger.Error("shipment created but failed to attach ids to order",
			slog.Int64("order_id", order.ID),
			slog.String("shiprocket_order_id", result.OrderID),
			slog.String("shipment_id", result.ShipmentID),
			slog.Any("error", err))
		return
	}

	s.logger.Info("shipment created",
		slog.Int64("order_id", order.ID),
		slog.String("shipment_id", result.ShipmentID))
}

// OrdersFor lists the identity's own orders: by email when the account has
// one, otherwise by a loose last-10-digits phone match kept for legacy
// phone-only accounts. Identities with neither see nothing.
func (s *orderService) OrdersFor(ctx context.Context, ident identity.Identity) ([]entities.Order, error) {
	switch {
	case ident.Email != "":
		return s.repo.ListByEmail(ctx, ident.Email)
	case ident.Phone != "":
		return s.repo.ListByPhoneSuffix(ctx, lastDigits(ident.Phone, 10))
	default:
		return []entities.Order{}, nil
	}
}

func (s *orderService) AllOrders(ctx context.Context) ([]entities.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus mutates an order's status. Terminal orders are immutable.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status entities.OrderStatus) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.Terminal() {
		return entities.ErrOrderTerminal
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ReconcileShipments retries shipment creation for orders that have been
// sitting without a shipment reference past minAge.
func (s *orderService) ReconcileShipments(ctx context.Context, minAge time.Duration) error {
	orders, err := s.repo.ListUnshipped(ctx, time.Now().Add(-minAge))
	if err != nil {
		return fmt.Errorf("failed to list unshipped orders: %w", err)
	}

	for _, order := range orders {
		result, err := s.shipper.CreateOrder(ctx, order)
		if err != nil {
			s.logger.Warn("reconciler: shipment creation still failing",
				slog.Int64("order_id", order.ID), slog.Any("error", err))
			continue
		}
		if err := s.repo.UpdateShipment(ctx, order.ID, result.OrderID, result.ShipmentID); err != nil {
			s.logger.Error("reconciler: failed to attach shipment ids",
				slog.Int64("order_id", order.ID), slog.Any("error", err))
			continue
		}
		shipmentsReconciled.Inc()
		s.logger.Info("reconciler: shipment created",
			slog.Int64("order_id", order.ID),
			slog.String("shipment_id", result.ShipmentID))
	}
	return nil
}

func newReference() string {
	buf := make([]byte, 3)
	rand.Read(buf)
	return fmt.Sprintf("KTV-%d-%s", time.Now().Unix(), strings.ToUpper(hex.EncodeToString(buf)))
}

func lastDigits(raw string, n int) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > n {
		digits = digits[len(digits)-n:]
	}
	return digits
}

func adminOrderEmail(o entities.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New order %s</h2>", o.Reference)
	fmt.Fprintf(&b, "<p>%s &lt;%s&gt; %s</p>", o.CustomerName, o.Email, o.Phone)
	fmt.Fprintf(&b, "<p>%s, %s, %s %s</p>", o.Address, o.City, o.State, o.Pincode)
	b.WriteString(itemsTable(o))
	fmt.Fprintf(&b, "<p><b>Total: ₹%d</b></p>", o.Total)
	return b.String()
}

func customerOrderEmail(o entities.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thank you for your order, %s!</h2>", o.CustomerName)
	fmt.Fprintf(&b, "<p>Your order <b>%s</b> has been received.</p>", o.Reference)
	b.WriteString(itemsTable(o))
	fmt.Fprintf(&b, "<p><b>Total: ₹%d</b></p>", o.Total)
	b.WriteString("<p>We will notify you once it ships.</p>")
	return b.String()
}

func itemsTable(o entities.Order) string {
	var b strings.Builder
	b.WriteString("<table><tr><th>Item</th><th>Qty</th><th>Price</th></tr>")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>₹%d</td></tr>", it.Name, it.Quantity, it.Price)
	}
	b.WriteString("</table>")
	return b.String()
}
