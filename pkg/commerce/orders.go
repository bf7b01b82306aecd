package commerce

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/repository"
	"github.com/nimburion/storefront/pkg/repository/document"
)

// OrderRepository persists orders and announces their lifecycle on the event bus.
type OrderRepository struct {
	store  *repository.DocumentRepository[Order]
	events *OrderEvents
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewOrderRepository creates the repository. events may be nil.
func NewOrderRepository(exec document.Executor, events *OrderEvents, log logger.Logger) *OrderRepository {
	return &OrderRepository{
		store:  repository.NewDocumentRepository[Order](exec, OrdersCollection),
		events: events,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (r *OrderRepository) orderDate(in *time.Time) time.Time {
	if in != nil {
		return in.UTC().Truncate(time.Millisecond)
	}
	return r.now().UTC().Truncate(time.Millisecond)
}

// Create places an order. A missing order_id is generated and a missing
// order_date defaults to now.
func (r *OrderRepository) Create(ctx context.Context, in OrderInput) (Order, error) {
	if err := in.Validate(); err != nil {
		return Order{}, err
	}

	o := Order{
		OrderID:       strings.TrimSpace(in.OrderID),
		UserID:        in.UserID,
		Items:         in.Items,
		TotalAmount:   *in.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		OrderDate:     r.orderDate(in.OrderDate),
	}
	if o.OrderID == "" {
		o.OrderID = r.newID()
	}

	id, err := r.store.Create(ctx, &o)
	if err != nil {
		return Order{}, classify("create order", "Order", err)
	}
	o.ID = id
	r.log.WithContext(ctx).Info("order placed", "order_id", o.OrderID, "id", id.Hex())
	r.events.publish(ctx, EventOrderCreated, id, &o)
	return o, nil
}

// List returns every order.
func (r *OrderRepository) List(ctx context.Context) ([]Order, error) {
	orders, err := r.store.FindAll(ctx, nil)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

// Get returns the order with the given id or ErrNotFound.
func (r *OrderRepository) Get(ctx context.Context, rawID string) (Order, error) {
	id, err := DecodeID(rawID)
	if err != nil {
		return Order{}, err
	}
	o, err := r.store.FindByID(ctx, id)
	if err != nil {
		return Order{}, classify("get order", "Order", err)
	}
	return *o, nil
}

// Update replaces every mutable field of the order. order_id and order_date
// keep their stored values when omitted.
func (r *OrderRepository) Update(ctx context.Context, rawID string, in OrderInput) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	fields := document.Document{
		"user_id":        in.UserID,
		"items":          in.Items,
		"total_amount":   *in.TotalAmount,
		"payment_method": in.PaymentMethod,
		"status":         in.Status,
	}
	if orderID := strings.TrimSpace(in.OrderID); orderID != "" {
		fields["order_id"] = orderID
	}
	if in.OrderDate != nil {
		fields["order_date"] = r.orderDate(in.OrderDate)
	}

	if _, err := r.store.Update(ctx, id, fields); err != nil {
		return classify("update order", "Order", err)
	}

	if r.events != nil {
		updated, err := r.store.FindByID(ctx, id)
		if err != nil {
			r.log.WithContext(ctx).Warn("updated order not reloaded for event", "id", id.Hex(), "error", err)
		}
		r.events.publish(ctx, EventOrderUpdated, id, updated)
	}
	return nil
}

// Delete removes the order and publishes order.deleted when events are configured.
func (r *OrderRepository) Delete(ctx context.Context, rawID string) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return classify("delete order", "Order", err)
	}
	r.events.publish(ctx, EventOrderDeleted, id, nil)
	return nil
}

// Export writes every order as CSV. It fails with ErrNotFound when there are no orders.
func (r *OrderRepository) Export(ctx context.Context, w io.Writer) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return newError(ErrNotFound, "No orders found")
	}
	return WriteOrdersCSV(w, orders)
}
