package market

import (
	"context"
	"net/url"
	"strconv"

	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/transport"
	"github.com/gofrs/uuid/v5"
)

// OrderInput books a service for a car at a preferred slot.
type OrderInput struct {
	ServiceID     string `json:"serviceId" validate:"required"`
	CarID         string `json:"carId" validate:"required"`
	ScheduledDate string `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	PreferredTime string `json:"preferredTime" validate:"required,datetime=15:04"`
	UserNotes     string `json:"userNotes,omitempty"`

	// IdempotencyKey is generated client-side so an accidental resubmit of
	// the same booking can be recognized by the backend.
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// Orders tracks bookings: creation, listing, status and reviews.
type Orders struct {
	api *transport.Client
}

// NewOrders constructs the orders client.
func NewOrders(api *transport.Client) *Orders {
	return &Orders{api: api}
}

// Create books a service. A missing idempotency key is filled in here.
func (o *Orders) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	if in.IdempotencyKey == "" {
		if k, err := uuid.NewV4(); err == nil {
			in.IdempotencyKey = k.String()
		}
	}
	var ord model.Order
	if err := o.api.Post(ctx, "/orders", in, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// My lists the customer's own orders, optionally filtered by status.
func (o *Orders) My(ctx context.Context, status string, limit int) ([]model.Order, error) {
	q := url.Values{}
	if status != "" && status != "all" {
		q.Set("status", status)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/orders/my-orders"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var orders []model.Order
	if err := o.api.Get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Incoming lists orders placed against the signed-in business's services.
func (o *Orders) Incoming(ctx context.Context, limit int) ([]model.Order, error) {
	path := "/orders/business/my-orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var orders []model.Order
	if err := o.api.Get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Get fetches one order with full detail.
func (o *Orders) Get(ctx context.Context, id string) (*model.Order, error) {
	var ord model.Order
	if err := o.api.Get(ctx, "/orders/"+url.PathEscape(id), &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// SetStatus moves an order to a new status: workflow transitions for the
// business side, cancellation for the customer. Allowed transitions are the
// backend's call; this only relays the intent.
func (o *Orders) SetStatus(ctx context.Context, id, status, businessNotes string) (*model.Order, error) {
	body := map[string]string{"status": status}
	if businessNotes != "" {
		body["businessNotes"] = businessNotes
	}
	var ord model.Order
	if err := o.api.Put(ctx, "/orders/"+url.PathEscape(id)+"/status", body, &ord); err != nil {
		return nil, err
	}
	return &ord, nil
}

// Cancel withdraws the customer's own booking. The backend decides whether
// the order's current status still allows it.
func (o *Orders) Cancel(ctx context.Context, id string) (*model.Order, error) {
	return o.SetStatus(ctx, id, model.OrderCancelled, "")
}

// ReviewInput rates a completed order.
type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment,omitempty"`
}

// Review submits the customer's rating for a completed order.
func (o *Orders) Review(ctx context.Context, id string, in ReviewInput) error {
	return o.api.Post(ctx, "/orders/"+url.PathEscape(id)+"/review", in, nil)
}
