// Package cjwebhook ingests dropshipping supplier callbacks. Supplier events
// are advisory: an event referencing an order or product we do not know is
// logged and acknowledged rather than failed, so the supplier never retries
// into a wall.
package cjwebhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/beezio/beezio-backend/internal/pricing"
	"github.com/beezio/beezio-backend/internal/suppliers/cj"
	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
)

// Envelope is the supplier's uniform webhook wrapper.
type Envelope struct {
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

type costSource interface {
	QueryProductCost(ctx context.Context, productID, variantID string) (*cj.ProductCost, error)
}

// ServiceParams wires the supplier webhook service. Costs is optional; when
// set, price events that carry no price fall back to querying the supplier
// for the current wholesale cost.
type ServiceParams struct {
	Repo   cj.Repository
	Costs  costSource
	Logger *logger.Logger
}

type Service struct {
	repo  cj.Repository
	costs costSource
	logg  *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supplier repo required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{repo: params.Repo, costs: params.Costs, logg: params.Logger}, nil
}

// HandleEvent dispatches one supplier event. Unknown event types are
// acknowledged so the supplier does not redeliver them forever.
func (s *Service) HandleEvent(ctx context.Context, envelope Envelope) error {
	eventType, err := enums.ParseSupplierEventType(envelope.EventType)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "event_type", envelope.EventType),
			"ignoring unknown supplier event type")
		return nil
	}
	ctx = s.logg.WithField(ctx, "supplier_event", string(eventType))

	switch eventType {
	case enums.SupplierEventOrderStatusUpdate:
		return s.handleOrderStatus(ctx, envelope.Data)
	case enums.SupplierEventTrackingNumberUpdate:
		return s.handleTracking(ctx, envelope.Data)
	case enums.SupplierEventInventoryUpdate:
		return s.handleInventory(ctx, envelope.Data)
	case enums.SupplierEventPriceUpdate:
		return s.handlePrice(ctx, envelope.Data)
	}
	return nil
}

type orderStatusPayload struct {
	OrderNumber     string `json:"orderNumber"`
	Status          string `json:"status"`
	SupplierOrderID string `json:"cjOrderId"`
}

// fulfillmentFor maps the supplier's free-form status vocabulary onto our
// closed fulfillment set. Unrecognized statuses count as still in flight.
func fulfillmentFor(supplierStatus string) enums.FulfillmentStatus {
	switch supplierStatus {
	case "SHIPPED", "DELIVERED":
		return enums.FulfillmentStatusShipped
	case "CANCELLED", "FAILED":
		return enums.FulfillmentStatusFailed
	default:
		return enums.FulfillmentStatusProcessing
	}
}

func (s *Service) handleOrderStatus(ctx context.Context, data json.RawMessage) error {
	var payload orderStatusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode order status payload")
	}
	if payload.OrderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}

	supplierOrder, err := s.repo.FindSupplierOrderByNumber(ctx, payload.OrderNumber)
	if err != nil {
		return s.skipUnknown(ctx, err, "supplier order not found for status update")
	}

	updates := map[string]any{"supplier_status": payload.Status}
	if payload.SupplierOrderID != "" {
		updates["supplier_order_id"] = payload.SupplierOrderID
	}
	if err := s.repo.UpdateSupplierOrder(ctx, supplierOrder.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update supplier order status")
	}

	err = s.repo.UpdateOrderFulfillment(ctx, supplierOrder.OrderID, map[string]any{
		"fulfillment_status": fulfillmentFor(payload.Status),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mirror fulfillment status onto order")
	}
	s.logg.Info(ctx, "supplier order status applied")
	return nil
}

type trackingPayload struct {
	OrderNumber    string `json:"orderNumber"`
	TrackingNumber string `json:"trackingNumber"`
	LogisticName   string `json:"logisticName"`
	TrackingURL    string `json:"trackingUrl"`
}

func (s *Service) handleTracking(ctx context.Context, data json.RawMessage) error {
	var payload trackingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode tracking payload")
	}
	if payload.OrderNumber == "" || payload.TrackingNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number and tracking number are required")
	}

	supplierOrder, err := s.repo.FindSupplierOrderByNumber(ctx, payload.OrderNumber)
	if err != nil {
		return s.skipUnknown(ctx, err, "supplier order not found for tracking update")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"tracking_number": payload.TrackingNumber,
		"fulfilled_at":    now,
	}
	if payload.LogisticName != "" {
		updates["logistic_name"] = payload.LogisticName
	}
	if payload.TrackingURL != "" {
		updates["tracking_url"] = payload.TrackingURL
	}
	if err := s.repo.UpdateSupplierOrder(ctx, supplierOrder.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update supplier order tracking")
	}

	orderUpdates := map[string]any{
		"fulfillment_status": enums.FulfillmentStatusShipped,
		"tracking_number":    payload.TrackingNumber,
	}
	if payload.TrackingURL != "" {
		orderUpdates["tracking_url"] = payload.TrackingURL
	}
	if err := s.repo.UpdateOrderFulfillment(ctx, supplierOrder.OrderID, orderUpdates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mirror tracking onto order")
	}
	s.logg.Info(ctx, "supplier tracking applied")
	return nil
}

type inventoryPayload struct {
	SupplierProductID string `json:"pid"`
	SupplierVariantID string `json:"vid"`
	Stock             int    `json:"stock"`
}

func (s *Service) handleInventory(ctx context.Context, data json.RawMessage) error {
	var payload inventoryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode inventory payload")
	}
	if payload.SupplierProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier product id is required")
	}
	if payload.Stock < 0 {
		payload.Stock = 0
	}

	mapping, err := s.findMapping(ctx, payload.SupplierProductID, payload.SupplierVariantID)
	if err != nil {
		return s.skipUnknown(ctx, err, "no product mapping for inventory update")
	}

	err = s.repo.UpdateProduct(ctx, mapping.ProductID, map[string]any{
		"stock_quantity": payload.Stock,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product stock")
	}
	s.logg.Info(ctx, "supplier inventory applied")
	return nil
}

type pricePayload struct {
	SupplierProductID string  `json:"pid"`
	SupplierVariantID string  `json:"vid"`
	NewPrice          float64 `json:"newPrice"`
}

// handlePrice reprices a product from a new supplier cost: the seller ask is
// rebuilt from the mapping's markup and the retail price is re-derived so
// every participant's cut still comes out of the new total.
func (s *Service) handlePrice(ctx context.Context, data json.RawMessage) error {
	var payload pricePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode price payload")
	}
	if payload.SupplierProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier product id is required")
	}
	if payload.NewPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "new price must be non-negative")
	}

	mapping, err := s.findMapping(ctx, payload.SupplierProductID, payload.SupplierVariantID)
	if err != nil {
		return s.skipUnknown(ctx, err, "no product mapping for price update")
	}

	newCost := payload.NewPrice
	if newCost == 0 {
		if s.costs == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "price event carries no price")
		}
		cost, err := s.costs.QueryProductCost(ctx, payload.SupplierProductID, payload.SupplierVariantID)
		if err != nil {
			return err
		}
		newCost = cost.SellPrice
	}

	breakdown, err := pricing.Breakdown(newCost, mapping.MarkupPercent, mapping.AffiliatePercent)
	if err != nil {
		return err
	}

	err = s.repo.ApplyReprice(ctx, mapping.ID, newCost, &breakdown, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product mapping")
	}

	err = s.repo.UpdateProduct(ctx, mapping.ProductID, map[string]any{
		"price": breakdown.FinalPrice,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product price")
	}
	s.logg.Info(s.logg.WithField(ctx, "final_price", breakdown.FinalPrice),
		"supplier reprice applied")
	return nil
}

func (s *Service) findMapping(ctx context.Context, productID, variantID string) (*models.SupplierProductMapping, error) {
	var variant *string
	if variantID != "" {
		variant = &variantID
	}
	return s.repo.FindMapping(ctx, productID, variant)
}

// skipUnknown acknowledges events for records we do not track. Anything other
// than a clean miss is a real failure.
func (s *Service) skipUnknown(ctx context.Context, err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logg.Warn(ctx, msg)
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
