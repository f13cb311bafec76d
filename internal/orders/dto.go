package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/beezio/beezio-backend/pkg/db/models"
	"github.com/beezio/beezio-backend/pkg/enums"
)

// CreateFromIntentInput carries the buyer and billing details the checkout
// session reported alongside the intent reference.
type CreateFromIntentInput struct {
	BuyerID         *uuid.UUID
	SessionID       *string
	PaymentIntentID *string
	BillingEmail    *string
	BillingName     *string
	BillingAddress  *string
	BillingCity     *string
	BillingState    *string
	BillingZip      *string
}

// OrderDTO is the read-surface shape dashboards consume.
type OrderDTO struct {
	ID                uuid.UUID               `json:"id"`
	CheckoutIntentID  uuid.UUID               `json:"checkout_intent_id"`
	SellerID          uuid.UUID               `json:"seller_id"`
	BuyerID           *uuid.UUID              `json:"buyer_id,omitempty"`
	Currency          enums.Currency          `json:"currency"`
	ItemsSubtotal     float64                 `json:"items_subtotal"`
	ShippingAmount    float64                 `json:"shipping_amount"`
	TaxAmount         float64                 `json:"tax_amount"`
	TotalAmount       float64                 `json:"total_amount"`
	Status            enums.OrderStatus       `json:"status"`
	PaymentStatus     enums.PaymentStatus     `json:"payment_status"`
	FulfillmentStatus enums.FulfillmentStatus `json:"fulfillment_status"`
	Items             []OrderItemDTO          `json:"items"`
	CreatedAt         time.Time               `json:"created_at"`
}

type OrderItemDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	VariantID  *string   `json:"variant_id,omitempty"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}

func toOrderDTO(order *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			VariantID:  item.VariantID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return OrderDTO{
		ID:                order.ID,
		CheckoutIntentID:  order.CheckoutIntentID,
		SellerID:          order.SellerID,
		BuyerID:           order.BuyerID,
		Currency:          order.Currency,
		ItemsSubtotal:     order.ItemsSubtotal,
		ShippingAmount:    order.ShippingAmount,
		TaxAmount:         order.TaxAmount,
		TotalAmount:       order.TotalAmount,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		Items:             items,
		CreatedAt:         order.CreatedAt,
	}
}
