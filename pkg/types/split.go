package types

// SplitLineItem is the cart snapshot a checkout intent carries for later
// order-item materialization.
type SplitLineItem struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

type SplitCart struct {
	LineItems []SplitLineItem `json:"line_items"`
}

// BreakdownCents is the cent-granular decomposition the ledger writer reads
// back after payment confirmation.
type BreakdownCents struct {
	ItemsSubtotalCents      int64 `json:"items_subtotal_cents"`
	SellerNetItemsCents     int64 `json:"seller_net_items_cents"`
	BeezioFeeCents          int64 `json:"beezio_fee_cents"`
	AffiliateFeeCents       int64 `json:"affiliate_fee_cents"`
	RefOrFundraiserFeeCents int64 `json:"ref_or_fundraiser_fee_cents"`
	TaxCents                int64 `json:"tax_cents"`
	ShippingCents           int64 `json:"shipping_cents"`
}

// SplitJSON is the opaque breakdown embedded in a checkout intent: the cart
// contents plus the computed split, frozen before the buyer pays.
type SplitJSON struct {
	Cart           SplitCart      `json:"cart"`
	BreakdownCents BreakdownCents `json:"breakdown_cents"`
}

// PriceBreakdown records how a supplier-driven reprice decomposed the new
// retail price. Persisted on the product mapping for seller dashboards.
type PriceBreakdown struct {
	SupplierCost      float64 `json:"supplier_cost"`
	MarkupPercent     float64 `json:"markup_percent"`
	SellerAsk         float64 `json:"seller_ask"`
	AffiliatePercent  float64 `json:"affiliate_percent"`
	AffiliateAmount   float64 `json:"affiliate_amount"`
	PlatformPercent   float64 `json:"platform_percent"`
	PlatformSurcharge float64 `json:"platform_surcharge"`
	PlatformGross     float64 `json:"platform_gross"`
	StripePercent     float64 `json:"stripe_percent"`
	StripeFixed       float64 `json:"stripe_fixed"`
	StripeFee         float64 `json:"stripe_fee"`
	FinalPrice        float64 `json:"final_price"`
}
