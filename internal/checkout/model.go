package checkout

import (
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/order"

	"github.com/google/uuid"
)

const PaymentStatusPending = "Pending"

type Checkout struct {
	ID              uuid.UUID             `json:"_id"`
	UserID          uuid.UUID             `json:"user"`
	CheckoutItems   order.Items           `json:"checkoutItems"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	TotalPrice      float64               `json:"totalPrice"`
	IsPaid          bool                  `json:"isPaid"`
	PaidAt          *time.Time            `json:"paidAt,omitempty"`
	PaymentStatus   string                `json:"paymentStatus"`
	PaymentDetails  db.RawJSON            `json:"paymentDetails,omitempty"`
	IsFinalized     bool                  `json:"isFinalized"`
	FinalizedAt     *time.Time            `json:"finalizedAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

type CreateInput struct {
	CheckoutItems   order.Items           `json:"checkoutItems"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	TotalPrice      float64               `json:"totalPrice"`
}

type PayInput struct {
	PaymentStatus  string     `json:"paymentStatus"`
	PaymentDetails db.RawJSON `json:"paymentDetails"`
}

// newCheckout snapshots the items so later edits to the input do not leak in.
func newCheckout(userID uuid.UUID, in CreateInput) *Checkout {
	items := make(order.Items, len(in.CheckoutItems))
	copy(items, in.CheckoutItems)
	return &Checkout{
		UserID:          userID,
		CheckoutItems:   items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		TotalPrice:      in.TotalPrice,
		PaymentStatus:   PaymentStatusPending,
	}
}

// CanFinalize returns nil when the checkout is paid and not yet converted.
func (c *Checkout) CanFinalize() error {
	if c.IsFinalized {
		return ErrAlreadyFinalized
	}
	if !c.IsPaid {
		return ErrNotPaid
	}
	return nil
}

// ToOrder builds the order a finalized checkout turns into.
func (c *Checkout) ToOrder() *order.Order {
	items := make(order.Items, len(c.CheckoutItems))
	copy(items, c.CheckoutItems)
	return &order.Order{
		User:            order.UserSummary{ID: c.UserID},
		CheckoutID:      c.ID,
		OrderItems:      items,
		ShippingAddress: c.ShippingAddress,
		PaymentMethod:   c.PaymentMethod,
		TotalPrice:      c.TotalPrice,
		IsPaid:          true,
		PaidAt:          c.PaidAt,
		IsDelivered:     false,
		Status:          order.StatusProcessing,
		PaymentStatus:   order.PaymentStatusPaid,
		PaymentDetails:  c.PaymentDetails,
	}
}
