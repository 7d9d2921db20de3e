package order

import (
	"database/sql/driver"
	"time"

	"storefront-be/internal/db"

	"github.com/google/uuid"
)

const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

const PaymentStatusPaid = "paid"

type Item struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
}

type Items []Item

func (i Items) Value() (driver.Value, error) {
	if i == nil {
		i = Items{}
	}
	return db.JSONValue(i)
}

func (i *Items) Scan(src any) error {
	return db.ScanJSON(src, i)
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	return db.JSONValue(a)
}

func (a *ShippingAddress) Scan(src any) error {
	return db.ScanJSON(src, a)
}

// UserSummary is the customer shown alongside an order.
type UserSummary struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type Order struct {
	ID              uuid.UUID       `json:"_id"`
	User            UserSummary     `json:"user"`
	CheckoutID      uuid.UUID       `json:"checkout"`
	OrderItems      Items           `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentDetails  db.RawJSON      `json:"paymentDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.User.ID == userID
}

// ApplyStatus moves the order to status. Empty keeps the current status.
func (o *Order) ApplyStatus(status string, now time.Time) {
	if status == "" {
		return
	}
	o.Status = status
	if status == StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
}
