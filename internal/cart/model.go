package cart

import (
	"database/sql/driver"
	"time"

	"storefront-be/internal/db"

	"github.com/google/uuid"
)

// Identity names the owner of a cart: a registered user or a guest.
// The zero value means no owner was supplied.
type Identity struct {
	userID  uuid.UUID
	guestID string
}

func UserIdentity(id uuid.UUID) Identity {
	return Identity{userID: id}
}

func GuestIdentity(id string) Identity {
	return Identity{guestID: id}
}

func (i Identity) IsZero() bool {
	return i.userID == uuid.Nil && i.guestID == ""
}

func (i Identity) UserID() (uuid.UUID, bool) {
	return i.userID, i.userID != uuid.Nil
}

func (i Identity) GuestID() (string, bool) {
	return i.guestID, i.userID == uuid.Nil && i.guestID != ""
}

func (i Identity) String() string {
	if id, ok := i.UserID(); ok {
		return "user:" + id.String()
	}
	if id, ok := i.GuestID(); ok {
		return "guest:" + id
	}
	return "none"
}

func NewGuestID() string {
	return "guest_" + uuid.NewString()
}

// LineItem snapshots the product at the time it was added.
type LineItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Quantity  int       `json:"quantity"`
}

func (li LineItem) key() ItemKey {
	return ItemKey{ProductID: li.ProductID, Size: li.Size, Color: li.Color}
}

type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	return db.JSONValue(l)
}

func (l *LineItems) Scan(src any) error {
	return db.ScanJSON(src, l)
}

// ItemKey identifies a line item within a cart.
type ItemKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

type Cart struct {
	ID         uuid.UUID  `json:"_id"`
	UserID     *uuid.UUID `json:"user,omitempty"`
	GuestID    string     `json:"guestId,omitempty"`
	Products   LineItems  `json:"products"`
	TotalPrice float64    `json:"totalPrice"`
	Version    int        `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func newCart(owner Identity) *Cart {
	c := &Cart{Products: LineItems{}}
	if id, ok := owner.UserID(); ok {
		c.UserID = &id
	} else if guest, ok := owner.GuestID(); ok {
		c.GuestID = guest
	}
	return c
}

func (c *Cart) Recalculate() {
	var total float64
	for _, item := range c.Products {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalPrice = total
}

func (c *Cart) indexOf(key ItemKey) int {
	for i, item := range c.Products {
		if item.key() == key {
			return i
		}
	}
	return -1
}

// Add merges item into an existing line with the same key or appends it.
func (c *Cart) Add(item LineItem) {
	if i := c.indexOf(item.key()); i >= 0 {
		c.Products[i].Quantity += item.Quantity
	} else {
		c.Products = append(c.Products, item)
	}
	c.Recalculate()
}

// SetQuantity replaces the quantity of a line; a quantity of zero or less removes it.
func (c *Cart) SetQuantity(key ItemKey, quantity int) error {
	i := c.indexOf(key)
	if i < 0 {
		return ErrItemNotInCart
	}
	if quantity > 0 {
		c.Products[i].Quantity = quantity
	} else {
		c.Products = append(c.Products[:i], c.Products[i+1:]...)
	}
	c.Recalculate()
	return nil
}

func (c *Cart) Remove(key ItemKey) error {
	return c.SetQuantity(key, 0)
}

// Absorb folds every line of other into c, keeping the snapshots of other.
func (c *Cart) Absorb(other *Cart) {
	for _, item := range other.Products {
		c.Add(item)
	}
	c.Recalculate()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Products) == 0
}

type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

type UpdateItemInput struct {
	ItemKey
	Quantity int
}
