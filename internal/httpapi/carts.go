package httpapi

import (
	"context"
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/cart"
	"storefront-be/internal/utils"
)

var errInvalidUserID = apperror.Validation("Invalid user ID")

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	GuestID   string `json:"guestId"`
	UserID    string `json:"userId"`
}

type mergeRequest struct {
	GuestID string `json:"guestId"`
}

// cartIdentity picks the cart owner: the authenticated user first, then an
// explicit userId, then guestId. No match yields the zero Identity.
func cartIdentity(ctx context.Context, userID, guestID string) (cart.Identity, error) {
	if id, ok := utils.GetUserIDFromContext(ctx); ok {
		return cart.UserIdentity(id), nil
	}
	id, ok, err := utils.ParseOptionalUUID(userID)
	if err != nil {
		return cart.Identity{}, errInvalidUserID
	}
	if ok {
		return cart.UserIdentity(id), nil
	}
	if guestID != "" {
		return cart.GuestIdentity(guestID), nil
	}
	return cart.Identity{}, nil
}

// itemKey parses the line item coordinates. A malformed product id cannot be
// in any cart, so it maps to invalid.
func (req cartItemRequest) itemKey(invalid error) (cart.ItemKey, error) {
	id, _, err := utils.ParseOptionalUUID(req.ProductID)
	if err != nil {
		return cart.ItemKey{}, invalid
	}
	return cart.ItemKey{ProductID: id, Size: req.Size, Color: req.Color}, nil
}

func (h *Handler) decodeCartItem(w http.ResponseWriter, r *http.Request, invalid error) (cart.Identity, cart.ItemKey, int, bool) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return cart.Identity{}, cart.ItemKey{}, 0, false
	}
	owner, err := cartIdentity(r.Context(), req.UserID, req.GuestID)
	if err != nil {
		writeError(w, r, err)
		return cart.Identity{}, cart.ItemKey{}, 0, false
	}
	key, err := req.itemKey(invalid)
	if err != nil {
		writeError(w, r, err)
		return cart.Identity{}, cart.ItemKey{}, 0, false
	}
	return owner, key, req.Quantity, true
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	owner, key, quantity, ok := h.decodeCartItem(w, r, cart.ErrProductNotFound)
	if !ok {
		return
	}

	c, created, err := h.svc.Carts.AddItem(r.Context(), owner, cart.AddItemInput{
		ProductID: key.ProductID,
		Quantity:  quantity,
		Size:      key.Size,
		Color:     key.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, status, c)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	owner, key, quantity, ok := h.decodeCartItem(w, r, cart.ErrItemNotInCart)
	if !ok {
		return
	}

	c, err := h.svc.Carts.UpdateItem(r.Context(), owner, cart.UpdateItemInput{ItemKey: key, Quantity: quantity})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	owner, key, _, ok := h.decodeCartItem(w, r, cart.ErrItemNotInCart)
	if !ok {
		return
	}

	c, err := h.svc.Carts.RemoveItem(r.Context(), owner, key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner, err := cartIdentity(r.Context(), q.Get("userId"), q.Get("guestId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Carts.GetCart(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) mergeCart(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	c, err := h.svc.Carts.MergeGuestCart(r.Context(), req.GuestID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}
