package httpapi

import (
	"net/http"

	"storefront-be/internal/checkout"
	"storefront-be/internal/utils"
)

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request) {
	var in checkout.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())

	c, err := h.svc.Checkouts.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, checkout.ErrCheckoutNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Checkouts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) payCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, checkout.ErrCheckoutNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in checkout.PayInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Checkouts.MarkPaid(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) finalizeCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, checkout.ErrCheckoutNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.Checkouts.Finalize(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}
