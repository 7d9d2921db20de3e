package httpapi

import (
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/utils"
)

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.svc.Orders.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, order.ErrOrderNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) adminUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, order.ErrOrderNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req orderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	o, err := h.svc.Orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) adminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, order.ErrOrderNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Orders.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.MessageResponse{Message: "Order deleted successfully"})
}
