package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront-be/internal/apperror"
	"storefront-be/internal/cart"
	"storefront-be/internal/checkout"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/subscriber"
	"storefront-be/internal/upload"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgInternal = "Internal server error"

var errInvalidBody = apperror.Validation("Invalid request body")

type Services struct {
	Users       user.Service
	Products    product.Service
	Carts       cart.Service
	Checkouts   checkout.Service
	Orders      order.Service
	Subscribers subscriber.Service
	Images      upload.Storage
}

type Handler struct {
	svc     Services
	metrics *metrics.Registry
}

func NewHandler(svc Services, registry *metrics.Registry) *Handler {
	if svc.Images == nil {
		svc.Images = upload.Disabled{}
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	return &Handler{svc: svc, metrics: registry}
}

// writeError responds with the domain message of err. Internal failures are
// logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.WriteJSONError(w, apperror.PublicMessage(err, msgInternal), status)
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody
}

// pathID parses the {id} URL parameter. Malformed ids cannot match a record,
// so they are reported as notFound.
func pathID(r *http.Request, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "OK",
		"metrics": h.metrics.Snapshot(),
	})
}
