package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront-be/internal/apperror"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"
)

var errInvalidFilter = apperror.Validation("Invalid product filter")

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseFloatParam(q url.Values, name string) (*float64, error) {
	v := q.Get(name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errInvalidFilter
	}
	return &f, nil
}

// productFilter maps the catalog query string. size, material and brand
// accept comma-separated lists.
func productFilter(q url.Values) (product.Filter, error) {
	f := product.Filter{
		Collection: q.Get("collection"),
		Sizes:      splitList(q.Get("size")),
		Color:      q.Get("color"),
		Gender:     q.Get("gender"),
		SortBy:     q.Get("sortBy"),
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		Materials:  splitList(q.Get("material")),
		Brands:     splitList(q.Get("brand")),
	}

	var err error
	if f.MinPrice, err = parseFloatParam(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseFloatParam(q, "maxPrice"); err != nil {
		return f, err
	}
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil {
			return f, errInvalidFilter
		}
	}
	return f, nil
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	f, err := productFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	products, err := h.svc.Products.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products.List(r.Context(), product.Filter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, product.ErrProductNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.Products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) bestSeller(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Products.BestSeller(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) newArrivals(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products.NewArrivals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) similarProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, product.ErrProductNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	products, err := h.svc.Products.Similar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in product.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	creator, _ := utils.GetUserIDFromContext(r.Context())

	p, err := h.svc.Products.Create(r.Context(), creator, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, product.ErrProductNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in product.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.Products.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, product.ErrProductNotFound)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.MessageResponse{Message: "Product removed"})
}
