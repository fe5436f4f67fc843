package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minhpv/product-events/internal/apperr"
	"github.com/minhpv/product-events/internal/service"
	"github.com/minhpv/product-events/pkg/validator"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type productHandler struct {
	productSvc service.ProductService
	validator  validator.Validator
	logger     *slog.Logger
}

func newProductHandler(productSvc service.ProductService, v validator.Validator, logger *slog.Logger) *productHandler {
	return &productHandler{
		productSvc: productSvc,
		validator:  v,
		logger:     logger,
	}
}

type createProductRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Price float64 `json:"price" validate:"required,gte=0.01"`
}

func (h *productHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	product, err := h.productSvc.Create(r.Context(), service.CreateProductParams{
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(h.logger, w, r, http.StatusCreated, product)
}

type listProductsQuery struct {
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1,lte=100"`
}

func (h *productHandler) list(w http.ResponseWriter, r *http.Request) {
	query := listProductsQuery{
		Page:  defaultPage,
		Limit: defaultLimit,
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(h.logger, w, r, apperr.ValidationErr.WrapParent(err))
			return
		}
		query.Page = page
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(h.logger, w, r, apperr.ValidationErr.WrapParent(err))
			return
		}
		query.Limit = limit
	}

	if err := h.validator.Validate(query); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.productSvc.List(r.Context(), service.ListProductsParams{
		Page:  query.Page,
		Limit: query.Limit,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(h.logger, w, r, http.StatusOK, result)
}

func (h *productHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(h.logger, w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	if err := h.productSvc.Delete(r.Context(), id); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
