package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"cibn-digital-library/internal/cart"
	"cibn-digital-library/internal/middleware"
	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/response"
)

// CartHandler serves the member-scoped shopping cart endpoints.
type CartHandler struct {
	carts    *cart.Manager
	validate *validator.Validate
}

// NewCartHandler creates the cart handler.
func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
	}
}

// AddItemRequest is the POST /api/cart payload.
type AddItemRequest struct {
	ID           int                `json:"id" validate:"required,gt=0"`
	Title        string             `json:"title" validate:"required"`
	Type         models.ContentType `json:"type"`
	Price        int64              `json:"price" validate:"gte=0"`
	Instructor   string             `json:"instructor"`
	Duration     string             `json:"duration"`
	Image        string             `json:"image"`
	IsPremium    bool               `json:"isPremium"`
	IsRestricted bool               `json:"isRestricted"`
}

// UpdateItemRequest is the PATCH /api/cart/items/{id} payload.
type UpdateItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func (h *CartHandler) memberCart(r *http.Request) *cart.Store {
	claims := middleware.GetClaims(r.Context())
	return h.carts.For(claims.Subject)
}

// View returns the cart contents with recomputed totals.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	store := h.memberCart(r)
	response.Success(w, http.StatusOK, response.Envelope{
		"items":  store.Items(),
		"totals": store.Totals(),
	})
}

// AddItem puts a new item in the cart with quantity 1. Re-adding an id
// already in the cart leaves the existing entry untouched.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid cart item")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid cart item")
		return
	}
	if req.Type == "" {
		req.Type = models.ContentTypeDocument
	}

	store := h.memberCart(r)
	err := store.Add(models.CartItem{
		ID:           req.ID,
		Title:        req.Title,
		Type:         req.Type,
		Price:        req.Price,
		Instructor:   req.Instructor,
		Duration:     req.Duration,
		Image:        req.Image,
		IsPremium:    req.IsPremium,
		IsRestricted: req.IsRestricted,
	})
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	response.Success(w, http.StatusOK, response.Envelope{
		"items":  store.Items(),
		"totals": store.Totals(),
	})
}

// UpdateItem applies a signed quantity delta; a quantity driven to zero
// or below removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid quantity change")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid quantity change")
		return
	}

	store := h.memberCart(r)
	store.UpdateQuantity(id, req.Delta)

	response.Success(w, http.StatusOK, response.Envelope{
		"items":  store.Items(),
		"totals": store.Totals(),
	})
}

// RemoveItem deletes one item from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	store := h.memberCart(r)
	store.Remove(id)

	response.Success(w, http.StatusOK, response.Envelope{
		"items":  store.Items(),
		"totals": store.Totals(),
	})
}

// Clear empties the cart. The empty state is persisted, not just
// dropped from memory.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store := h.memberCart(r)
	store.Clear()

	response.Success(w, http.StatusOK, response.Envelope{
		"items":  store.Items(),
		"totals": store.Totals(),
	})
}
