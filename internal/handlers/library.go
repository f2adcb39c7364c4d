package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cibn-digital-library/internal/middleware"
	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/response"
	"cibn-digital-library/internal/storage"
)

// LibraryHandler serves the member-scoped purchased-content cache and
// favorites endpoints. Purchases cached here are a convenience
// projection; the backend order records stay authoritative.
type LibraryHandler struct {
	session    storage.Store
	persistent storage.Store
}

// NewLibraryHandler creates the library handler over the two storage
// scopes.
func NewLibraryHandler(session, persistent storage.Store) *LibraryHandler {
	return &LibraryHandler{session: session, persistent: persistent}
}

func (h *LibraryHandler) cacheFor(r *http.Request) *storage.PurchasedCache {
	memberID := middleware.GetClaims(r.Context()).Subject
	return storage.NewPurchasedCache(
		storage.NewScoped(h.session, memberID),
		storage.NewScoped(h.persistent, memberID),
	)
}

func (h *LibraryHandler) favoritesFor(r *http.Request) *storage.Favorites {
	memberID := middleware.GetClaims(r.Context()).Subject
	return storage.NewFavorites(storage.NewScoped(h.persistent, memberID))
}

// Purchases returns the member's cached purchased content.
func (h *LibraryHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, response.Envelope{
		"content": h.cacheFor(r).GetPurchasedContent(),
	})
}

// StorePurchases replaces the member's purchased-content cache with the
// reduced projection of the posted items.
func (h *LibraryHandler) StorePurchases(w http.ResponseWriter, r *http.Request) {
	var items []models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil || items == nil {
		response.Error(w, http.StatusBadRequest, "Expected a content list")
		return
	}

	if !h.cacheFor(r).StorePurchasedContent(items) {
		response.Error(w, http.StatusInternalServerError, "Failed to store purchased content")
		return
	}
	response.Success(w, http.StatusOK, nil)
}

// Favorites returns the member's favorite content ids.
func (h *LibraryHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, response.Envelope{
		"favorites": h.favoritesFor(r).List(),
	})
}

// AddFavorite stars a content id.
func (h *LibraryHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid content id")
		return
	}
	if !h.favoritesFor(r).Add(id) {
		response.Error(w, http.StatusInternalServerError, "Failed to store favorite")
		return
	}
	response.Success(w, http.StatusOK, response.Envelope{
		"favorites": h.favoritesFor(r).List(),
	})
}

// RemoveFavorite unstars a content id.
func (h *LibraryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid content id")
		return
	}
	if !h.favoritesFor(r).Remove(id) {
		response.Error(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}
	response.Success(w, http.StatusOK, response.Envelope{
		"favorites": h.favoritesFor(r).List(),
	})
}
