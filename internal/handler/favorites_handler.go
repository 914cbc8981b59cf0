package handler

import (
	"errors"
	"ir-portal/internal/favorites"
	"ir-portal/internal/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// FavoritesHandler exposes the visitor's session favorites.
type FavoritesHandler struct {
	store *favorites.Store
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(store *favorites.Store) *FavoritesHandler {
	return &FavoritesHandler{store: store}
}

type favoriteRequest struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

func favoriteError(err error) *middleware.AppError {
	if errors.Is(err, favorites.ErrInvalidItem) {
		return badRequest(err.Error())
	}
	return serviceError(err, "Favorite")
}

func (h *FavoritesHandler) list(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	typ := r.URL.Query().Get("type")
	if typ != "" && !favorites.ValidType(typ) {
		return badRequest("type must be one of article, analysis, podcast, module")
	}
	return ok(w, h.store.List(r.Context(), typ))
}

func (h *FavoritesHandler) add(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req favoriteRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	items, err := h.store.Add(r.Context(), req.ID, req.Type, req.Title)
	if err != nil {
		return favoriteError(err)
	}
	return ok(w, items)
}

func (h *FavoritesHandler) toggle(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req favoriteRequest
	if appErr := decodeJSON(w, r, &req); appErr != nil {
		return appErr
	}
	added, items, err := h.store.Toggle(r.Context(), req.ID, req.Type, req.Title)
	if err != nil {
		return favoriteError(err)
	}
	return ok(w, map[string]interface{}{"favorited": added, "items": items})
}

func (h *FavoritesHandler) remove(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	items, err := h.store.Remove(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "type"))
	if err != nil {
		return favoriteError(err)
	}
	return ok(w, items)
}

func (h *FavoritesHandler) clear(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	h.store.Clear(r.Context())
	return message(w, "Favorites cleared")
}
