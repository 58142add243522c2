package httpapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPools")
	defer span.End()

	items, err := h.pools.ListVisible(ctx, viewerFromContext(ctx).UserID)
	if err != nil {
		h.logRequestError(ctx, "ListPools", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPoolDTOs(items))
}

func (h *Handler) CreatePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePool")
	defer span.End()

	var req createPoolRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	who := viewerFromContext(ctx)
	req.UserID = firstNonEmpty(req.UserID, who.UserID)
	req.Username = firstNonEmpty(req.Username, who.Username)
	req.Email = firstNonEmpty(req.Email, who.Email)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.pools.Create(ctx, usecase.CreatePoolInput{
		Name:            req.Name,
		CompetitionID:   req.CompetitionID,
		CompetitionName: req.CompetitionName,
		IsPublic:        req.IsPublic,
		OwnerID:         req.UserID,
		OwnerName:       req.Username,
		OwnerEmail:      req.Email,
	})
	if err != nil {
		h.logRequestError(ctx, "CreatePool", err)
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attribute.String("pool.id", item.ID))
	writeSuccess(ctx, w, http.StatusCreated, toPoolDTO(item))
}

func (h *Handler) JoinPool(w http.ResponseWriter, r *http.Request) {
	poolID := r.PathValue("poolID")
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinPool", attribute.String("pool.id", poolID))
	defer span.End()

	var req joinPoolRequest
	if r.ContentLength != 0 {
		if err := h.decodeJSON(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}
	who := viewerFromContext(ctx)
	req.UserID = firstNonEmpty(req.UserID, who.UserID)
	req.Username = firstNonEmpty(req.Username, who.Username)
	req.Email = firstNonEmpty(req.Email, who.Email)
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.pools.Join(ctx, usecase.JoinPoolInput{
		PoolID:   poolID,
		UserID:   req.UserID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.logRequestError(ctx, "JoinPool", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPoolDTO(item))
}

func (h *Handler) DeletePool(w http.ResponseWriter, r *http.Request) {
	poolID := r.PathValue("poolID")
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePool", attribute.String("pool.id", poolID))
	defer span.End()

	if err := h.pools.Delete(ctx, poolID, viewerFromContext(ctx).UserID); err != nil {
		h.logRequestError(ctx, "DeletePool", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Prode deleted successfully"})
}
