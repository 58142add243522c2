package httpapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

func (h *Handler) GetPoolView(w http.ResponseWriter, r *http.Request) {
	poolID := r.PathValue("poolID")
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPoolView", attribute.String("pool.id", poolID))
	defer span.End()

	view, err := h.poolViews.GetPoolView(ctx, poolID, viewerFromContext(ctx).UserID)
	if err != nil {
		h.logRequestError(ctx, "GetPoolView", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPoolViewDTO(view))
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	var req submitPredictionRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictions.Submit(ctx, usecase.SubmitPredictionInput{
		PoolID:     r.PathValue("poolID"),
		BodyPoolID: req.PoolID,
		MatchID:    req.MatchID,
		UserID:     req.UserID,
		Outcome:    req.PredictedResult,
	})
	if err != nil {
		h.logRequestError(ctx, "SubmitPrediction", err)
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attribute.String("prediction.id", item.ID))
	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Prediction submitted successfully"})
}
