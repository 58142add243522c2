package httpapi

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID, err := parseCompetitionID(r.PathValue("competitionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attribute.Int64("competition.id", competitionID))

	item, err := h.competitions.Get(ctx, competitionID)
	if err != nil {
		h.logRequestError(ctx, "GetCompetition", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toCompetitionDTO(item))
}

func (h *Handler) ListCompetitionTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitionTeams")
	defer span.End()

	competitionID, err := parseCompetitionID(r.PathValue("competitionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attribute.Int64("competition.id", competitionID))

	items, err := h.competitions.ListTeams(ctx, competitionID)
	if err != nil {
		h.logRequestError(ctx, "ListCompetitionTeams", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toTeamDTOs(items))
}

func (h *Handler) ListCompetitionMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitionMatches")
	defer span.End()

	competitionID, err := parseCompetitionID(r.PathValue("competitionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attribute.Int64("competition.id", competitionID))

	items, err := h.competitions.ListMatches(ctx, competitionID)
	if err != nil {
		h.logRequestError(ctx, "ListCompetitionMatches", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toMatchDTOs(items))
}
