package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

type Handler struct {
	poolViews    *usecase.PoolViewService
	predictions  *usecase.PredictionService
	pools        *usecase.PoolService
	competitions *usecase.CompetitionService
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	poolViews *usecase.PoolViewService,
	predictions *usecase.PredictionService,
	pools *usecase.PoolService,
	competitions *usecase.CompetitionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		poolViews:    poolViews,
		predictions:  predictions,
		pools:        pools,
		competitions: competitions,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) logRequestError(ctx context.Context, op string, err error) {
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed", "operation", op, "error", err)
		return
	}
	h.logger.WarnContext(ctx, "request rejected", "operation", op, "error", err)
}

func parseCompetitionID(raw string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: invalid competition id %q", usecase.ErrInvalidInput, raw)
	}
	return value, nil
}

// firstNonEmpty lets a request body override the forwarded viewer identity.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
