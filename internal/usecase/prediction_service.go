package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	"github.com/NicolasVillafane/prodeApp/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
)

// ViewInvalidator drops cached pool views after a write. A nil invalidator keeps TTL-only expiry.
type ViewInvalidator interface {
	InvalidatePool(ctx context.Context, poolID string)
}

type SubmitPredictionInput struct {
	PoolID     string
	BodyPoolID string
	MatchID    int64
	UserID     string
	Outcome    string
}

type PredictionService struct {
	pools       pool.Repository
	predictions prediction.Repository
	idGen       id.Generator
	invalidator ViewInvalidator
	now         func() time.Time
}

func NewPredictionService(
	pools pool.Repository,
	predictions prediction.Repository,
	idGen id.Generator,
	invalidator ViewInvalidator,
) *PredictionService {
	return &PredictionService{
		pools:       pools,
		predictions: predictions,
		idGen:       idGen,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit",
		attribute.String("pool.id", input.PoolID),
		attribute.Int64("match.id", input.MatchID),
	)
	defer span.End()

	poolID := strings.TrimSpace(input.PoolID)
	userID := strings.TrimSpace(input.UserID)
	switch {
	case poolID == "":
		return prediction.Prediction{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	case userID == "":
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	case input.MatchID <= 0:
		return prediction.Prediction{}, fmt.Errorf("%w: match id must be > 0", ErrInvalidInput)
	}
	if body := strings.TrimSpace(input.BodyPoolID); body != "" && body != poolID {
		return prediction.Prediction{}, fmt.Errorf("%w: body pool id %s does not match path pool id %s", ErrInvalidInput, body, poolID)
	}
	outcome, err := fixture.ParseOutcome(input.Outcome)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, exists, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	if !p.HasMember(userID) {
		return prediction.Prediction{}, fmt.Errorf("%w: user=%s is not a member of pool=%s", ErrForbidden, userID, poolID)
	}

	predictionID, err := s.idGen.NewID()
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("generate prediction id: %w", err)
	}

	item := prediction.Prediction{
		ID:        predictionID,
		UserID:    userID,
		PoolID:    poolID,
		MatchID:   input.MatchID,
		Outcome:   outcome,
		CreatedAt: s.now().UTC(),
	}
	if err := s.predictions.Insert(ctx, item); err != nil {
		if errors.Is(err, prediction.ErrDuplicate) {
			return prediction.Prediction{}, fmt.Errorf("%w: user=%s match=%d", ErrDuplicatePrediction, userID, input.MatchID)
		}
		recordSpanError(span, err)
		return prediction.Prediction{}, fmt.Errorf("insert prediction: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidatePool(ctx, poolID)
	}
	return item, nil
}
