package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPointsPerCorrectPrediction = 3
	defaultAwardWorkers               = 4
)

type AwardSummary struct {
	Awarded int
	Skipped int
}

// PointsAwarder pays a correct prediction at most once. The exactly-once
// guarantee lives in the store's conditional write, so concurrent viewers are safe.
type PointsAwarder struct {
	predictions prediction.Repository
	reward      int
	workers     int
	logger      *logging.Logger
}

func NewPointsAwarder(predictions prediction.Repository, reward, workers int, logger *logging.Logger) *PointsAwarder {
	if reward < 1 {
		reward = DefaultPointsPerCorrectPrediction
	}
	if workers < 1 {
		workers = defaultAwardWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PointsAwarder{
		predictions: predictions,
		reward:      reward,
		workers:     workers,
		logger:      logger,
	}
}

// Award reports whether this call paid the prediction.
func (a *PointsAwarder) Award(ctx context.Context, candidate AwardCandidate) (bool, error) {
	p := candidate.Prediction
	f := candidate.Fixture
	if p.PointsAwarded || !f.IsFinished() || f.Winner == "" || p.Outcome != f.Winner {
		return false, nil
	}

	awarded, err := a.predictions.AwardPoints(ctx, p.ID, a.reward)
	if err != nil {
		return false, fmt.Errorf("award points for prediction %s: %w", p.ID, err)
	}
	if awarded {
		a.logger.InfoContext(ctx, "points awarded",
			"prediction_id", p.ID,
			"user_id", p.UserID,
			"pool_id", p.PoolID,
			"match_id", p.MatchID,
			"points", a.reward,
		)
	}
	return awarded, nil
}

// AwardAll runs every candidate and returns the joined storage errors, if any.
func (a *PointsAwarder) AwardAll(ctx context.Context, candidates []AwardCandidate) (AwardSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PointsAwarder.AwardAll", attribute.Int("candidates", len(candidates)))
	defer span.End()

	if len(candidates) == 0 {
		return AwardSummary{}, nil
	}

	var awarded, skipped atomic.Int32
	p := pool.New().WithMaxGoroutines(a.workers).WithContext(ctx)
	for _, candidate := range candidates {
		candidate := candidate
		p.Go(func(ctx context.Context) error {
			ok, err := a.Award(ctx, candidate)
			if err != nil {
				return err
			}
			if ok {
				awarded.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	err := p.Wait()

	summary := AwardSummary{Awarded: int(awarded.Load()), Skipped: int(skipped.Load())}
	span.SetAttributes(attribute.Int("awarded", summary.Awarded), attribute.Int("skipped", summary.Skipped))
	if err != nil {
		recordSpanError(span, err)
		return summary, err
	}
	return summary, nil
}
