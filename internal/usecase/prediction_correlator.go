package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
)

const defaultLookupWorkers = 8

// MatchRow pairs a fixture with the viewer's prediction for it.
// IsPredictionCorrect stays nil until the fixture is finished and predicted.
type MatchRow struct {
	Fixture             fixture.Fixture
	Prediction          *fixture.Outcome
	IsPredictionCorrect *bool
}

// AwardCandidate is a correct prediction on a finished fixture that has not been paid yet.
type AwardCandidate struct {
	Prediction prediction.Prediction
	Fixture    fixture.Fixture
}

type Correlation struct {
	Rows     []MatchRow
	Eligible []AwardCandidate
}

// PredictionCorrelator looks up one prediction per fixture. It never writes.
type PredictionCorrelator struct {
	predictions prediction.Repository
	workers     int
}

func NewPredictionCorrelator(predictions prediction.Repository, workers int) *PredictionCorrelator {
	if workers < 1 {
		workers = defaultLookupWorkers
	}
	return &PredictionCorrelator{
		predictions: predictions,
		workers:     workers,
	}
}

func (c *PredictionCorrelator) Correlate(ctx context.Context, poolID, userID string, fixtures []fixture.Fixture) (Correlation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionCorrelator.Correlate",
		attribute.String("pool.id", poolID),
		attribute.Int("fixtures", len(fixtures)),
	)
	defer span.End()

	rows := make([]MatchRow, len(fixtures))
	for i, f := range fixtures {
		rows[i] = MatchRow{Fixture: f}
	}

	userID = strings.TrimSpace(userID)
	if userID == "" || len(fixtures) == 0 {
		return Correlation{Rows: rows}, nil
	}

	found, err := c.lookup(ctx, poolID, userID, fixtures)
	if err != nil {
		recordSpanError(span, err)
		return Correlation{}, err
	}

	var eligible []AwardCandidate
	for i, f := range fixtures {
		p := found[i]
		if p == nil {
			continue
		}
		outcome := p.Outcome
		rows[i].Prediction = &outcome
		if !f.IsFinished() {
			continue
		}

		correct := f.Winner != "" && outcome == f.Winner
		rows[i].IsPredictionCorrect = &correct
		if correct && !p.PointsAwarded {
			eligible = append(eligible, AwardCandidate{Prediction: *p, Fixture: f})
		}
	}

	span.SetAttributes(attribute.Int("eligible", len(eligible)))
	return Correlation{Rows: rows, Eligible: eligible}, nil
}

// lookup fetches predictions on a bounded pool, keeping results aligned with fixtures.
func (c *PredictionCorrelator) lookup(ctx context.Context, poolID, userID string, fixtures []fixture.Fixture) ([]*prediction.Prediction, error) {
	workers := c.workers
	if workers > len(fixtures) {
		workers = len(fixtures)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create lookup pool: %w", err)
	}
	defer pool.Release()

	found := make([]*prediction.Prediction, len(fixtures))
	errs := make([]error, len(fixtures))

	var wg sync.WaitGroup
	for i := range fixtures {
		idx := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			p, ok, err := c.predictions.Find(ctx, userID, fixtures[idx].ID, poolID)
			if err != nil {
				errs[idx] = fmt.Errorf("find prediction for match %d: %w", fixtures[idx].ID, err)
				return
			}
			if ok {
				found[idx] = &p
			}
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit prediction lookup: %w", err)
		}
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return found, nil
}
