package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
)

type predictionKey struct {
	userID  string
	matchID int64
}

type pointsKey struct {
	userID string
	poolID string
}

// PredictionRepository keeps predictions and pool totals behind one lock so
// uniqueness and the award flip are atomic.
type PredictionRepository struct {
	mu      sync.RWMutex
	items   map[string]prediction.Prediction
	byMatch map[predictionKey]string
	points  map[pointsKey]int
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{
		items:   make(map[string]prediction.Prediction),
		byMatch: make(map[predictionKey]string),
		points:  make(map[pointsKey]int),
	}
}

func (r *PredictionRepository) Find(_ context.Context, userID string, matchID int64, poolID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byMatch[predictionKey{userID: userID, matchID: matchID}]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	p := r.items[id]
	if p.PoolID != poolID {
		return prediction.Prediction{}, false, nil
	}
	return p, true, nil
}

func (r *PredictionRepository) Insert(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := predictionKey{userID: p.UserID, matchID: p.MatchID}
	if _, exists := r.byMatch[key]; exists {
		return fmt.Errorf("%w: user=%s match=%d", prediction.ErrDuplicate, p.UserID, p.MatchID)
	}
	p.PointsAwarded = false
	r.items[p.ID] = p
	r.byMatch[key] = p.ID
	return nil
}

func (r *PredictionRepository) AwardPoints(_ context.Context, predictionID string, delta int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[predictionID]
	if !ok || p.PointsAwarded {
		return false, nil
	}
	p.PointsAwarded = true
	r.items[predictionID] = p
	r.points[pointsKey{userID: p.UserID, poolID: p.PoolID}] += delta
	return true, nil
}

func (r *PredictionRepository) ListPoints(_ context.Context, poolID string) ([]prediction.Points, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Points, 0)
	for key, points := range r.points {
		if key.poolID != poolID {
			continue
		}
		out = append(out, prediction.Points{UserID: key.userID, PoolID: key.poolID, Points: points})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
