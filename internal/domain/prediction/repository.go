package prediction

import "context"

type Repository interface {
	Find(ctx context.Context, userID string, matchID int64, poolID string) (Prediction, bool, error)
	// Insert returns ErrDuplicate when (user, match) already exists.
	Insert(ctx context.Context, p Prediction) error
	// AwardPoints atomically flips PointsAwarded and adds delta to the owner's pool total.
	// It reports false without touching totals when the flag was already set.
	AwardPoints(ctx context.Context, predictionID string, delta int) (bool, error)
	ListPoints(ctx context.Context, poolID string) ([]Points, error)
}
