package prediction

import (
	"errors"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
)

// ErrDuplicate is returned by stores when a user already predicted the match.
var ErrDuplicate = errors.New("prediction already exists for user and match")

// Prediction is one user's predicted outcome for one match within a pool.
// PointsAwarded only ever moves from false to true.
type Prediction struct {
	ID            string
	UserID        string
	PoolID        string
	MatchID       int64
	Outcome       fixture.Outcome
	PointsAwarded bool
	CreatedAt     time.Time
}

// Points is the cumulative score of a user inside a pool.
type Points struct {
	UserID string
	PoolID string
	Points int
}
