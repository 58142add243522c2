package postgres

import (
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	qb "github.com/NicolasVillafane/prodeApp/internal/platform/querybuilder"
)

var (
	predictionColumns = qb.MustColumns(predictionTableModel{})
	poolPointsColumns = qb.MustColumns(poolPointsTableModel{})
)

type predictionTableModel struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	PoolID          string    `db:"pool_id"`
	MatchID         int64     `db:"match_id"`
	PredictedResult string    `db:"predicted_result"`
	PointsAwarded   bool      `db:"points_awarded"`
	CreatedAt       time.Time `db:"created_at"`
}

type poolPointsTableModel struct {
	UserID    string    `db:"user_id"`
	PoolID    string    `db:"pool_id"`
	Points    int       `db:"points"`
	UpdatedAt time.Time `db:"updated_at"`
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:            row.ID,
		UserID:        row.UserID,
		PoolID:        row.PoolID,
		MatchID:       row.MatchID,
		Outcome:       fixture.Outcome(row.PredictedResult),
		PointsAwarded: row.PointsAwarded,
		CreatedAt:     row.CreatedAt,
	}
}
