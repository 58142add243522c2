package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	qb "github.com/NicolasVillafane/prodeApp/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db, now: time.Now}
}

func (r *PredictionRepository) Find(ctx context.Context, userID string, matchID int64, poolID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select(predictionColumns...).From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("pool_id", poolID),
			qb.Eq("match_id", matchID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build find prediction query: %w", err)
	}

	var row predictionTableModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("find prediction: %w", err)
	}
	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) Insert(ctx context.Context, p prediction.Prediction) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}
	insertModel := predictionTableModel{
		ID:              p.ID,
		UserID:          p.UserID,
		PoolID:          p.PoolID,
		MatchID:         p.MatchID,
		PredictedResult: string(p.Outcome),
		PointsAwarded:   false,
		CreatedAt:       createdAt,
	}
	query, args, err := qb.InsertModel("predictions", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user=%s match=%d", prediction.ErrDuplicate, p.UserID, p.MatchID)
		}
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// AwardPoints flips the flag and bumps the pool total in one transaction.
// The conditional UPDATE guarantees that concurrent callers award at most once.
func (r *PredictionRepository) AwardPoints(ctx context.Context, predictionID string, delta int) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx award points: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	flagQuery, flagArgs, err := qb.Update("predictions").
		Set("points_awarded", true).
		Where(
			qb.Eq("id", predictionID),
			qb.Eq("points_awarded", false),
		).
		Suffix("RETURNING user_id, pool_id").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build award flag query: %w", err)
	}

	var owner struct {
		UserID string `db:"user_id"`
		PoolID string `db:"pool_id"`
	}
	if err := tx.GetContext(ctx, &owner, flagQuery, flagArgs...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("flip award flag prediction=%s: %w", predictionID, err)
	}

	pointsModel := poolPointsTableModel{
		UserID:    owner.UserID,
		PoolID:    owner.PoolID,
		Points:    delta,
		UpdatedAt: r.now().UTC(),
	}
	pointsQuery, pointsArgs, err := qb.InsertModel("pool_points", pointsModel,
		"ON CONFLICT (user_id, pool_id) DO UPDATE SET points = pool_points.points + EXCLUDED.points, updated_at = EXCLUDED.updated_at")
	if err != nil {
		return false, fmt.Errorf("build upsert pool points query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, pointsQuery, pointsArgs...); err != nil {
		return false, fmt.Errorf("upsert pool points user=%s pool=%s: %w", owner.UserID, owner.PoolID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit award points tx: %w", err)
	}
	return true, nil
}

func (r *PredictionRepository) ListPoints(ctx context.Context, poolID string) ([]prediction.Points, error) {
	query, args, err := qb.Select(poolPointsColumns...).From("pool_points").
		Where(qb.Eq("pool_id", poolID)).
		OrderBy("points DESC", "user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pool points query: %w", err)
	}

	var rows []poolPointsTableModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list pool points: %w", err)
	}

	out := make([]prediction.Points, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Points{UserID: row.UserID, PoolID: row.PoolID, Points: row.Points})
	}
	return out, nil
}
