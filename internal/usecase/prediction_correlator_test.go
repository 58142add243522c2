package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	predictionmock "github.com/NicolasVillafane/prodeApp/internal/mocks/domain/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionCorrelator_Correlate(t *testing.T) {
	t.Parallel()

	store := newFakePredictionStore(
		prediction.Prediction{ID: "pr-1", UserID: "u1", PoolID: "p1", MatchID: 1, Outcome: fixture.OutcomeHome},
		prediction.Prediction{ID: "pr-2", UserID: "u1", PoolID: "p1", MatchID: 2, Outcome: fixture.OutcomeHome},
		prediction.Prediction{ID: "pr-3", UserID: "u1", PoolID: "p1", MatchID: 3, Outcome: fixture.OutcomeDraw, PointsAwarded: true},
		prediction.Prediction{ID: "pr-4", UserID: "u1", PoolID: "p1", MatchID: 4, Outcome: fixture.OutcomeAway},
		prediction.Prediction{ID: "pr-other", UserID: "u2", PoolID: "p1", MatchID: 5, Outcome: fixture.OutcomeAway},
	)
	fixtures := []fixture.Fixture{
		finishedFixture(1, 7, fixture.OutcomeHome),
		finishedFixture(2, 7, fixture.OutcomeAway),
		finishedFixture(3, 7, fixture.OutcomeDraw),
		scheduledFixture(4, 7),
		finishedFixture(5, 7, fixture.OutcomeAway),
	}

	got, err := NewPredictionCorrelator(store, 2).Correlate(context.Background(), "p1", "u1", fixtures)
	require.NoError(t, err)
	require.Len(t, got.Rows, len(fixtures))

	for i, row := range got.Rows {
		assert.Equal(t, fixtures[i].ID, row.Fixture.ID, "rows keep fixture order")
	}

	require.NotNil(t, got.Rows[0].IsPredictionCorrect)
	assert.True(t, *got.Rows[0].IsPredictionCorrect)
	require.NotNil(t, got.Rows[1].IsPredictionCorrect)
	assert.False(t, *got.Rows[1].IsPredictionCorrect)
	require.NotNil(t, got.Rows[2].IsPredictionCorrect)
	assert.True(t, *got.Rows[2].IsPredictionCorrect)

	require.NotNil(t, got.Rows[3].Prediction)
	assert.Equal(t, fixture.OutcomeAway, *got.Rows[3].Prediction)
	assert.Nil(t, got.Rows[3].IsPredictionCorrect, "unfinished fixtures have no verdict")

	assert.Nil(t, got.Rows[4].Prediction)
	assert.Nil(t, got.Rows[4].IsPredictionCorrect)

	require.Len(t, got.Eligible, 1)
	assert.Equal(t, "pr-1", got.Eligible[0].Prediction.ID)
}

func TestPredictionCorrelator_FinishedWithoutWinnerIsIncorrect(t *testing.T) {
	t.Parallel()

	store := newFakePredictionStore(
		prediction.Prediction{ID: "pr-1", UserID: "u1", PoolID: "p1", MatchID: 1, Outcome: fixture.OutcomeHome},
	)
	fixtures := []fixture.Fixture{{ID: 1, Status: fixture.StatusFinished}}

	got, err := NewPredictionCorrelator(store, 1).Correlate(context.Background(), "p1", "u1", fixtures)
	require.NoError(t, err)
	require.NotNil(t, got.Rows[0].IsPredictionCorrect)
	assert.False(t, *got.Rows[0].IsPredictionCorrect)
	assert.Empty(t, got.Eligible)
}

func TestPredictionCorrelator_AnonymousViewerSkipsLookups(t *testing.T) {
	t.Parallel()

	repo := predictionmock.NewRepository(t)
	fixtures := []fixture.Fixture{finishedFixture(1, 1, fixture.OutcomeHome), scheduledFixture(2, 1)}

	got, err := NewPredictionCorrelator(repo, 4).Correlate(context.Background(), "p1", " ", fixtures)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	for _, row := range got.Rows {
		assert.Nil(t, row.Prediction)
		assert.Nil(t, row.IsPredictionCorrect)
	}
	assert.Empty(t, got.Eligible)
}

func TestPredictionCorrelator_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	errDB := errors.New("connection reset")
	store := newFakePredictionStore()
	store.findErr = errDB

	_, err := NewPredictionCorrelator(store, 3).Correlate(context.Background(), "p1", "u1",
		[]fixture.Fixture{scheduledFixture(1, 1), scheduledFixture(2, 1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
}
