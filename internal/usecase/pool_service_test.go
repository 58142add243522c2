package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	fixturemock "github.com/NicolasVillafane/prodeApp/internal/mocks/domain/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPoolService_CreateJoinsOwner(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	source.On("GetCompetition", mock.Anything, int64(2021)).
		Return(fixture.Competition{ID: 2021, Name: "Premier League"}, nil).
		Once()

	store := newFakePoolStore()
	svc := NewPoolService(store, source, &sequenceIDs{prefix: "pool"}, nil)

	created, err := svc.Create(context.Background(), CreatePoolInput{
		Name:          " Friday prode ",
		CompetitionID: 2021,
		OwnerID:       "owner",
		OwnerName:     "Owner",
		OwnerEmail:    "owner@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "pool-1", created.ID)
	assert.Equal(t, "Friday prode", created.Name)
	assert.Equal(t, "Premier League", created.CompetitionName)
	require.Len(t, created.Members, 1)
	assert.Equal(t, "owner", created.Members[0].UserID)

	stored, ok, err := store.GetByID(context.Background(), "pool-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.HasMember("owner"))
}

func TestPoolService_CreateKeepsGivenCompetitionName(t *testing.T) {
	t.Parallel()

	source := fixturemock.NewSource(t)
	svc := NewPoolService(newFakePoolStore(), source, &sequenceIDs{prefix: "pool"}, nil)

	created, err := svc.Create(context.Background(), CreatePoolInput{
		Name: "Copa", CompetitionID: 2152, CompetitionName: "Copa Libertadores", OwnerID: "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "Copa Libertadores", created.CompetitionName)
}

func TestPoolService_CreateValidation(t *testing.T) {
	t.Parallel()

	svc := NewPoolService(newFakePoolStore(), nil, &sequenceIDs{prefix: "pool"}, nil)
	for _, input := range []CreatePoolInput{
		{CompetitionID: 1, OwnerID: "o"},
		{Name: "x", OwnerID: "o"},
		{Name: "x", CompetitionID: 1},
	} {
		_, err := svc.Create(context.Background(), input)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestPoolService_ListVisibleDeduplicates(t *testing.T) {
	t.Parallel()

	private := pool.Pool{ID: "private", OwnerID: "u1", Members: []pool.Member{{UserID: "u1"}}}
	publicJoined := pool.Pool{ID: "public-joined", IsPublic: true, OwnerID: "x", Members: []pool.Member{{UserID: "x"}, {UserID: "u1"}}}
	publicOther := pool.Pool{ID: "public-other", IsPublic: true, OwnerID: "y", Members: []pool.Member{{UserID: "y"}}}
	hidden := pool.Pool{ID: "hidden", OwnerID: "z", Members: []pool.Member{{UserID: "z"}}}

	svc := NewPoolService(newFakePoolStore(private, publicJoined, publicOther, hidden), nil, &sequenceIDs{}, nil)

	got, err := svc.ListVisible(context.Background(), "u1")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"private", "public-joined", "public-other"}, ids)

	anon, err := svc.ListVisible(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, anon, 2)
}

func TestPoolService_Join(t *testing.T) {
	t.Parallel()

	public := testPool()
	private := pool.Pool{ID: "secret", OwnerID: "owner", Members: []pool.Member{{UserID: "owner"}}}
	store := newFakePoolStore(public, private)
	spy := &spyInvalidator{}
	svc := NewPoolService(store, nil, &sequenceIDs{}, spy)

	joined, err := svc.Join(context.Background(), JoinPoolInput{PoolID: "p1", UserID: "newbie", Username: "Newbie"})
	require.NoError(t, err)
	assert.True(t, joined.HasMember("newbie"))
	assert.Equal(t, []string{"p1"}, spy.pools)

	again, err := svc.Join(context.Background(), JoinPoolInput{PoolID: "p1", UserID: "newbie"})
	require.NoError(t, err)
	assert.Len(t, again.Members, len(joined.Members))
	assert.Len(t, spy.pools, 1)

	_, err = svc.Join(context.Background(), JoinPoolInput{PoolID: "secret", UserID: "newbie"})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Join(context.Background(), JoinPoolInput{PoolID: "nope", UserID: "newbie"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPoolService_Delete(t *testing.T) {
	t.Parallel()

	store := newFakePoolStore(testPool())
	svc := NewPoolService(store, nil, &sequenceIDs{}, nil)

	err := svc.Delete(context.Background(), "p1", "u1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	require.NoError(t, svc.Delete(context.Background(), "p1", "owner"))
	_, ok, _ := store.GetByID(context.Background(), "p1")
	assert.False(t, ok)

	err = svc.Delete(context.Background(), "p1", "owner")
	require.ErrorIs(t, err, ErrNotFound)
}
