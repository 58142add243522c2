package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
)

type fakeSource struct {
	mu             sync.Mutex
	competition    fixture.Competition
	competitionErr error
	matchdays      map[int][]fixture.Fixture
	matchdayErr    map[int]error
	delay          time.Duration
	calls          atomic.Int32
}

func (s *fakeSource) GetCompetition(_ context.Context, competitionID int64) (fixture.Competition, error) {
	s.calls.Add(1)
	if s.competitionErr != nil {
		return fixture.Competition{}, s.competitionErr
	}
	c := s.competition
	c.ID = competitionID
	return c, nil
}

func (s *fakeSource) ListMatchday(_ context.Context, _ int64, matchday int) ([]fixture.Fixture, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.matchdayErr[matchday]; err != nil {
		return nil, err
	}
	return append([]fixture.Fixture(nil), s.matchdays[matchday]...), nil
}

type fakeViewCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
	gets    atomic.Int32
	sets    atomic.Int32
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{entries: map[string][]byte{}}
}

func (c *fakeViewCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.gets.Add(1)
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	return raw, ok, nil
}

func (c *fakeViewCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets.Add(1)
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeViewCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// fakePredictionStore mirrors the conditional award semantics of the real stores.
type fakePredictionStore struct {
	mu      sync.Mutex
	byID    map[string]prediction.Prediction
	points  map[string]int
	findErr error
}

func newFakePredictionStore(items ...prediction.Prediction) *fakePredictionStore {
	s := &fakePredictionStore{byID: map[string]prediction.Prediction{}, points: map[string]int{}}
	for _, p := range items {
		s.byID[p.ID] = p
	}
	return s
}

func (s *fakePredictionStore) Find(_ context.Context, userID string, matchID int64, poolID string) (prediction.Prediction, bool, error) {
	if s.findErr != nil {
		return prediction.Prediction{}, false, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.UserID == userID && p.MatchID == matchID && p.PoolID == poolID {
			return p, true, nil
		}
	}
	return prediction.Prediction{}, false, nil
}

func (s *fakePredictionStore) Insert(_ context.Context, p prediction.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			return prediction.ErrDuplicate
		}
	}
	s.byID[p.ID] = p
	return nil
}

func (s *fakePredictionStore) AwardPoints(_ context.Context, predictionID string, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[predictionID]
	if !ok || p.PointsAwarded {
		return false, nil
	}
	p.PointsAwarded = true
	s.byID[predictionID] = p
	s.points[p.UserID+"|"+p.PoolID] += delta
	return true, nil
}

func (s *fakePredictionStore) ListPoints(_ context.Context, poolID string) ([]prediction.Points, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []prediction.Points
	for key, pts := range s.points {
		userID, pid, _ := strings.Cut(key, "|")
		if pid == poolID {
			out = append(out, prediction.Points{UserID: userID, PoolID: pid, Points: pts})
		}
	}
	return out, nil
}

func (s *fakePredictionStore) get(id string) prediction.Prediction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id]
}

type fakePoolStore struct {
	mu    sync.Mutex
	pools map[string]pool.Pool
	order []string
	gets  atomic.Int32
}

func newFakePoolStore(items ...pool.Pool) *fakePoolStore {
	s := &fakePoolStore{pools: map[string]pool.Pool{}}
	for _, p := range items {
		s.pools[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s
}

func (s *fakePoolStore) Create(_ context.Context, p pool.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pools[p.ID]; ok {
		return errors.New("pool exists")
	}
	s.pools[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *fakePoolStore) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	s.gets.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[poolID]
	return p, ok, nil
}

func (s *fakePoolStore) ListPublic(_ context.Context) ([]pool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pool.Pool
	for _, id := range s.order {
		if p, ok := s.pools[id]; ok && p.IsPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePoolStore) ListByMember(_ context.Context, userID string) ([]pool.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []pool.Pool
	for _, id := range s.order {
		if p, ok := s.pools[id]; ok && p.HasMember(userID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePoolStore) AddMember(_ context.Context, poolID string, member pool.Member) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pools[poolID]
	if !ok {
		return false, fmt.Errorf("pool %s missing", poolID)
	}
	if p.HasMember(member.UserID) {
		return false, nil
	}
	p.Members = append(p.Members, member)
	s.pools[poolID] = p
	return true, nil
}

func (s *fakePoolStore) Delete(_ context.Context, poolID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pools[poolID]; !ok {
		return false, nil
	}
	delete(s.pools, poolID)
	return true, nil
}

type sequenceIDs struct {
	prefix string
	n      atomic.Int32
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1)), nil
}

type spyInvalidator struct {
	mu    sync.Mutex
	pools []string
}

func (s *spyInvalidator) InvalidatePool(_ context.Context, poolID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools = append(s.pools, poolID)
}

func finishedFixture(id int64, matchday int, winner fixture.Outcome) fixture.Fixture {
	return fixture.Fixture{ID: id, Matchday: matchday, Status: fixture.StatusFinished, Winner: winner}
}

func scheduledFixture(id int64, matchday int) fixture.Fixture {
	return fixture.Fixture{ID: id, Matchday: matchday, Status: fixture.StatusScheduled}
}
