package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

// FixtureSource serves a fixed competition calendar for local runs without a provider token.
type FixtureSource struct {
	mu           sync.RWMutex
	competitions map[int64]fixture.Competition
	fixtures     map[int64]map[int][]fixture.Fixture
}

func NewFixtureSource(competitions []fixture.Competition, fixtures []fixture.Fixture) *FixtureSource {
	byID := make(map[int64]fixture.Competition, len(competitions))
	for _, c := range competitions {
		byID[c.ID] = c
	}

	byMatchday := make(map[int64]map[int][]fixture.Fixture)
	for _, item := range fixtures {
		days, ok := byMatchday[item.CompetitionID]
		if !ok {
			days = make(map[int][]fixture.Fixture)
			byMatchday[item.CompetitionID] = days
		}
		days[item.Matchday] = append(days[item.Matchday], item)
	}

	return &FixtureSource{competitions: byID, fixtures: byMatchday}
}

func (s *FixtureSource) GetCompetition(_ context.Context, competitionID int64) (fixture.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.competitions[competitionID]
	if !ok {
		return fixture.Competition{}, fmt.Errorf("%w: competition %d is not served", usecase.ErrDependencyUnavailable, competitionID)
	}
	return c, nil
}

func (s *FixtureSource) ListMatchday(_ context.Context, competitionID int64, matchday int) ([]fixture.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%w: competition %d is not served", usecase.ErrDependencyUnavailable, competitionID)
	}
	return slices.Clone(s.fixtures[competitionID][matchday]), nil
}

// ListMatches returns the season ordered by matchday, then kickoff, then fixture id.
func (s *FixtureSource) ListMatches(_ context.Context, competitionID int64) ([]fixture.Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%w: competition %d is not served", usecase.ErrDependencyUnavailable, competitionID)
	}

	out := make([]fixture.Fixture, 0)
	for _, day := range s.fixtures[competitionID] {
		out = append(out, day...)
	}
	slices.SortFunc(out, func(a, b fixture.Fixture) int {
		return cmp.Or(
			cmp.Compare(a.Matchday, b.Matchday),
			a.KickoffAt.Compare(b.KickoffAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

// Record replaces a fixture, which lets local runs finish matches by hand.
func (s *FixtureSource) Record(item fixture.Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.fixtures[item.CompetitionID]
	if !ok {
		days = make(map[int][]fixture.Fixture)
		s.fixtures[item.CompetitionID] = days
	}
	for i, existing := range days[item.Matchday] {
		if existing.ID == item.ID {
			days[item.Matchday][i] = item
			return
		}
	}
	days[item.Matchday] = append(days[item.Matchday], item)
}

// ListTeams derives the team list from the stored fixtures, ordered by team id.
func (s *FixtureSource) ListTeams(_ context.Context, competitionID int64) ([]fixture.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("%w: competition %d is not served", usecase.ErrDependencyUnavailable, competitionID)
	}

	byID := make(map[int64]fixture.Team)
	for _, day := range s.fixtures[competitionID] {
		for _, item := range day {
			byID[item.HomeTeam.ID] = item.HomeTeam
			byID[item.AwayTeam.ID] = item.AwayTeam
		}
	}
	out := make([]fixture.Team, 0, len(byID))
	for _, team := range byID {
		out = append(out, team)
	}
	slices.SortFunc(out, func(a, b fixture.Team) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
