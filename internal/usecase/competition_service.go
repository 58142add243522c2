package usecase

import (
	"context"
	"fmt"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"go.opentelemetry.io/otel/attribute"
)

// CompetitionService exposes read-only competition data to pool creators.
type CompetitionService struct {
	source   fixture.Source
	teams    fixture.TeamDirectory
	calendar fixture.Calendar
}

func NewCompetitionService(source fixture.Source, teams fixture.TeamDirectory, calendar fixture.Calendar) *CompetitionService {
	return &CompetitionService{source: source, teams: teams, calendar: calendar}
}

func (s *CompetitionService) Get(ctx context.Context, competitionID int64) (fixture.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Get", attribute.Int64("competition.id", competitionID))
	defer span.End()

	if competitionID <= 0 {
		return fixture.Competition{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}
	competition, err := s.source.GetCompetition(ctx, competitionID)
	if err != nil {
		recordSpanError(span, err)
		return fixture.Competition{}, fmt.Errorf("get competition %d: %w", competitionID, err)
	}
	return competition, nil
}

func (s *CompetitionService) ListTeams(ctx context.Context, competitionID int64) ([]fixture.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ListTeams", attribute.Int64("competition.id", competitionID))
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}
	if s.teams == nil {
		return nil, fmt.Errorf("%w: team directory is not configured", ErrDependencyUnavailable)
	}
	teams, err := s.teams.ListTeams(ctx, competitionID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list teams of competition %d: %w", competitionID, err)
	}
	return teams, nil
}

func (s *CompetitionService) ListMatches(ctx context.Context, competitionID int64) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ListMatches", attribute.Int64("competition.id", competitionID))
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}
	if s.calendar == nil {
		return nil, fmt.Errorf("%w: match calendar is not configured", ErrDependencyUnavailable)
	}
	matches, err := s.calendar.ListMatches(ctx, competitionID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list matches of competition %d: %w", competitionID, err)
	}
	return matches, nil
}
