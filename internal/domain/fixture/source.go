package fixture

import "context"

// Source is the read side of the competition data provider.
type Source interface {
	GetCompetition(ctx context.Context, competitionID int64) (Competition, error)
	ListMatchday(ctx context.Context, competitionID int64, matchday int) ([]Fixture, error)
}

// TeamDirectory lists the teams registered in a competition.
type TeamDirectory interface {
	ListTeams(ctx context.Context, competitionID int64) ([]Team, error)
}

// Calendar lists every fixture of a competition's season.
type Calendar interface {
	ListMatches(ctx context.Context, competitionID int64) ([]Fixture, error)
}
