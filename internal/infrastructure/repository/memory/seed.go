package memory

import (
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
)

const CompetitionIDPremierLeague int64 = 2021

var (
	teamArsenal   = fixture.Team{ID: 57, Name: "Arsenal FC", ShortName: "Arsenal", Crest: "https://crests.football-data.org/57.png"}
	teamChelsea   = fixture.Team{ID: 61, Name: "Chelsea FC", ShortName: "Chelsea", Crest: "https://crests.football-data.org/61.png"}
	teamLiverpool = fixture.Team{ID: 64, Name: "Liverpool FC", ShortName: "Liverpool", Crest: "https://crests.football-data.org/64.png"}
	teamCity      = fixture.Team{ID: 65, Name: "Manchester City FC", ShortName: "Man City", Crest: "https://crests.football-data.org/65.svg"}
)

func SeedCompetitions() []fixture.Competition {
	return []fixture.Competition{
		{
			ID:              CompetitionIDPremierLeague,
			Name:            "Premier League",
			Code:            "PL",
			CurrentMatchday: 1,
			SeasonStart:     time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
			SeasonEnd:       time.Date(2027, time.May, 23, 0, 0, 0, 0, time.UTC),
		},
	}
}

// SeedFixtures has a finished first matchday so the resolver moves on to the second.
func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		finishedSeedFixture(1001, 1, time.Date(2026, time.August, 15, 14, 0, 0, 0, time.UTC), teamArsenal, teamChelsea, 2, 1),
		finishedSeedFixture(1002, 1, time.Date(2026, time.August, 16, 16, 30, 0, 0, time.UTC), teamLiverpool, teamCity, 1, 1),
		scheduledSeedFixture(1003, 2, time.Date(2026, time.August, 22, 14, 0, 0, 0, time.UTC), teamChelsea, teamLiverpool),
		scheduledSeedFixture(1004, 2, time.Date(2026, time.August, 23, 16, 30, 0, 0, time.UTC), teamCity, teamArsenal),
	}
}

func finishedSeedFixture(id int64, matchday int, kickoff time.Time, home, away fixture.Team, homeGoals, awayGoals int) fixture.Fixture {
	score := fixture.Score{Home: &homeGoals, Away: &awayGoals}
	winner, _ := score.Outcome()
	return fixture.Fixture{
		ID:            id,
		CompetitionID: CompetitionIDPremierLeague,
		Matchday:      matchday,
		KickoffAt:     kickoff,
		Status:        fixture.StatusFinished,
		HomeTeam:      home,
		AwayTeam:      away,
		FullTime:      score,
		Winner:        winner,
	}
}

func scheduledSeedFixture(id int64, matchday int, kickoff time.Time, home, away fixture.Team) fixture.Fixture {
	return fixture.Fixture{
		ID:            id,
		CompetitionID: CompetitionIDPremierLeague,
		Matchday:      matchday,
		KickoffAt:     kickoff,
		Status:        fixture.StatusScheduled,
		HomeTeam:      home,
		AwayTeam:      away,
	}
}
