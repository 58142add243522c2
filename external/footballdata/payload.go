package footballdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

type competitionPayload struct {
	ID            int64          `json:"id" validate:"required,gt=0"`
	Name          string         `json:"name" validate:"required"`
	Code          string         `json:"code"`
	CurrentSeason *seasonPayload `json:"currentSeason" validate:"required"`
}

type seasonPayload struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday *int   `json:"currentMatchday" validate:"omitempty,gte=0"`
}

type matchesPayload struct {
	Matches []matchPayload `json:"matches" validate:"dive"`
}

type matchPayload struct {
	ID       int64        `json:"id" validate:"required,gt=0"`
	UTCDate  string       `json:"utcDate" validate:"required"`
	Status   string       `json:"status" validate:"required"`
	Matchday *int         `json:"matchday"`
	HomeTeam teamPayload  `json:"homeTeam"`
	AwayTeam teamPayload  `json:"awayTeam"`
	Score    scorePayload `json:"score"`
}

type teamPayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
	CrestURL  string `json:"crestUrl"`
}

type scorePayload struct {
	Winner   *string      `json:"winner" validate:"omitempty,oneof=HOME_TEAM AWAY_TEAM DRAW"`
	FullTime goalsPayload `json:"fullTime"`
}

// goalsPayload accepts both the v2 (homeTeam/awayTeam) and v4 (home/away) key names.
type goalsPayload struct {
	HomeTeam *int `json:"homeTeam" validate:"omitempty,gte=0"`
	AwayTeam *int `json:"awayTeam" validate:"omitempty,gte=0"`
	Home     *int `json:"home" validate:"omitempty,gte=0"`
	Away     *int `json:"away" validate:"omitempty,gte=0"`
}

type teamsPayload struct {
	Teams []teamPayload `json:"teams" validate:"dive"`
}

func (p competitionPayload) toDomain() (fixture.Competition, error) {
	out := fixture.Competition{
		ID:   p.ID,
		Name: strings.TrimSpace(p.Name),
		Code: strings.TrimSpace(p.Code),
	}
	if p.CurrentSeason.CurrentMatchday != nil {
		out.CurrentMatchday = *p.CurrentSeason.CurrentMatchday
	}

	var err error
	if out.SeasonStart, err = parseDate(p.CurrentSeason.StartDate); err != nil {
		return fixture.Competition{}, fmt.Errorf("%w: season start: %v", usecase.ErrDependencyUnavailable, err)
	}
	if out.SeasonEnd, err = parseDate(p.CurrentSeason.EndDate); err != nil {
		return fixture.Competition{}, fmt.Errorf("%w: season end: %v", usecase.ErrDependencyUnavailable, err)
	}
	return out, nil
}

func (p matchesPayload) toDomain(competitionID int64) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, len(p.Matches))
	for _, m := range p.Matches {
		f, err := m.toDomain(competitionID)
		if err != nil {
			return nil, fmt.Errorf("%w: match id=%d: %v", usecase.ErrDependencyUnavailable, m.ID, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func (m matchPayload) toDomain(competitionID int64) (fixture.Fixture, error) {
	status, err := fixture.ParseStatus(m.Status)
	if err != nil {
		return fixture.Fixture{}, err
	}
	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(m.UTCDate))
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse utcDate: %w", err)
	}

	f := fixture.Fixture{
		ID:            m.ID,
		CompetitionID: competitionID,
		KickoffAt:     kickoff.UTC(),
		Status:        status,
		HomeTeam:      m.HomeTeam.toDomain(),
		AwayTeam:      m.AwayTeam.toDomain(),
		FullTime:      m.Score.FullTime.toDomain(),
	}
	if m.Matchday != nil {
		f.Matchday = *m.Matchday
	}

	if status == fixture.StatusFinished {
		if m.Score.Winner != nil {
			f.Winner = fixture.Outcome(*m.Score.Winner)
		} else if derived, ok := f.FullTime.Outcome(); ok {
			f.Winner = derived
		}
	}
	return f, nil
}

func (t teamPayload) toDomain() fixture.Team {
	crest := t.Crest
	if crest == "" {
		crest = t.CrestURL
	}
	return fixture.Team{
		ID:        t.ID,
		Name:      strings.TrimSpace(t.Name),
		ShortName: strings.TrimSpace(t.ShortName),
		Crest:     strings.TrimSpace(crest),
	}
}

func (g goalsPayload) toDomain() fixture.Score {
	home, away := g.HomeTeam, g.AwayTeam
	if home == nil {
		home = g.Home
	}
	if away == nil {
		away = g.Away
	}
	return fixture.Score{Home: home, Away: away}
}

func (p teamsPayload) toDomain() []fixture.Team {
	out := make([]fixture.Team, 0, len(p.Teams))
	for _, t := range p.Teams {
		if t.ID <= 0 {
			continue
		}
		out = append(out, t.toDomain())
	}
	return out
}

// enrichTeams fills missing short names and crests in place.
func enrichTeams(fixtures []fixture.Fixture, teams []fixture.Team) {
	byID := make(map[int64]fixture.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	fill := func(dst *fixture.Team) {
		meta, ok := byID[dst.ID]
		if !ok {
			return
		}
		if dst.ShortName == "" {
			dst.ShortName = meta.ShortName
		}
		if dst.Crest == "" {
			dst.Crest = meta.Crest
		}
		if dst.Name == "" {
			dst.Name = meta.Name
		}
	}
	for i := range fixtures {
		fill(&fixtures[i].HomeTeam)
		fill(&fixtures[i].AwayTeam)
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
