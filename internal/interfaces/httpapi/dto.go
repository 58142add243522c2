package httpapi

import (
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

type submitPredictionRequest struct {
	MatchID         int64  `json:"match_id" validate:"required,gt=0"`
	PredictedResult string `json:"predicted_result" validate:"required,oneof=HOME_TEAM DRAW AWAY_TEAM"`
	UserID          string `json:"user_id" validate:"required"`
	PoolID          string `json:"prode_id" validate:"required"`
}

type createPoolRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	CompetitionID   int64  `json:"competition_id" validate:"required,gt=0"`
	CompetitionName string `json:"competition_name" validate:"omitempty,max=120"`
	IsPublic        bool   `json:"is_public"`
	UserID          string `json:"user_id" validate:"required"`
	Username        string `json:"username" validate:"omitempty,max=80"`
	Email           string `json:"email" validate:"omitempty,email"`
}

type joinPoolRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"omitempty,max=80"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type messageDTO struct {
	Message string `json:"message"`
}

type teamDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
	Crest     string `json:"crest,omitempty"`
}

type fullTimeDTO struct {
	HomeTeam *int `json:"homeTeam"`
	AwayTeam *int `json:"awayTeam"`
}

type scoreDTO struct {
	Winner   *string     `json:"winner"`
	FullTime fullTimeDTO `json:"fullTime"`
}

type matchDTO struct {
	ID       int64     `json:"id"`
	Matchday int       `json:"matchday"`
	UTCDate  time.Time `json:"utcDate"`
	Status   string    `json:"status"`
	HomeTeam teamDTO   `json:"homeTeam"`
	AwayTeam teamDTO   `json:"awayTeam"`
	Score    scoreDTO  `json:"score"`
}

type matchRowDTO struct {
	Match               matchDTO `json:"match"`
	Prediction          *string  `json:"prediction"`
	IsPredictionCorrect *bool    `json:"isPredictionCorrect"`
}

type poolPointsDTO struct {
	UserID   string `json:"user_id"`
	PoolID   string `json:"prode_id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type memberDTO struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

type poolDTO struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	CompetitionID   int64       `json:"competitionId"`
	CompetitionName string      `json:"competitionName"`
	IsPublic        bool        `json:"isPublic"`
	OwnerID         string      `json:"authorId"`
	OwnerName       string      `json:"authorName"`
	Members         []memberDTO `json:"members"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type poolViewDTO struct {
	Pool            poolDTO         `json:"prode"`
	Football        []matchRowDTO   `json:"football"`
	CurrentMatchday int             `json:"currentMatchday"`
	IsAuthor        bool            `json:"isAuthor"`
	ProdePoints     []poolPointsDTO `json:"prodePoints"`
	SeasonEnded     bool            `json:"seasonEnded"`
}

type competitionDTO struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code,omitempty"`
	CurrentMatchday int       `json:"currentMatchday"`
	SeasonStart     time.Time `json:"seasonStart"`
	SeasonEnd       time.Time `json:"seasonEnd"`
}

func toTeamDTO(t fixture.Team) teamDTO {
	return teamDTO{ID: t.ID, Name: t.Name, ShortName: t.ShortName, Crest: t.Crest}
}

func toMatchDTO(f fixture.Fixture) matchDTO {
	var winner *string
	if f.Winner != "" {
		w := string(f.Winner)
		winner = &w
	}
	return matchDTO{
		ID:       f.ID,
		Matchday: f.Matchday,
		UTCDate:  f.KickoffAt.UTC(),
		Status:   string(f.Status),
		HomeTeam: toTeamDTO(f.HomeTeam),
		AwayTeam: toTeamDTO(f.AwayTeam),
		Score: scoreDTO{
			Winner: winner,
			FullTime: fullTimeDTO{
				HomeTeam: f.FullTime.Home,
				AwayTeam: f.FullTime.Away,
			},
		},
	}
}

func toPoolDTO(p pool.Pool) poolDTO {
	members := make([]memberDTO, 0, len(p.Members))
	for _, m := range p.Members {
		members = append(members, memberDTO{
			UserID:   m.UserID,
			Username: m.Username,
			Email:    m.Email,
			JoinedAt: m.JoinedAt,
		})
	}
	return poolDTO{
		ID:              p.ID,
		Name:            p.Name,
		CompetitionID:   p.CompetitionID,
		CompetitionName: p.CompetitionName,
		IsPublic:        p.IsPublic,
		OwnerID:         p.OwnerID,
		OwnerName:       p.OwnerName,
		Members:         members,
		CreatedAt:       p.CreatedAt,
	}
}

func toPoolDTOs(items []pool.Pool) []poolDTO {
	out := make([]poolDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toPoolDTO(item))
	}
	return out
}

func toPoolViewDTO(view usecase.PoolView) poolViewDTO {
	rows := make([]matchRowDTO, 0, len(view.Matches))
	for _, row := range view.Matches {
		var predicted *string
		if row.Prediction != nil {
			p := string(*row.Prediction)
			predicted = &p
		}
		rows = append(rows, matchRowDTO{
			Match:               toMatchDTO(row.Fixture),
			Prediction:          predicted,
			IsPredictionCorrect: row.IsPredictionCorrect,
		})
	}

	points := make([]poolPointsDTO, 0, len(view.Leaderboard))
	for _, entry := range view.Leaderboard {
		points = append(points, poolPointsDTO{
			UserID:   entry.UserID,
			PoolID:   entry.PoolID,
			Username: entry.Username,
			Points:   entry.Points,
		})
	}

	return poolViewDTO{
		Pool:            toPoolDTO(view.Pool),
		Football:        rows,
		CurrentMatchday: view.CurrentMatchday,
		IsAuthor:        view.IsAuthor,
		ProdePoints:     points,
		SeasonEnded:     view.SeasonEnded,
	}
}

func toCompetitionDTO(c fixture.Competition) competitionDTO {
	return competitionDTO{
		ID:              c.ID,
		Name:            c.Name,
		Code:            c.Code,
		CurrentMatchday: c.CurrentMatchday,
		SeasonStart:     c.SeasonStart,
		SeasonEnd:       c.SeasonEnd,
	}
}

func toTeamDTOs(items []fixture.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toTeamDTO(item))
	}
	return out
}

func toMatchDTOs(items []fixture.Fixture) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toMatchDTO(item))
	}
	return out
}
