package fixture

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusInPlay    Status = "IN_PLAY"
	StatusPaused    Status = "PAUSED"
	StatusFinished  Status = "FINISHED"
	StatusPostponed Status = "POSTPONED"
	StatusSuspended Status = "SUSPENDED"
	StatusCanceled  Status = "CANCELED"
)

// ParseStatus normalizes a provider status. TIMED is a scheduled match with a
// confirmed kickoff and AWARDED is a result decided off the pitch.
func ParseStatus(value string) (Status, error) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(value))); s {
	case StatusScheduled, StatusLive, StatusInPlay, StatusPaused, StatusFinished,
		StatusPostponed, StatusSuspended, StatusCanceled:
		return s, nil
	case "TIMED":
		return StatusScheduled, nil
	case "AWARDED":
		return StatusFinished, nil
	case "CANCELLED":
		return StatusCanceled, nil
	default:
		return "", fmt.Errorf("unknown fixture status %q", value)
	}
}

// Outcome is a full-time result from the home side's perspective.
type Outcome string

const (
	OutcomeHome Outcome = "HOME_TEAM"
	OutcomeDraw Outcome = "DRAW"
	OutcomeAway Outcome = "AWAY_TEAM"
)

func ParseOutcome(value string) (Outcome, error) {
	switch o := Outcome(strings.ToUpper(strings.TrimSpace(value))); o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return o, nil
	default:
		return "", fmt.Errorf("unknown outcome %q", value)
	}
}

type Team struct {
	ID        int64
	Name      string
	ShortName string
	Crest     string
}

// Score holds full-time goals; both sides are nil until the match has a result.
type Score struct {
	Home *int
	Away *int
}

// Outcome derives the winner from the score. ok is false when the score is incomplete.
func (s Score) Outcome() (Outcome, bool) {
	if s.Home == nil || s.Away == nil {
		return "", false
	}
	switch {
	case *s.Home > *s.Away:
		return OutcomeHome, true
	case *s.Home < *s.Away:
		return OutcomeAway, true
	default:
		return OutcomeDraw, true
	}
}

// Fixture is one match as reported by the competition provider. It is read-only here.
type Fixture struct {
	ID            int64
	CompetitionID int64
	Matchday      int
	KickoffAt     time.Time
	Status        Status
	HomeTeam      Team
	AwayTeam      Team
	FullTime      Score
	// Winner is empty unless Status is FINISHED.
	Winner Outcome
}

func (f Fixture) IsFinished() bool {
	return f.Status == StatusFinished
}

// AllFinished is false for an empty slice.
func AllFinished(fixtures []Fixture) bool {
	if len(fixtures) == 0 {
		return false
	}
	for _, f := range fixtures {
		if !f.IsFinished() {
			return false
		}
	}
	return true
}

type Competition struct {
	ID              int64
	Name            string
	Code            string
	CurrentMatchday int
	SeasonStart     time.Time
	SeasonEnd       time.Time
}
