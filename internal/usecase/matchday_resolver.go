package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ResolvedMatchday is the matchday a pool view should show.
type ResolvedMatchday struct {
	Competition fixture.Competition
	Matchday    int
	Fixtures    []fixture.Fixture
	SeasonEnded bool
}

// MatchdayResolver picks the provider's current matchday, moving one step
// forward when every fixture of it is already finished.
type MatchdayResolver struct {
	source fixture.Source
	logger *logging.Logger
	now    func() time.Time
}

func NewMatchdayResolver(source fixture.Source, logger *logging.Logger) *MatchdayResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchdayResolver{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

func (r *MatchdayResolver) Resolve(ctx context.Context, competitionID int64) (ResolvedMatchday, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayResolver.Resolve", attribute.Int64("competition.id", competitionID))
	defer span.End()

	if competitionID <= 0 {
		return ResolvedMatchday{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}

	competition, err := r.source.GetCompetition(ctx, competitionID)
	if err != nil {
		recordSpanError(span, err)
		return ResolvedMatchday{}, fmt.Errorf("get competition %d: %w", competitionID, err)
	}

	matchday := competition.CurrentMatchday
	if matchday < 1 {
		matchday = 1
	}

	fixtures, err := r.source.ListMatchday(ctx, competitionID, matchday)
	if err != nil {
		recordSpanError(span, err)
		return ResolvedMatchday{}, fmt.Errorf("list matchday %d of competition %d: %w", matchday, competitionID, err)
	}

	exhausted := false
	if fixture.AllFinished(fixtures) {
		next, nextErr := r.source.ListMatchday(ctx, competitionID, matchday+1)
		switch {
		case nextErr != nil:
			r.logger.WarnContext(ctx, "next matchday lookup failed, keeping current",
				"competition_id", competitionID,
				"matchday", matchday,
				"error", nextErr,
			)
		case len(next) == 0:
			exhausted = true
		default:
			matchday++
			fixtures = next
		}
	}

	seasonEnded := exhausted || (fixture.AllFinished(fixtures) && r.pastSeasonEnd(competition))
	span.SetAttributes(attribute.Int("matchday", matchday), attribute.Bool("season.ended", seasonEnded))

	return ResolvedMatchday{
		Competition: competition,
		Matchday:    matchday,
		Fixtures:    fixtures,
		SeasonEnded: seasonEnded,
	}, nil
}

// pastSeasonEnd compares calendar days in UTC; the end date itself still counts as in season.
func (r *MatchdayResolver) pastSeasonEnd(c fixture.Competition) bool {
	if c.SeasonEnd.IsZero() {
		return false
	}
	end := c.SeasonEnd.UTC()
	lastDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return !r.now().UTC().Before(lastDay)
}
