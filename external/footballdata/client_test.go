package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/platform/cache"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/NicolasVillafane/prodeApp/internal/platform/resilience"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

const competitionBody = `{
  "id": 2021,
  "name": "Premier League",
  "code": "PL",
  "currentSeason": {"id": 733, "startDate": "2021-08-13", "endDate": "2022-05-22", "currentMatchday": 5, "winner": null}
}`

const matchdayBody = `{
  "count": 3,
  "filters": {"matchday": "5"},
  "matches": [
    {"id": 327125, "utcDate": "2021-09-18T14:00:00Z", "status": "FINISHED", "matchday": 5,
     "homeTeam": {"id": 57, "name": "Arsenal FC"}, "awayTeam": {"id": 76, "name": "Wolverhampton Wanderers FC"},
     "score": {"winner": "HOME_TEAM", "duration": "REGULAR", "fullTime": {"homeTeam": 1, "awayTeam": 0}}},
    {"id": 327126, "utcDate": "2021-09-18T16:30:00Z", "status": "AWARDED", "matchday": 5,
     "homeTeam": {"id": 61, "name": "Chelsea FC"}, "awayTeam": {"id": 73, "name": "Tottenham Hotspur FC"},
     "score": {"winner": null, "fullTime": {"home": 0, "away": 3}}},
    {"id": 327127, "utcDate": "2021-09-19T13:00:00Z", "status": "TIMED", "matchday": 5,
     "homeTeam": {"id": 65, "name": "Manchester City FC"}, "awayTeam": {"id": 66, "name": "Manchester United FC"},
     "score": {"winner": null, "fullTime": {"homeTeam": null, "awayTeam": null}}}
  ]
}`

const teamsBody = `{"teams": [
  {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "crestUrl": "https://crests.football-data.org/57.svg"},
  {"id": 76, "name": "Wolverhampton Wanderers FC", "shortName": "Wolverhampton", "crest": "https://crests.football-data.org/76.svg"}
]}`

func newTestClient(t *testing.T, handler http.Handler, mutate func(*ClientConfig)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		BaseURL: srv.URL,
		Token:   "secret-token",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	client := NewClient(cfg)
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func TestClient_GetCompetition(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("X-Auth-Token"); got != "secret-token" {
			t.Errorf("unexpected auth header: got=%q", got)
		}
		_, _ = w.Write([]byte(competitionBody))
	})

	client := newTestClient(t, mux, func(cfg *ClientConfig) {
		cfg.MetadataCache = cache.NewStore(time.Minute)
	})

	for i := 0; i < 2; i++ {
		got, err := client.GetCompetition(context.Background(), 2021)
		if err != nil {
			t.Fatalf("get competition: %v", err)
		}
		if got.CurrentMatchday != 5 || got.Name != "Premier League" {
			t.Fatalf("unexpected competition: %+v", got)
		}
		wantEnd := time.Date(2022, 5, 22, 0, 0, 0, 0, time.UTC)
		if !got.SeasonEnd.Equal(wantEnd) {
			t.Fatalf("unexpected season end: got=%v want=%v", got.SeasonEnd, wantEnd)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("metadata cache should serve the second read: got=%d calls", got)
	}
}

func TestClient_ListMatchday(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021/matches", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("matchday"); got != "5" {
			t.Errorf("unexpected matchday query: got=%q want=5", got)
		}
		_, _ = w.Write([]byte(matchdayBody))
	})
	mux.HandleFunc("GET /competitions/2021/teams", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(teamsBody))
	})

	client := newTestClient(t, mux, nil)
	got, err := client.ListMatchday(context.Background(), 2021, 5)
	if err != nil {
		t.Fatalf("list matchday: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected fixture count: got=%d want=3", len(got))
	}

	first := got[0]
	if first.Status != fixture.StatusFinished || first.Winner != fixture.OutcomeHome {
		t.Fatalf("unexpected first fixture: %+v", first)
	}
	if first.HomeTeam.ShortName != "Arsenal" || first.HomeTeam.Crest == "" || first.AwayTeam.Crest == "" {
		t.Fatalf("expected team metadata to be merged: %+v", first.HomeTeam)
	}
	if first.FullTime.Home == nil || *first.FullTime.Home != 1 {
		t.Fatalf("unexpected full time score: %+v", first.FullTime)
	}

	awarded := got[1]
	if awarded.Status != fixture.StatusFinished || awarded.Winner != fixture.OutcomeAway {
		t.Fatalf("expected awarded match to be finished with derived winner: %+v", awarded)
	}

	timed := got[2]
	if timed.Status != fixture.StatusScheduled || timed.Winner != "" || timed.FullTime.Home != nil {
		t.Fatalf("unexpected scheduled fixture: %+v", timed)
	}
}

func TestClient_ListMatchdayToleratesMissingTeams(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021/matches", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(matchdayBody))
	})
	mux.HandleFunc("GET /competitions/2021/teams", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	got, err := newTestClient(t, mux, nil).ListMatchday(context.Background(), 2021, 5)
	if err != nil {
		t.Fatalf("list matchday: %v", err)
	}
	if len(got) != 3 || got[0].HomeTeam.Crest != "" {
		t.Fatalf("unexpected fixtures: %+v", got)
	}
}

func TestClient_EmptyMatchdaySkipsTeams(t *testing.T) {
	t.Parallel()

	var teamCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021/matches", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"matches":[]}`))
	})
	mux.HandleFunc("GET /competitions/2021/teams", func(w http.ResponseWriter, _ *http.Request) {
		teamCalls.Add(1)
		_, _ = w.Write([]byte(teamsBody))
	})

	got, err := newTestClient(t, mux, nil).ListMatchday(context.Background(), 2021, 39)
	if err != nil {
		t.Fatalf("list matchday: %v", err)
	}
	if len(got) != 0 || teamCalls.Load() != 0 {
		t.Fatalf("unexpected result: fixtures=%d teamCalls=%d", len(got), teamCalls.Load())
	}
}

func TestClient_ListMatchesRequestsWholeSeason(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021/matches", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("season listing must not filter: got query=%q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(matchdayBody))
	})
	mux.HandleFunc("GET /competitions/2021/teams", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(teamsBody))
	})

	got, err := newTestClient(t, mux, nil).ListMatches(context.Background(), 2021)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected fixture count: got=%d want=3", len(got))
	}
	if got[0].ID != 327125 || got[0].HomeTeam.Crest == "" {
		t.Fatalf("expected provider order with team metadata: %+v", got[0])
	}
}

func TestClient_SchemaViolations(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown status": `{"matches":[{"id":1,"utcDate":"2021-09-18T14:00:00Z","status":"HALF_TIME_SHOW","homeTeam":{"id":1},"awayTeam":{"id":2},"score":{}}]}`,
		"bad winner":     `{"matches":[{"id":1,"utcDate":"2021-09-18T14:00:00Z","status":"FINISHED","homeTeam":{"id":1},"awayTeam":{"id":2},"score":{"winner":"Arsenal FC"}}]}`,
		"missing id":     `{"matches":[{"utcDate":"2021-09-18T14:00:00Z","status":"FINISHED","homeTeam":{"id":1},"awayTeam":{"id":2},"score":{}}]}`,
		"bad date":       `{"matches":[{"id":1,"utcDate":"yesterday","status":"FINISHED","homeTeam":{"id":1},"awayTeam":{"id":2},"score":{}}]}`,
		"not json":       `<html>maintenance</html>`,
	}
	for name, body := range cases {
		body := body
		mux := http.NewServeMux()
		mux.HandleFunc("GET /competitions/2021/matches", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		_, err := newTestClient(t, mux, nil).ListMatchday(context.Background(), 2021, 1)
		if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
			t.Fatalf("%s: expected ErrUpstreamUnavailable, got %v", name, err)
		}
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"You reached your request limit."}`))
			return
		}
		_, _ = w.Write([]byte(competitionBody))
	})

	client := newTestClient(t, mux, func(cfg *ClientConfig) { cfg.MaxRetries = 2 })
	if _, err := client.GetCompetition(context.Background(), 2021); err != nil {
		t.Fatalf("get competition after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("unexpected attempts: got=%d want=3", got)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/9999", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, mux, func(cfg *ClientConfig) { cfg.MaxRetries = 3 })
	_, err := client.GetCompetition(context.Background(), 9999)
	if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("unexpected attempts: got=%d want=1", got)
	}
}

func TestClient_CircuitBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/2021", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	client := newTestClient(t, mux, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Hour}
	})

	for i := 0; i < 4; i++ {
		_, err := client.GetCompetition(context.Background(), 2021)
		if !errors.Is(err, usecase.ErrUpstreamUnavailable) {
			t.Fatalf("attempt %d: expected ErrUpstreamUnavailable, got %v", i, err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("breaker should stop calls after threshold: got=%d want=2", got)
	}
}

func TestClient_RejectsInvalidArguments(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.GetCompetition(context.Background(), 0); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := client.ListMatchday(context.Background(), 2021, 0); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := client.ListMatches(context.Background(), -1); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(" dial tcp: token secret-token leaked ", "secret-token")
	if want := "dial tcp: token REDACTED leaked"; got != want {
		t.Fatalf("unexpected sanitized text: got=%q want=%q", got, want)
	}
}
