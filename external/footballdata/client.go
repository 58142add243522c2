package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/platform/cache"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/NicolasVillafane/prodeApp/internal/platform/resilience"
	"github.com/NicolasVillafane/prodeApp/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.football-data.org/v2"
	authHeader      = "X-Auth-Token"
	maxResponseSize = 6 << 20
)

var errFootballDataTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// MetadataCache holds competition and team payloads, which change far less often than scores.
	// Nil disables it.
	MetadataCache *cache.Store
}

// Client reads competitions and matchdays from football-data.org and implements fixture.Source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	backoff    func(attempt int) time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.Group[[]byte]
	meta       *cache.Store
	validate   *validator.Validate
}

var (
	_ fixture.Source        = (*Client)(nil)
	_ fixture.TeamDirectory = (*Client)(nil)
	_ fixture.Calendar      = (*Client)(nil)
)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    func(attempt int) time.Duration { return time.Duration(attempt+1) * time.Second },
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		meta:       cfg.MetadataCache,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c *Client) GetCompetition(ctx context.Context, competitionID int64) (fixture.Competition, error) {
	if competitionID <= 0 {
		return fixture.Competition{}, fmt.Errorf("%w: competition id must be > 0", usecase.ErrInvalidInput)
	}

	key := "footballdata:competition:" + strconv.FormatInt(competitionID, 10)
	value, err := c.cached(ctx, key, func(ctx context.Context) (any, error) {
		var payload competitionPayload
		if err := c.getJSON(ctx, fmt.Sprintf("/competitions/%d", competitionID), nil, &payload); err != nil {
			return nil, err
		}
		return payload.toDomain()
	})
	if err != nil {
		return fixture.Competition{}, fmt.Errorf("fetch competition id=%d: %w", competitionID, err)
	}

	competition, ok := value.(fixture.Competition)
	if !ok {
		return fixture.Competition{}, fmt.Errorf("%w: unexpected cached competition type %T", usecase.ErrDependencyUnavailable, value)
	}
	return competition, nil
}

// ListMatchday returns the matchday's fixtures in provider order with crests and
// short names filled from the competition's team list when it is available.
func (c *Client) ListMatchday(ctx context.Context, competitionID int64, matchday int) ([]fixture.Fixture, error) {
	if competitionID <= 0 || matchday < 1 {
		return nil, fmt.Errorf("%w: competition id and matchday must be > 0", usecase.ErrInvalidInput)
	}

	query := url.Values{"matchday": []string{strconv.Itoa(matchday)}}
	fixtures, err := c.listMatches(ctx, competitionID, query)
	if err != nil {
		return nil, fmt.Errorf("fetch matchday=%d competition id=%d: %w", matchday, competitionID, err)
	}
	return fixtures, nil
}

// ListMatches returns the whole season calendar of the competition in provider order.
func (c *Client) ListMatches(ctx context.Context, competitionID int64) ([]fixture.Fixture, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be > 0", usecase.ErrInvalidInput)
	}

	fixtures, err := c.listMatches(ctx, competitionID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch matches competition id=%d: %w", competitionID, err)
	}
	return fixtures, nil
}

func (c *Client) listMatches(ctx context.Context, competitionID int64, query url.Values) ([]fixture.Fixture, error) {
	var payload matchesPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/competitions/%d/matches", competitionID), query, &payload); err != nil {
		return nil, err
	}

	fixtures, err := payload.toDomain(competitionID)
	if err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return fixtures, nil
	}

	teams, err := c.ListTeams(ctx, competitionID)
	if err != nil {
		c.logger.WarnContext(ctx, "team metadata unavailable, serving fixtures without crests",
			"competition_id", competitionID,
			"error", err,
		)
		return fixtures, nil
	}
	enrichTeams(fixtures, teams)
	return fixtures, nil
}

func (c *Client) ListTeams(ctx context.Context, competitionID int64) ([]fixture.Team, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be > 0", usecase.ErrInvalidInput)
	}

	key := "footballdata:teams:" + strconv.FormatInt(competitionID, 10)
	value, err := c.cached(ctx, key, func(ctx context.Context) (any, error) {
		var payload teamsPayload
		if err := c.getJSON(ctx, fmt.Sprintf("/competitions/%d/teams", competitionID), nil, &payload); err != nil {
			return nil, err
		}
		return payload.toDomain(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch teams competition id=%d: %w", competitionID, err)
	}

	teams, ok := value.([]fixture.Team)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected cached teams type %T", usecase.ErrDependencyUnavailable, value)
	}
	return teams, nil
}

func (c *Client) cached(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if c.meta == nil {
		return load(ctx)
	}
	return c.meta.GetOrLoad(ctx, key, load)
}

// getJSON fetches path, decodes it into target and validates it. Every failure wraps
// usecase.ErrDependencyUnavailable.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: competition provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, _, err := c.flight.Do(fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(!isCircuitFailure(reqErr))
		return body, reqErr
	})
	if err != nil {
		return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode provider payload: %v", usecase.ErrDependencyUnavailable, err)
	}
	if err := c.validate.StructCtx(ctx, target); err != nil {
		return fmt.Errorf("%w: provider payload violates schema: %v", usecase.ErrDependencyUnavailable, err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set(authHeader, c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errFootballDataTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFootballDataTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFootballDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				lastErr = fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				c.logger.WarnContext(ctx, "football-data request rejected", "url", fullURL, "status", resp.StatusCode)
				return nil, lastErr
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return value
}

// isCircuitFailure counts only transport errors, 429 and 5xx against the breaker.
func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFootballDataTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
