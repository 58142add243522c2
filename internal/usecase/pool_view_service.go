package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	"github.com/NicolasVillafane/prodeApp/internal/domain/prediction"
	"github.com/NicolasVillafane/prodeApp/internal/platform/logging"
	"github.com/NicolasVillafane/prodeApp/internal/platform/resilience"
	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultViewCacheTTL     = 600 * time.Second
	DefaultViewBuildTimeout = 30 * time.Second
	viewCacheKeyPrefix      = "prode:view:"
)

// ViewCache stores serialized pool views. Implementations may fail; callers treat
// every failure as a miss.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	PoolID   string `json:"poolId"`
	Points   int    `json:"points"`
}

// PoolView is the assembled matchday page of a pool for one viewer.
type PoolView struct {
	Pool            pool.Pool          `json:"pool"`
	Matches         []MatchRow         `json:"matches"`
	CurrentMatchday int                `json:"currentMatchday"`
	IsAuthor        bool               `json:"isAuthor"`
	Leaderboard     []LeaderboardEntry `json:"leaderboard"`
	SeasonEnded     bool               `json:"seasonEnded"`
}

type PoolViewConfig struct {
	CacheTTL     time.Duration
	// BuildTimeout bounds a shared rebuild, which outlives the caller that started it.
	BuildTimeout time.Duration
}

// PoolViewService serves pool views through a read-through cache and pays out
// correct predictions as a side effect of building a fresh view.
type PoolViewService struct {
	pools       pool.Repository
	predictions prediction.Repository
	resolver    *MatchdayResolver
	correlator  *PredictionCorrelator
	awarder     *PointsAwarder
	cache       ViewCache
	cfg         PoolViewConfig
	logger      *logging.Logger
	flight      resilience.Group[PoolView]
}

func NewPoolViewService(
	pools pool.Repository,
	predictions prediction.Repository,
	resolver *MatchdayResolver,
	correlator *PredictionCorrelator,
	awarder *PointsAwarder,
	cache ViewCache,
	cfg PoolViewConfig,
	logger *logging.Logger,
) *PoolViewService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultViewCacheTTL
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = DefaultViewBuildTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PoolViewService{
		pools:       pools,
		predictions: predictions,
		resolver:    resolver,
		correlator:  correlator,
		awarder:     awarder,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *PoolViewService) GetPoolView(ctx context.Context, poolID, userID string) (PoolView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolViewService.GetPoolView", attribute.String("pool.id", poolID))
	defer span.End()

	poolID = strings.TrimSpace(poolID)
	userID = strings.TrimSpace(userID)
	if poolID == "" {
		return PoolView{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	p, exists, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		recordSpanError(span, err)
		return PoolView{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return PoolView{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}

	key := viewCacheKey(poolID, userID)
	if view, ok := s.readCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return view, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	view, _, err := s.flight.Do(key, func() (PoolView, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.BuildTimeout)
		defer cancel()

		if cached, ok := s.readCache(buildCtx, key); ok {
			return cached, nil
		}

		built, buildErr := s.build(buildCtx, p, userID)
		if buildErr != nil {
			return PoolView{}, buildErr
		}
		s.writeCache(buildCtx, key, built)
		return built, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return PoolView{}, err
	}

	return view, nil
}

// InvalidatePool drops every cached view of the pool. Failures are only logged.
func (s *PoolViewService) InvalidatePool(ctx context.Context, poolID string) {
	prefix := viewCachePoolPrefix(poolID)
	if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
		s.logger.WarnContext(ctx, "view cache invalidation failed", "pool_id", poolID, "error", err)
	}
}

func (s *PoolViewService) build(ctx context.Context, p pool.Pool, userID string) (PoolView, error) {
	resolved, err := s.resolver.Resolve(ctx, p.CompetitionID)
	if err != nil {
		return PoolView{}, fmt.Errorf("resolve matchday: %w", err)
	}

	correlation, err := s.correlator.Correlate(ctx, p.ID, userID, resolved.Fixtures)
	if err != nil {
		return PoolView{}, fmt.Errorf("correlate predictions: %w", err)
	}

	if _, err := s.awarder.AwardAll(ctx, correlation.Eligible); err != nil {
		return PoolView{}, fmt.Errorf("award points: %w", err)
	}

	totals, err := s.predictions.ListPoints(ctx, p.ID)
	if err != nil {
		return PoolView{}, fmt.Errorf("list pool points: %w", err)
	}

	return PoolView{
		Pool:            p,
		Matches:         correlation.Rows,
		CurrentMatchday: resolved.Matchday,
		IsAuthor:        p.IsOwner(userID),
		Leaderboard:     buildLeaderboard(p, totals),
		SeasonEnded:     resolved.SeasonEnded,
	}, nil
}

func (s *PoolViewService) readCache(ctx context.Context, key string) (PoolView, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "view cache read failed", "key", key, "error", err)
		return PoolView{}, false
	}
	if !ok {
		return PoolView{}, false
	}

	var view PoolView
	if err := sonic.Unmarshal(raw, &view); err != nil {
		s.logger.WarnContext(ctx, "view cache entry is corrupt", "key", key, "error", err)
		return PoolView{}, false
	}
	return view, true
}

func (s *PoolViewService) writeCache(ctx context.Context, key string, view PoolView) {
	raw, err := sonic.Marshal(view)
	if err != nil {
		s.logger.WarnContext(ctx, "encode pool view failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "view cache write failed", "key", key, "error", err)
	}
}

// buildLeaderboard lists every member once, highest score first, ties in join order.
func buildLeaderboard(p pool.Pool, totals []prediction.Points) []LeaderboardEntry {
	byUser := make(map[string]int, len(totals))
	for _, t := range totals {
		byUser[t.UserID] += t.Points
	}

	entries := make([]LeaderboardEntry, 0, len(p.Members))
	for _, m := range p.Members {
		entries = append(entries, LeaderboardEntry{
			UserID:   m.UserID,
			Username: m.Username,
			PoolID:   p.ID,
			Points:   byUser[m.UserID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries
}

func viewCachePoolPrefix(poolID string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(viewCacheKeyPrefix)
	_, _ = buf.WriteString(poolID)
	_ = buf.WriteByte(':')
	return buf.String()
}

// viewCacheKey scopes entries per viewer so one user's predictions never leak to another.
func viewCacheKey(poolID, userID string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(viewCacheKeyPrefix)
	_, _ = buf.WriteString(poolID)
	if userID == "" {
		_, _ = buf.WriteString(":anon")
	} else {
		_, _ = buf.WriteString(":user:")
		_, _ = buf.WriteString(userID)
	}
	return buf.String()
}

