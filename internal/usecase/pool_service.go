package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/fixture"
	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	"github.com/NicolasVillafane/prodeApp/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
)

type CreatePoolInput struct {
	Name            string
	CompetitionID   int64
	CompetitionName string
	IsPublic        bool
	OwnerID         string
	OwnerName       string
	OwnerEmail      string
}

type JoinPoolInput struct {
	PoolID   string
	UserID   string
	Username string
	Email    string
}

type PoolService struct {
	pools       pool.Repository
	source      fixture.Source
	idGen       id.Generator
	invalidator ViewInvalidator
	now         func() time.Time
}

// NewPoolService accepts a nil source; competition names are then taken as given.
func NewPoolService(pools pool.Repository, source fixture.Source, idGen id.Generator, invalidator ViewInvalidator) *PoolService {
	return &PoolService{
		pools:       pools,
		source:      source,
		idGen:       idGen,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// Create stores a pool with its owner as the first member.
func (s *PoolService) Create(ctx context.Context, input CreatePoolInput) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Create", attribute.Int64("competition.id", input.CompetitionID))
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	if input.Name == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool name is required", ErrInvalidInput)
	}
	if input.OwnerID == "" {
		return pool.Pool{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if input.CompetitionID <= 0 {
		return pool.Pool{}, fmt.Errorf("%w: competition id must be > 0", ErrInvalidInput)
	}

	competitionName := strings.TrimSpace(input.CompetitionName)
	if competitionName == "" && s.source != nil {
		competition, err := s.source.GetCompetition(ctx, input.CompetitionID)
		if err != nil {
			recordSpanError(span, err)
			return pool.Pool{}, fmt.Errorf("get competition %d: %w", input.CompetitionID, err)
		}
		competitionName = competition.Name
	}

	poolID, err := s.idGen.NewID()
	if err != nil {
		return pool.Pool{}, fmt.Errorf("generate pool id: %w", err)
	}

	now := s.now().UTC()
	item := pool.Pool{
		ID:              poolID,
		Name:            input.Name,
		CompetitionID:   input.CompetitionID,
		CompetitionName: competitionName,
		IsPublic:        input.IsPublic,
		OwnerID:         input.OwnerID,
		OwnerName:       strings.TrimSpace(input.OwnerName),
		OwnerEmail:      strings.TrimSpace(input.OwnerEmail),
		Members: []pool.Member{{
			UserID:   input.OwnerID,
			Username: strings.TrimSpace(input.OwnerName),
			Email:    strings.TrimSpace(input.OwnerEmail),
			JoinedAt: now,
		}},
		CreatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return pool.Pool{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.pools.Create(ctx, item); err != nil {
		recordSpanError(span, err)
		return pool.Pool{}, fmt.Errorf("create pool: %w", err)
	}

	return item, nil
}

func (s *PoolService) Get(ctx context.Context, poolID string) (pool.Pool, error) {
	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool id is required", ErrInvalidInput)
	}

	item, exists, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !exists {
		return pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	return item, nil
}

// ListVisible returns the pools the user belongs to followed by every other public pool.
func (s *PoolService) ListVisible(ctx context.Context, userID string) ([]pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.ListVisible")
	defer span.End()

	userID = strings.TrimSpace(userID)

	var joined []pool.Pool
	if userID != "" {
		items, err := s.pools.ListByMember(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list pools by member: %w", err)
		}
		joined = items
	}

	public, err := s.pools.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public pools: %w", err)
	}

	seen := make(map[string]struct{}, len(joined)+len(public))
	out := make([]pool.Pool, 0, len(joined)+len(public))
	for _, group := range [][]pool.Pool{joined, public} {
		for _, item := range group {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out, nil
}

// Join enrolls a user in a public pool. Joining twice is a no-op.
func (s *PoolService) Join(ctx context.Context, input JoinPoolInput) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Join", attribute.String("pool.id", input.PoolID))
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return pool.Pool{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, err := s.Get(ctx, input.PoolID)
	if err != nil {
		return pool.Pool{}, err
	}
	if item.HasMember(userID) {
		return item, nil
	}
	if !item.IsPublic {
		return pool.Pool{}, fmt.Errorf("%w: pool %s is private", ErrForbidden, item.ID)
	}

	member := pool.Member{
		UserID:   userID,
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		JoinedAt: s.now().UTC(),
	}
	added, err := s.pools.AddMember(ctx, item.ID, member)
	if err != nil {
		recordSpanError(span, err)
		return pool.Pool{}, fmt.Errorf("add pool member: %w", err)
	}
	if added {
		item.Members = append(item.Members, member)
		if s.invalidator != nil {
			s.invalidator.InvalidatePool(ctx, item.ID)
		}
	}
	return item, nil
}

// Delete removes a pool on behalf of its owner.
func (s *PoolService) Delete(ctx context.Context, poolID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Delete", attribute.String("pool.id", poolID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, err := s.Get(ctx, poolID)
	if err != nil {
		return err
	}
	if !item.IsOwner(userID) {
		return fmt.Errorf("%w: only the owner can delete pool %s", ErrForbidden, item.ID)
	}

	deleted, err := s.pools.Delete(ctx, item.ID)
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("delete pool: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: pool=%s", ErrNotFound, item.ID)
	}
	if s.invalidator != nil {
		s.invalidator.InvalidatePool(ctx, item.ID)
	}
	return nil
}
