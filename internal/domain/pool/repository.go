package pool

import "context"

// Repository persists pools and their memberships.
type Repository interface {
	// Create stores the pool together with its initial members.
	Create(ctx context.Context, p Pool) error
	GetByID(ctx context.Context, poolID string) (Pool, bool, error)
	ListPublic(ctx context.Context) ([]Pool, error)
	ListByMember(ctx context.Context, userID string) ([]Pool, error)
	// AddMember reports false when the user was already a member.
	AddMember(ctx context.Context, poolID string, member Member) (bool, error)
	// Delete removes the pool and its memberships. It reports false when nothing matched.
	Delete(ctx context.Context, poolID string) (bool, error)
}
