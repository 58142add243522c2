package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	qb "github.com/NicolasVillafane/prodeApp/internal/platform/querybuilder"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) Create(ctx context.Context, p pool.Pool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create pool: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("pools", poolInsertModel(p), "")
	if err != nil {
		return fmt.Errorf("build create pool query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	for _, m := range p.Members {
		memberQuery, memberArgs, err := qb.InsertModel("pool_members", poolMemberInsertModel(p.ID, m), "ON CONFLICT (pool_id, user_id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build create pool member query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
			return fmt.Errorf("create pool member user=%s: %w", m.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create pool tx: %w", err)
	}
	return nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	query, args, err := qb.Select(poolColumns...).From("pools").
		Where(qb.Eq("id", poolID)).
		ToSQL()
	if err != nil {
		return pool.Pool{}, false, fmt.Errorf("build get pool by id query: %w", err)
	}

	var row poolTableModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if err != nil {
		if isNotFound(err) {
			return pool.Pool{}, false, nil
		}
		return pool.Pool{}, false, fmt.Errorf("get pool by id: %w", err)
	}

	members, err := r.listMembers(ctx, []string{row.ID})
	if err != nil {
		return pool.Pool{}, false, err
	}
	return poolFromRow(row, members[row.ID]), true, nil
}

func (r *PoolRepository) ListPublic(ctx context.Context) ([]pool.Pool, error) {
	query, args, err := qb.Select(poolColumns...).From("pools").
		Where(qb.Eq("is_public", true)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list public pools query: %w", err)
	}
	return r.listPools(ctx, "list public pools", query, args)
}

func (r *PoolRepository) ListByMember(ctx context.Context, userID string) ([]pool.Pool, error) {
	query, args, err := qb.Select(poolColumns...).From("pools").
		Where(qb.Expr("id IN (SELECT pool_id FROM pool_members WHERE user_id = ?)", userID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pools by member query: %w", err)
	}
	return r.listPools(ctx, "list pools by member", query, args)
}

func (r *PoolRepository) AddMember(ctx context.Context, poolID string, member pool.Member) (bool, error) {
	query, args, err := qb.InsertModel("pool_members", poolMemberInsertModel(poolID, member), "ON CONFLICT (pool_id, user_id) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build add pool member query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("add pool member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected add pool member: %w", err)
	}
	return affected > 0, nil
}

// Delete relies on the pool_members foreign key cascade.
func (r *PoolRepository) Delete(ctx context.Context, poolID string) (bool, error) {
	query, args, err := qb.DeleteFrom("pools").
		Where(qb.Eq("id", poolID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete pool query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete pool: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete pool: %w", err)
	}
	return affected > 0, nil
}

func (r *PoolRepository) listPools(ctx context.Context, op, query string, args []any) ([]pool.Pool, error) {
	var rows []poolTableModel
	err := withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return []pool.Pool{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	members, err := r.listMembers(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]pool.Pool, 0, len(rows))
	for _, row := range rows {
		out = append(out, poolFromRow(row, members[row.ID]))
	}
	return out, nil
}

func (r *PoolRepository) listMembers(ctx context.Context, poolIDs []string) (map[string][]poolMemberTableModel, error) {
	query, args, err := qb.Select(poolMemberColumns...).From("pool_members").
		Where(qb.Expr("pool_id = ANY(?)", pq.Array(poolIDs))).
		OrderBy("pool_id", "joined_at ASC", "user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pool members query: %w", err)
	}

	var rows []poolMemberTableModel
	err = withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list pool members: %w", err)
	}

	out := make(map[string][]poolMemberTableModel, len(poolIDs))
	for _, row := range rows {
		out[row.PoolID] = append(out[row.PoolID], row)
	}
	return out, nil
}
