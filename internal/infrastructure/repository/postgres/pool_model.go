package postgres

import (
	"time"

	"github.com/NicolasVillafane/prodeApp/internal/domain/pool"
	qb "github.com/NicolasVillafane/prodeApp/internal/platform/querybuilder"
)

var (
	poolColumns       = qb.MustColumns(poolTableModel{})
	poolMemberColumns = qb.MustColumns(poolMemberTableModel{})
)

type poolTableModel struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	CompetitionID   int64     `db:"competition_id"`
	CompetitionName string    `db:"competition_name"`
	IsPublic        bool      `db:"is_public"`
	OwnerID         string    `db:"owner_id"`
	OwnerName       string    `db:"owner_name"`
	OwnerEmail      string    `db:"owner_email"`
	CreatedAt       time.Time `db:"created_at"`
}

type poolMemberTableModel struct {
	PoolID   string    `db:"pool_id"`
	UserID   string    `db:"user_id"`
	Username string    `db:"username"`
	Email    string    `db:"email"`
	JoinedAt time.Time `db:"joined_at"`
}

func poolInsertModel(p pool.Pool) poolTableModel {
	return poolTableModel{
		ID:              p.ID,
		Name:            p.Name,
		CompetitionID:   p.CompetitionID,
		CompetitionName: p.CompetitionName,
		IsPublic:        p.IsPublic,
		OwnerID:         p.OwnerID,
		OwnerName:       p.OwnerName,
		OwnerEmail:      p.OwnerEmail,
		CreatedAt:       p.CreatedAt,
	}
}

func poolMemberInsertModel(poolID string, m pool.Member) poolMemberTableModel {
	return poolMemberTableModel{
		PoolID:   poolID,
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		JoinedAt: m.JoinedAt,
	}
}

func poolFromRow(row poolTableModel, members []poolMemberTableModel) pool.Pool {
	out := pool.Pool{
		ID:              row.ID,
		Name:            row.Name,
		CompetitionID:   row.CompetitionID,
		CompetitionName: row.CompetitionName,
		IsPublic:        row.IsPublic,
		OwnerID:         row.OwnerID,
		OwnerName:       row.OwnerName,
		OwnerEmail:      row.OwnerEmail,
		CreatedAt:       row.CreatedAt,
		Members:         make([]pool.Member, 0, len(members)),
	}
	for _, m := range members {
		out.Members = append(out.Members, pool.Member{
			UserID:   m.UserID,
			Username: m.Username,
			Email:    m.Email,
			JoinedAt: m.JoinedAt,
		})
	}
	return out
}
