package pool

import (
	"fmt"
	"strings"
	"time"
)

// Member is a user enrolled in a pool, kept in join order.
type Member struct {
	UserID   string
	Username string
	Email    string
	JoinedAt time.Time
}

// Pool is a prediction pool ("prode") bound to one competition.
type Pool struct {
	ID              string
	Name            string
	CompetitionID   int64
	CompetitionName string
	IsPublic        bool
	OwnerID         string
	OwnerName       string
	OwnerEmail      string
	Members         []Member
	CreatedAt       time.Time
}

func (p Pool) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("pool id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pool name is required")
	}
	if p.CompetitionID <= 0 {
		return fmt.Errorf("pool competition id must be > 0")
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return fmt.Errorf("pool owner id is required")
	}
	return nil
}

func (p Pool) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (p Pool) IsOwner(userID string) bool {
	return userID != "" && p.OwnerID == userID
}
