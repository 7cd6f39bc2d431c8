package postgres

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

// LevelUpRepository implements member.HistoryRepository using PostgreSQL.
type LevelUpRepository struct {
	conn *Connection
}

// NewLevelUpRepository creates a new LevelUpRepository.
func NewLevelUpRepository(conn *Connection) *LevelUpRepository {
	return &LevelUpRepository{conn: conn}
}

// Save appends one level-up to the history.
func (r *LevelUpRepository) Save(ctx context.Context, levelUp member.LevelUp) error {
	const query = `
		INSERT INTO level_ups (member_id, new_level, xp_after, occurred_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.conn.Pool().Exec(ctx, query,
		int64(levelUp.MemberID),
		int(levelUp.NewLevel),
		int(levelUp.XPAfter),
		levelUp.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert level_up: %w", err)
	}
	return nil
}

// Recent returns the latest limit level-ups, newest first.
func (r *LevelUpRepository) Recent(ctx context.Context, limit int) ([]member.LevelUp, error) {
	const query = `
		SELECT member_id, new_level, xp_after, occurred_at
		FROM level_ups
		ORDER BY occurred_at DESC
		LIMIT $1`

	rows, err := r.conn.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: query level_ups: %w", err)
	}
	defer rows.Close()

	levelUps := make([]member.LevelUp, 0, limit)
	for rows.Next() {
		var (
			memberID int64
			newLevel int
			xpAfter  int
			levelUp  member.LevelUp
		)
		if err := rows.Scan(&memberID, &newLevel, &xpAfter, &levelUp.OccurredAt); err != nil {
			return nil, fmt.Errorf("postgres: scan level_up: %w", err)
		}
		levelUp.MemberID = member.MemberID(memberID)
		levelUp.NewLevel = member.Level(newLevel)
		levelUp.XPAfter = member.XP(xpAfter)
		levelUps = append(levelUps, levelUp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate level_ups: %w", err)
	}

	return levelUps, nil
}
