package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drekeken-tech/sparmatch/internal/domain/enums"
	"github.com/drekeken-tech/sparmatch/internal/domain/model"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

type MatchWithProfileRecord struct {
	ID              int64
	CounterpartID   int64
	DisplayName     string
	Age             int
	ExperienceLevel string
	CreatedAt       time.Time
}

// CreateIfMutual inserts the canonical-pair match row when a reciprocal
// like/superlike exists. One statement: the reciprocal check and the insert
// share a snapshot, and matches_pair_unique absorbs the losing side of a
// concurrent double-completion. Returns the created match and true, or the
// zero match and false when there is no reciprocal or the pair already
// matched.
func (r *MatchRepo) CreateIfMutual(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return model.Match{}, false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return model.Match{}, false, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var m model.Match
	err := tx.QueryRow(ctx, `
INSERT INTO matches (user_a_id, user_b_id, created_at)
SELECT LEAST($1::bigint, $2::bigint), GREATEST($1::bigint, $2::bigint), $3
WHERE EXISTS (
	SELECT 1
	FROM swipes
	WHERE swiper_id = $2 AND swiped_id = $1 AND direction = ANY($4)
)
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id, user_a_id, user_b_id, created_at
`, userID, targetID, now.UTC(), []string{
		string(enums.SwipeDirectionLike),
		string(enums.SwipeDirectionSuperLike),
	}).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, false, nil
		}
		return model.Match{}, false, fmt.Errorf("create match: %w", err)
	}

	return m, true, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, matchID int64) (model.Match, error) {
	if matchID <= 0 {
		return model.Match{}, fmt.Errorf("invalid match id")
	}
	if r.pool == nil {
		return model.Match{}, fmt.Errorf("postgres pool is nil")
	}

	var m model.Match
	err := r.pool.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, created_at
FROM matches
WHERE id = $1
`, matchID).Scan(&m.ID, &m.UserAID, &m.UserBID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}

	return m, nil
}

// ListForUser returns matches most recent first, joined with the
// counterparty profile the way the matches screen renders them.
func (r *MatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MatchWithProfileRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []MatchWithProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	m.id,
	CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END AS counterpart_id,
	COALESCE(p.display_name, ''),
	COALESCE(p.age, 0),
	COALESCE(p.experience_level, ''),
	m.created_at
FROM matches m
LEFT JOIN profiles p ON p.user_id = CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END
WHERE m.user_a_id = $1 OR m.user_b_id = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchWithProfileRecord, 0, limit)
	for rows.Next() {
		var item MatchWithProfileRecord
		if err := rows.Scan(
			&item.ID,
			&item.CounterpartID,
			&item.DisplayName,
			&item.Age,
			&item.ExperienceLevel,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

func (r *MatchRepo) DeleteByID(ctx context.Context, tx pgx.Tx, matchID int64) (bool, error) {
	if matchID <= 0 {
		return false, fmt.Errorf("invalid match id")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	result, err := tx.Exec(ctx, `
DELETE FROM matches
WHERE id = $1
`, matchID)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
