package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

var (
	ErrDuplicateSwipe = errors.New("swipe already recorded for pair")
	ErrSwipeNotFound  = errors.New("swipe not found")
)

type SwipeRepo struct {
	pool *pgxpool.Pool
}

func NewSwipeRepo(pool *pgxpool.Pool) *SwipeRepo {
	return &SwipeRepo{pool: pool}
}

type SwipeRecord struct {
	ID        int64
	SwiperID  int64
	SwipedID  int64
	Direction string
	CreatedAt time.Time
}

// Create appends one decision for the ordered pair. The swipes_pair_unique
// constraint arbitrates retries and concurrent duplicates; a violation comes
// back as ErrDuplicateSwipe.
func (r *SwipeRepo) Create(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64, direction string, now time.Time) (SwipeRecord, error) {
	if swiperID <= 0 || swipedID <= 0 || direction == "" {
		return SwipeRecord{}, fmt.Errorf("invalid swipe payload")
	}
	if tx == nil {
		return SwipeRecord{}, fmt.Errorf("transaction is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var rec SwipeRecord
	err := tx.QueryRow(ctx, `
INSERT INTO swipes (
	swiper_id,
	swiped_id,
	direction,
	created_at
) VALUES ($1, $2, $3, $4)
RETURNING id, swiper_id, swiped_id, direction, created_at
`, swiperID, swipedID, direction, now.UTC()).Scan(
		&rec.ID,
		&rec.SwiperID,
		&rec.SwipedID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return SwipeRecord{}, ErrDuplicateSwipe
		}
		return SwipeRecord{}, fmt.Errorf("create swipe: %w", err)
	}

	return rec, nil
}

// Get returns the stored decision for the ordered pair, if any.
func (r *SwipeRepo) Get(ctx context.Context, swiperID, swipedID int64) (SwipeRecord, error) {
	if swiperID <= 0 || swipedID <= 0 {
		return SwipeRecord{}, fmt.Errorf("invalid swipe lookup payload")
	}
	if r.pool == nil {
		return SwipeRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec SwipeRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, swiper_id, swiped_id, direction, created_at
FROM swipes
WHERE swiper_id = $1 AND swiped_id = $2
`, swiperID, swipedID).Scan(
		&rec.ID,
		&rec.SwiperID,
		&rec.SwipedID,
		&rec.Direction,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SwipeRecord{}, ErrSwipeNotFound
		}
		return SwipeRecord{}, fmt.Errorf("get swipe: %w", err)
	}

	return rec, nil
}

// ListSwipedIDs returns every target the user has already decided on.
func (r *SwipeRepo) ListSwipedIDs(ctx context.Context, swiperID int64) ([]int64, error) {
	if swiperID <= 0 {
		return nil, fmt.Errorf("invalid swiper id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT swiped_id
FROM swipes
WHERE swiper_id = $1
`, swiperID)
	if err != nil {
		return nil, fmt.Errorf("list swiped ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, 64)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swiped id: %w", err)
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate swiped ids: %w", rows.Err())
	}

	return ids, nil
}
