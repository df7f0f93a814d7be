package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	var p model.Profile
	err := r.pool.QueryRow(ctx, `
SELECT user_id, display_name, age, bio, experience_level, weight_class, gym_club, sparring_styles, available, created_at, updated_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&p.UserID,
		&p.DisplayName,
		&p.Age,
		&p.Bio,
		&p.ExperienceLevel,
		&p.WeightClass,
		&p.GymClub,
		&p.SparringStyles,
		&p.Available,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	return p, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	if p.UserID <= 0 {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	age,
	bio,
	experience_level,
	weight_class,
	gym_club,
	sparring_styles,
	available,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	age = EXCLUDED.age,
	bio = EXCLUDED.bio,
	experience_level = EXCLUDED.experience_level,
	weight_class = EXCLUDED.weight_class,
	gym_club = EXCLUDED.gym_club,
	sparring_styles = EXCLUDED.sparring_styles,
	available = EXCLUDED.available,
	updated_at = NOW()
`, p.UserID, p.DisplayName, p.Age, p.Bio, p.ExperienceLevel, p.WeightClass, p.GymClub, p.SparringStyles, p.Available); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

// ListCandidates returns available profiles the user has not yet swiped,
// excluding the user themselves.
func (r *ProfileRepo) ListCandidates(ctx context.Context, userID int64, limit int) ([]model.Profile, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 20
	}
	if r.pool == nil {
		return []model.Profile{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT user_id, display_name, age, bio, experience_level, weight_class, gym_club, sparring_styles, available, created_at, updated_at
FROM profiles p
WHERE
	p.user_id <> $1
	AND p.available = TRUE
	AND NOT EXISTS (
		SELECT 1
		FROM swipes s
		WHERE s.swiper_id = $1 AND s.swiped_id = p.user_id
	)
ORDER BY p.created_at DESC, p.user_id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidate profiles: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0, limit)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(
			&p.UserID,
			&p.DisplayName,
			&p.Age,
			&p.Bio,
			&p.ExperienceLevel,
			&p.WeightClass,
			&p.GymClub,
			&p.SparringStyles,
			&p.Available,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate profile: %w", err)
		}
		items = append(items, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidate profiles: %w", rows.Err())
	}

	return items, nil
}
