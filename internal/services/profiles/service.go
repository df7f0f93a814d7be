package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	"github.com/drekeken-tech/sparmatch/internal/domain/rules"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileStore interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	Upsert(ctx context.Context, p model.Profile) error
}

type Service struct {
	store ProfileStore
}

func NewService(store ProfileStore) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	p, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}
	return p, nil
}

// Save validates and upserts the caller's own profile. The user id always
// comes from the authenticated identity, never from the payload.
func (s *Service) Save(ctx context.Context, userID int64, p model.Profile) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	p.UserID = userID
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	p.Bio = strings.TrimSpace(p.Bio)
	p.GymClub = strings.TrimSpace(p.GymClub)

	if err := validate(p); err != nil {
		return model.Profile{}, err
	}

	if err := s.store.Upsert(ctx, p); err != nil {
		return model.Profile{}, err
	}

	return s.Get(ctx, userID)
}

func validate(p model.Profile) error {
	if p.DisplayName == "" || len(p.DisplayName) > rules.MaxDisplayNameLen {
		return ErrValidation
	}
	if p.Age < rules.MinAge || p.Age > rules.MaxAge {
		return ErrValidation
	}
	if len(p.Bio) > rules.MaxBioLen {
		return ErrValidation
	}
	if !rules.ValidExperienceLevel(p.ExperienceLevel) {
		return ErrValidation
	}
	if len(p.SparringStyles) > rules.MaxSparringStyles {
		return ErrValidation
	}
	for _, style := range p.SparringStyles {
		if strings.TrimSpace(style) == "" {
			return ErrValidation
		}
	}
	return nil
}
