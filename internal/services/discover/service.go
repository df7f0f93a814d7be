package discover

import (
	"context"
	"errors"
	"fmt"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

type CandidateStore interface {
	ListCandidates(ctx context.Context, userID int64, limit int) ([]model.Profile, error)
}

// Service serves the deck of swipeable partners: available profiles the
// user has not decided on yet.
type Service struct {
	candidates   CandidateStore
	defaultLimit int
}

func NewService(candidates CandidateStore, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}

	return &Service{
		candidates:   candidates,
		defaultLimit: defaultLimit,
	}
}

func (s *Service) Candidates(ctx context.Context, userID int64, limit int) ([]model.Profile, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.candidates == nil {
		return nil, fmt.Errorf("candidate store is nil")
	}
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	return s.candidates.ListCandidates(ctx, userID, limit)
}
