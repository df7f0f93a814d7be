package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrMatchNotFound = errors.New("match not found")
	ErrForbidden     = errors.New("not a match participant")
)

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (model.Match, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchWithProfileRecord, error)
	DeleteByID(ctx context.Context, tx pgx.Tx, matchID int64) (bool, error)
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type MatchItem struct {
	ID              int64
	CounterpartID   int64
	DisplayName     string
	Age             int
	ExperienceLevel string
	CreatedAt       time.Time
}

type Service struct {
	tx           TxRunner
	matchStore   MatchStore
	defaultLimit int
}

func NewService(tx TxRunner, matchStore MatchStore, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}

	return &Service{
		tx:           tx,
		matchStore:   matchStore,
		defaultLimit: defaultLimit,
	}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]MatchItem, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	rows, err := s.matchStore.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchItem{
			ID:              row.ID,
			CounterpartID:   row.CounterpartID,
			DisplayName:     row.DisplayName,
			Age:             row.Age,
			ExperienceLevel: row.ExperienceLevel,
			CreatedAt:       row.CreatedAt,
		})
	}
	return items, nil
}

// Get returns the match only to its participants. A non-participant gets
// ErrForbidden, not ErrMatchNotFound, so the handler can log the attempt.
func (s *Service) Get(ctx context.Context, userID, matchID int64) (model.Match, error) {
	if userID <= 0 || matchID <= 0 {
		return model.Match{}, ErrValidation
	}
	if s.matchStore == nil {
		return model.Match{}, fmt.Errorf("match store is nil")
	}

	m, err := s.matchStore.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, err
	}
	if !m.HasParticipant(userID) {
		return model.Match{}, ErrForbidden
	}

	return m, nil
}

// Unmatch removes the match row. Messages go with it through the foreign
// key cascade, so a later re-match starts a fresh conversation.
func (s *Service) Unmatch(ctx context.Context, userID, matchID int64) error {
	if userID <= 0 || matchID <= 0 {
		return ErrValidation
	}
	if s.matchStore == nil || s.tx == nil {
		return fmt.Errorf("unmatch dependencies are not configured")
	}

	m, err := s.Get(ctx, userID, matchID)
	if err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		deleted, err := s.matchStore.DeleteByID(txCtx, tx, m.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrMatchNotFound
		}
		return nil
	})
}
