package matches

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
)

type matchStoreStub struct {
	matches map[int64]model.Match
	rows    []pgrepo.MatchWithProfileRecord
}

func (s *matchStoreStub) GetByID(_ context.Context, matchID int64) (model.Match, error) {
	m, ok := s.matches[matchID]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return m, nil
}

func (s *matchStoreStub) ListForUser(_ context.Context, _ int64, limit int) ([]pgrepo.MatchWithProfileRecord, error) {
	if limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *matchStoreStub) DeleteByID(_ context.Context, _ pgx.Tx, matchID int64) (bool, error) {
	if _, ok := s.matches[matchID]; !ok {
		return false, nil
	}
	delete(s.matches, matchID)
	return true, nil
}

type txRunnerStub struct{}

func (txRunnerStub) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	return fn(ctx, nil)
}

func newMatchesService(store *matchStoreStub) *Service {
	return NewService(txRunnerStub{}, store, 100)
}

func TestGetEnforcesParticipation(t *testing.T) {
	store := &matchStoreStub{matches: map[int64]model.Match{
		10: {ID: 10, UserAID: 1, UserBID: 2, CreatedAt: time.Now()},
	}}
	svc := newMatchesService(store)
	ctx := context.Background()

	m, err := svc.Get(ctx, 1, 10)
	if err != nil {
		t.Fatalf("participant get: %v", err)
	}
	if m.Other(1) != 2 {
		t.Fatalf("unexpected counterpart: %d", m.Other(1))
	}

	if _, err := svc.Get(ctx, 3, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
	if _, err := svc.Get(ctx, 1, 99); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestListCapsLimit(t *testing.T) {
	rows := make([]pgrepo.MatchWithProfileRecord, 0, 5)
	for i := 1; i <= 5; i++ {
		rows = append(rows, pgrepo.MatchWithProfileRecord{ID: int64(i), CounterpartID: int64(i + 100)})
	}
	svc := newMatchesService(&matchStoreStub{rows: rows})

	items, err := svc.List(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	items, err = svc.List(context.Background(), 1, 100000)
	if err != nil {
		t.Fatalf("list with huge limit: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected all 5 items under capped limit, got %d", len(items))
	}
}

func TestUnmatchRequiresParticipation(t *testing.T) {
	store := &matchStoreStub{matches: map[int64]model.Match{
		10: {ID: 10, UserAID: 1, UserBID: 2},
	}}
	svc := newMatchesService(store)
	ctx := context.Background()

	if err := svc.Unmatch(ctx, 3, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
	if _, ok := store.matches[10]; !ok {
		t.Fatalf("forbidden unmatch must not delete the match")
	}

	if err := svc.Unmatch(ctx, 1, 10); err != nil {
		t.Fatalf("participant unmatch: %v", err)
	}
	if _, ok := store.matches[10]; ok {
		t.Fatalf("expected match deleted")
	}

	if err := svc.Unmatch(ctx, 1, 10); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound on repeat unmatch, got %v", err)
	}
}
