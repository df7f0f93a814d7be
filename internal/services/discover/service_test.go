package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
)

type candidateStoreStub struct {
	gotLimit int
	profiles []model.Profile
}

func (s *candidateStoreStub) ListCandidates(_ context.Context, _ int64, limit int) ([]model.Profile, error) {
	s.gotLimit = limit
	if limit < len(s.profiles) {
		return s.profiles[:limit], nil
	}
	return s.profiles, nil
}

func TestCandidatesCapsLimit(t *testing.T) {
	store := &candidateStoreStub{profiles: []model.Profile{
		{UserID: 2}, {UserID: 3}, {UserID: 4},
	}}
	svc := NewService(store, 20)

	items, err := svc.Candidates(context.Background(), 1, 9999)
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if store.gotLimit != 20 {
		t.Fatalf("expected capped limit 20, got %d", store.gotLimit)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(items))
	}

	if _, err := svc.Candidates(context.Background(), 0, 10); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
