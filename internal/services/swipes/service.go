package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/drekeken-tech/sparmatch/internal/domain/enums"
	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
)

var (
	ErrInvalidTarget        = errors.New("invalid swipe target")
	ErrUnsupportedDirection = errors.New("unsupported swipe direction")
	ErrDuplicateSwipe       = errors.New("pair already decided")
	ErrSwipeNotFound        = errors.New("swipe not found")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type SwipeStore interface {
	Create(ctx context.Context, tx pgx.Tx, swiperID, swipedID int64, direction string, now time.Time) (pgrepo.SwipeRecord, error)
	Get(ctx context.Context, swiperID, swipedID int64) (pgrepo.SwipeRecord, error)
}

type MatchStore interface {
	CreateIfMutual(ctx context.Context, tx pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error)
}

type RateLimiter interface {
	AllowSwipe(ctx context.Context, userID int64) (bool, error)
	RetryAfterSwipe(ctx context.Context, userID int64) (int64, error)
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	LockPair(ctx context.Context, tx pgx.Tx, userA, userB int64) error
}

type Result struct {
	Swipe        model.Swipe
	MatchCreated bool
	Match        model.Match
}

type Dependencies struct {
	Tx          TxRunner
	SwipeStore  SwipeStore
	MatchStore  MatchStore
	RateLimiter RateLimiter
	Logger      *zap.Logger
}

// Service records swipe decisions and completes mutual matches inside the
// same transaction, so a match either commits together with its completing
// swipe or not at all.
type Service struct {
	tx          TxRunner
	swipeStore  SwipeStore
	matchStore  MatchStore
	rateLimiter RateLimiter
	log         *zap.Logger
	now         func() time.Time
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		tx:          deps.Tx,
		swipeStore:  deps.SwipeStore,
		matchStore:  deps.MatchStore,
		rateLimiter: deps.RateLimiter,
		log:         log,
		now:         time.Now,
	}
}

// Swipe records one decision by userID about targetID. For like and
// superlike it also attempts match completion: when the target has already
// liked or superliked back, exactly one match row appears for the pair no
// matter how the two swipes interleave. A repeated decision for the same
// pair returns ErrDuplicateSwipe and changes nothing.
func (s *Service) Swipe(ctx context.Context, userID, targetID int64, direction string) (Result, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return Result{}, ErrInvalidTarget
	}

	normalized, err := normalizeDirection(direction)
	if err != nil {
		return Result{}, err
	}

	if s.tx == nil || s.swipeStore == nil || s.matchStore == nil {
		return Result{}, fmt.Errorf("swipe dependencies are not configured")
	}

	if normalized.Mutual() && s.rateLimiter != nil {
		allowed, err := s.rateLimiter.AllowSwipe(ctx, userID)
		if err != nil {
			return Result{}, fmt.Errorf("apply swipe rate limiter: %w", err)
		}
		if !allowed {
			retryAfter, err := s.rateLimiter.RetryAfterSwipe(ctx, userID)
			if err != nil {
				s.log.Warn("read swipe retry-after state", zap.Int64("user_id", userID), zap.Error(err))
			}
			return Result{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()

	var result Result
	if err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.tx.LockPair(txCtx, tx, userID, targetID); err != nil {
			return err
		}

		rec, err := s.swipeStore.Create(txCtx, tx, userID, targetID, string(normalized), now)
		if err != nil {
			if errors.Is(err, pgrepo.ErrDuplicateSwipe) {
				return ErrDuplicateSwipe
			}
			return err
		}
		result.Swipe = swipeFromRecord(rec)

		if !normalized.Mutual() {
			return nil
		}

		match, created, err := s.matchStore.CreateIfMutual(txCtx, tx, userID, targetID, now)
		if err != nil {
			return err
		}
		result.MatchCreated = created
		result.Match = match
		return nil
	}); err != nil {
		return Result{}, err
	}

	if result.MatchCreated {
		s.log.Info("match created",
			zap.Int64("match_id", result.Match.ID),
			zap.Int64("user_a_id", result.Match.UserAID),
			zap.Int64("user_b_id", result.Match.UserBID),
		)
	}

	return result, nil
}

// Status returns the caller's stored decision about targetID, so a client
// hitting ErrDuplicateSwipe can re-query what was recorded instead of
// retrying blindly.
func (s *Service) Status(ctx context.Context, userID, targetID int64) (model.Swipe, error) {
	if userID <= 0 || targetID <= 0 || userID == targetID {
		return model.Swipe{}, ErrInvalidTarget
	}
	if s.swipeStore == nil {
		return model.Swipe{}, fmt.Errorf("swipe dependencies are not configured")
	}

	rec, err := s.swipeStore.Get(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSwipeNotFound) {
			return model.Swipe{}, ErrSwipeNotFound
		}
		return model.Swipe{}, err
	}

	return swipeFromRecord(rec), nil
}

func swipeFromRecord(rec pgrepo.SwipeRecord) model.Swipe {
	return model.Swipe{
		ID:        rec.ID,
		SwiperID:  rec.SwiperID,
		SwipedID:  rec.SwipedID,
		Direction: enums.SwipeDirection(rec.Direction),
		CreatedAt: rec.CreatedAt,
	}
}

// normalizeDirection accepts the canonical names and the gesture aliases
// the mobile client sends (left, right, up).
func normalizeDirection(raw string) (enums.SwipeDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(enums.SwipeDirectionReject), "LEFT", "DISLIKE":
		return enums.SwipeDirectionReject, nil
	case string(enums.SwipeDirectionLike), "RIGHT":
		return enums.SwipeDirectionLike, nil
	case string(enums.SwipeDirectionSuperLike), "UP":
		return enums.SwipeDirectionSuperLike, nil
	default:
		return "", ErrUnsupportedDirection
	}
}
