package swipes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/drekeken-tech/sparmatch/internal/domain/enums"
	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
)

type pairKey struct {
	a int64
	b int64
}

func canonicalPair(x, y int64) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// pairStoreFake mirrors the table semantics: one row per ordered swipe
// pair, one match row per canonical pair, reciprocal check and insert under
// a single lock.
type pairStoreFake struct {
	mu          sync.Mutex
	nextSwipeID int64
	nextMatchID int64
	swipes      map[[2]int64]pgrepo.SwipeRecord
	matches     map[pairKey]model.Match
}

func newPairStoreFake() *pairStoreFake {
	return &pairStoreFake{
		swipes:  map[[2]int64]pgrepo.SwipeRecord{},
		matches: map[pairKey]model.Match{},
	}
}

func (f *pairStoreFake) Create(_ context.Context, _ pgx.Tx, swiperID, swipedID int64, direction string, now time.Time) (pgrepo.SwipeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]int64{swiperID, swipedID}
	if _, ok := f.swipes[key]; ok {
		return pgrepo.SwipeRecord{}, pgrepo.ErrDuplicateSwipe
	}

	f.nextSwipeID++
	rec := pgrepo.SwipeRecord{
		ID:        f.nextSwipeID,
		SwiperID:  swiperID,
		SwipedID:  swipedID,
		Direction: direction,
		CreatedAt: now,
	}
	f.swipes[key] = rec
	return rec, nil
}

func (f *pairStoreFake) Get(_ context.Context, swiperID, swipedID int64) (pgrepo.SwipeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.swipes[[2]int64{swiperID, swipedID}]
	if !ok {
		return pgrepo.SwipeRecord{}, pgrepo.ErrSwipeNotFound
	}
	return rec, nil
}

func (f *pairStoreFake) CreateIfMutual(_ context.Context, _ pgx.Tx, userID, targetID int64, now time.Time) (model.Match, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reciprocal, ok := f.swipes[[2]int64{targetID, userID}]
	if !ok || !enums.SwipeDirection(reciprocal.Direction).Mutual() {
		return model.Match{}, false, nil
	}

	key := canonicalPair(userID, targetID)
	if _, exists := f.matches[key]; exists {
		return model.Match{}, false, nil
	}

	f.nextMatchID++
	m := model.Match{
		ID:        f.nextMatchID,
		UserAID:   key.a,
		UserBID:   key.b,
		CreatedAt: now,
	}
	f.matches[key] = m
	return m, true, nil
}

type limiterStub struct {
	allowed    bool
	retryAfter int64
	calls      atomic.Int64
	retryCalls atomic.Int64
}

func (l *limiterStub) AllowSwipe(context.Context, int64) (bool, error) {
	l.calls.Add(1)
	return l.allowed, nil
}

func (l *limiterStub) RetryAfterSwipe(context.Context, int64) (int64, error) {
	l.retryCalls.Add(1)
	return l.retryAfter, nil
}

// txRunnerFake runs the callback without a database but keeps the pair lock
// contract: overlapping calls for the same canonical pair serialize.
type txRunnerFake struct {
	mu        sync.Mutex
	pairLocks map[pairKey]*sync.Mutex
	lockCalls atomic.Int64
}

func newTxRunnerFake() *txRunnerFake {
	return &txRunnerFake{pairLocks: map[pairKey]*sync.Mutex{}}
}

type txLocksKey struct{}

func (f *txRunnerFake) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	held := &[]*sync.Mutex{}
	defer func() {
		for _, mu := range *held {
			mu.Unlock()
		}
	}()
	return fn(context.WithValue(ctx, txLocksKey{}, held), nil)
}

func (f *txRunnerFake) LockPair(ctx context.Context, _ pgx.Tx, userA, userB int64) error {
	f.lockCalls.Add(1)

	key := canonicalPair(userA, userB)
	f.mu.Lock()
	mu, ok := f.pairLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		f.pairLocks[key] = mu
	}
	f.mu.Unlock()

	mu.Lock()
	held := ctx.Value(txLocksKey{}).(*[]*sync.Mutex)
	*held = append(*held, mu)
	return nil
}

func newTestService(store *pairStoreFake, limiter RateLimiter) (*Service, *txRunnerFake) {
	tx := newTxRunnerFake()
	svc := NewService(Dependencies{
		Tx:          tx,
		SwipeStore:  store,
		MatchStore:  store,
		RateLimiter: limiter,
	})
	svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc, tx
}

func TestSwipeValidation(t *testing.T) {
	svc, _ := newTestService(newPairStoreFake(), nil)
	ctx := context.Background()

	if _, err := svc.Swipe(ctx, 0, 2, "LIKE"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget for zero swiper, got %v", err)
	}
	if _, err := svc.Swipe(ctx, 1, -3, "LIKE"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget for negative target, got %v", err)
	}
	if _, err := svc.Swipe(ctx, 5, 5, "LIKE"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget for self swipe, got %v", err)
	}
	if _, err := svc.Swipe(ctx, 1, 2, "SIDEWAYS"); !errors.Is(err, ErrUnsupportedDirection) {
		t.Fatalf("expected ErrUnsupportedDirection, got %v", err)
	}
}

func TestSwipeAcceptsGestureAliases(t *testing.T) {
	store := newPairStoreFake()
	svc, _ := newTestService(store, nil)

	res, err := svc.Swipe(context.Background(), 1, 2, "right")
	if err != nil {
		t.Fatalf("swipe right: %v", err)
	}
	if res.Swipe.Direction != enums.SwipeDirectionLike {
		t.Fatalf("expected LIKE from right alias, got %s", res.Swipe.Direction)
	}

	res, err = svc.Swipe(context.Background(), 1, 3, "up")
	if err != nil {
		t.Fatalf("swipe up: %v", err)
	}
	if res.Swipe.Direction != enums.SwipeDirectionSuperLike {
		t.Fatalf("expected SUPERLIKE from up alias, got %s", res.Swipe.Direction)
	}
}

func TestRejectNeverCreatesMatch(t *testing.T) {
	store := newPairStoreFake()
	svc, _ := newTestService(store, nil)
	ctx := context.Background()

	if _, err := svc.Swipe(ctx, 2, 1, "LIKE"); err != nil {
		t.Fatalf("seed like: %v", err)
	}

	res, err := svc.Swipe(ctx, 1, 2, "REJECT")
	if err != nil {
		t.Fatalf("reject swipe: %v", err)
	}
	if res.MatchCreated {
		t.Fatalf("reject must never create a match")
	}
	if len(store.matches) != 0 {
		t.Fatalf("expected no match rows, got %d", len(store.matches))
	}
}

func TestMutualLikeCreatesMatchOnce(t *testing.T) {
	store := newPairStoreFake()
	svc, tx := newTestService(store, nil)
	ctx := context.Background()

	first, err := svc.Swipe(ctx, 1, 2, "LIKE")
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if first.MatchCreated {
		t.Fatalf("one-sided like must not match")
	}

	second, err := svc.Swipe(ctx, 2, 1, "SUPERLIKE")
	if err != nil {
		t.Fatalf("completing superlike: %v", err)
	}
	if !second.MatchCreated {
		t.Fatalf("reciprocal superlike must complete the match")
	}
	if second.Match.UserAID != 1 || second.Match.UserBID != 2 {
		t.Fatalf("unexpected match orientation: %+v", second.Match)
	}
	if len(store.matches) != 1 {
		t.Fatalf("expected exactly one match row, got %d", len(store.matches))
	}
	if tx.lockCalls.Load() != 2 {
		t.Fatalf("expected pair lock per swipe, got %d", tx.lockCalls.Load())
	}
}

func TestConcurrentMutualSwipesCreateOneMatch(t *testing.T) {
	for i := 0; i < 50; i++ {
		store := newPairStoreFake()
		svc, _ := newTestService(store, nil)
		ctx := context.Background()

		var created atomic.Int64
		var wg sync.WaitGroup
		swipe := func(from, to int64) {
			defer wg.Done()
			res, err := svc.Swipe(ctx, from, to, "LIKE")
			if err != nil {
				t.Errorf("swipe %d->%d: %v", from, to, err)
				return
			}
			if res.MatchCreated {
				created.Add(1)
			}
		}

		wg.Add(2)
		go swipe(1, 2)
		go swipe(2, 1)
		wg.Wait()

		if t.Failed() {
			return
		}
		if created.Load() != 1 {
			t.Fatalf("run %d: expected exactly one completer, got %d", i, created.Load())
		}
		if len(store.matches) != 1 {
			t.Fatalf("run %d: expected one match row, got %d", i, len(store.matches))
		}
	}
}

func TestDuplicateSwipeIsSurfaced(t *testing.T) {
	store := newPairStoreFake()
	svc, _ := newTestService(store, nil)
	ctx := context.Background()

	if _, err := svc.Swipe(ctx, 1, 2, "LIKE"); err != nil {
		t.Fatalf("first swipe: %v", err)
	}

	if _, err := svc.Swipe(ctx, 1, 2, "REJECT"); !errors.Is(err, ErrDuplicateSwipe) {
		t.Fatalf("expected ErrDuplicateSwipe, got %v", err)
	}
	if len(store.swipes) != 1 {
		t.Fatalf("duplicate must not add rows, have %d", len(store.swipes))
	}
}

func TestRateLimiterGatesOnlyPositiveDirections(t *testing.T) {
	store := newPairStoreFake()
	limiter := &limiterStub{allowed: false, retryAfter: 7}
	svc, _ := newTestService(store, limiter)
	ctx := context.Background()

	if _, err := svc.Swipe(ctx, 1, 2, "REJECT"); err != nil {
		t.Fatalf("reject should bypass the limiter: %v", err)
	}
	if limiter.calls.Load() != 0 {
		t.Fatalf("limiter must not run for reject, ran %d times", limiter.calls.Load())
	}

	_, err := svc.Swipe(ctx, 1, 3, "LIKE")
	tooFast, ok := IsTooFast(err)
	if !ok {
		t.Fatalf("expected TooFastError, got %v", err)
	}
	if tooFast.RetryAfter() != 7 {
		t.Fatalf("expected retry_after 7, got %d", tooFast.RetryAfter())
	}
	if limiter.retryCalls.Load() != 1 {
		t.Fatalf("blocked like must consult the retry-after state, consulted %d times", limiter.retryCalls.Load())
	}
	if len(store.swipes) != 1 {
		t.Fatalf("blocked like must not store a swipe, have %d", len(store.swipes))
	}
}

func TestStatusReportsStoredDecision(t *testing.T) {
	store := newPairStoreFake()
	svc, _ := newTestService(store, nil)
	ctx := context.Background()

	if _, err := svc.Status(ctx, 1, 2); !errors.Is(err, ErrSwipeNotFound) {
		t.Fatalf("expected ErrSwipeNotFound before any swipe, got %v", err)
	}

	if _, err := svc.Swipe(ctx, 1, 2, "up"); err != nil {
		t.Fatalf("seed superlike: %v", err)
	}

	swipe, err := svc.Status(ctx, 1, 2)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if swipe.Direction != enums.SwipeDirectionSuperLike || swipe.SwipedID != 2 {
		t.Fatalf("unexpected stored decision: %+v", swipe)
	}

	if _, err := svc.Status(ctx, 2, 1); !errors.Is(err, ErrSwipeNotFound) {
		t.Fatalf("status must be per direction, got %v", err)
	}
	if _, err := svc.Status(ctx, 1, 1); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget for self lookup, got %v", err)
	}
}
