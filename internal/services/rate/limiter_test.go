package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/drekeken-tech/sparmatch/internal/repo/redis"
)

func TestLimiterBlocksOn10SecondWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 100, 2)

	ctx := context.Background()
	userID := int64(42)

	for i := 0; i < 2; i++ {
		allowed, err := limiter.AllowSwipe(ctx, userID)
		if err != nil {
			t.Fatalf("allow swipe #%d: %v", i+1, err)
		}
		if !allowed {
			t.Fatalf("swipe #%d should be allowed", i+1)
		}
	}

	allowed, err := limiter.AllowSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("allow swipe #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third swipe in 10s window")
	}

	retryAfter, err := limiter.RetryAfterSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if retryAfter <= 0 || retryAfter > 10 {
		t.Fatalf("retry_after out of range: %d", retryAfter)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, err = limiter.RetryAfterSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("retry_after after window reset: %v", err)
	}
	if retryAfter != 0 {
		t.Fatalf("expected zero retry_after after reset, got %d", retryAfter)
	}

	allowed, err = limiter.AllowSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("allow swipe after window reset: %v", err)
	}
	if !allowed {
		t.Fatalf("expected swipe to pass after window reset")
	}
}

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 3, 100)

	ctx := context.Background()
	userID := int64(7)

	for i := 0; i < 3; i++ {
		if allowed, err := limiter.AllowSwipe(ctx, userID); err != nil || !allowed {
			t.Fatalf("swipe #%d: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	allowed, err := limiter.AllowSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("allow swipe #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected minute window block on fourth swipe")
	}

	retryAfter, err := limiter.RetryAfterSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Fatalf("retry_after out of range: %d", retryAfter)
	}
}

func TestLimiterWithoutWindowsAllowsEverything(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 0, 0)

	for i := 0; i < 10; i++ {
		allowed, err := limiter.AllowSwipe(context.Background(), 1)
		if err != nil || !allowed {
			t.Fatalf("unexpected result: allowed=%v err=%v", allowed, err)
		}
	}

	retryAfter, err := limiter.RetryAfterSwipe(context.Background(), 1)
	if err != nil || retryAfter != 0 {
		t.Fatalf("unexpected retry_after: %d err=%v", retryAfter, err)
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
