package rate

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter gates positive swipes (like and superlike) with two fixed
// windows so a burst cannot dodge the per-minute cap.
type Limiter struct {
	store   WindowStore
	windows []window
}

type window struct {
	keyPrefix string
	span      time.Duration
	limit     int
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	l := &Limiter{store: store}
	if perMinute > 0 {
		l.windows = append(l.windows, window{keyPrefix: "rate:swipes:min:", span: time.Minute, limit: perMinute})
	}
	if per10Sec > 0 {
		l.windows = append(l.windows, window{keyPrefix: "rate:swipes:10s:", span: 10 * time.Second, limit: per10Sec})
	}
	return l
}

// AllowSwipe consumes one slot in every window and reports whether all of
// them had room. Callers that need the wait follow up with RetryAfterSwipe.
func (l *Limiter) AllowSwipe(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return false, fmt.Errorf("rate limiter store is nil")
	}

	allowed := true
	for _, w := range l.windows {
		count, _, err := l.store.IncrementWindow(ctx, w.key(userID), w.span)
		if err != nil {
			return false, err
		}
		if count > int64(w.limit) {
			allowed = false
		}
	}

	return allowed, nil
}

// RetryAfterSwipe reports the seconds until the longest exhausted window
// resets, without consuming a slot. Zero means the user may swipe now.
func (l *Limiter) RetryAfterSwipe(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)
	for _, w := range l.windows {
		count, ttl, err := l.store.WindowState(ctx, w.key(userID))
		if err != nil {
			return 0, err
		}
		if count >= int64(w.limit) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func (w window) key(userID int64) string {
	return w.keyPrefix + strconv.FormatInt(userID, 10)
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
