package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	pgrepo "github.com/drekeken-tech/sparmatch/internal/repo/postgres"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrEmptyContent   = errors.New("message content is empty")
	ErrContentTooLong = errors.New("message content too long")
	ErrMatchNotFound  = errors.New("match not found")
	ErrForbidden      = errors.New("not a match participant")
)

type MessageStore interface {
	Create(ctx context.Context, matchID, senderID int64, content string, now time.Time) (model.Message, error)
	ListByMatch(ctx context.Context, matchID int64, limit int) ([]model.Message, error)
}

type MatchStore interface {
	GetByID(ctx context.Context, matchID int64) (model.Match, error)
}

type Bus interface {
	Publish(ctx context.Context, matchID int64, payload []byte) error
	Subscribe(ctx context.Context, matchID int64) (<-chan []byte, func(), error)
}

type Config struct {
	HistoryLimit     int
	MaxContentBytes  int
	SubscriberBuffer int
}

type Dependencies struct {
	Messages MessageStore
	Matches  MatchStore
	Bus      Bus
	Logger   *zap.Logger
}

// Service is the per-match conversation pipeline: durable append first,
// live fan-out second. The durable log is the source of truth; the bus only
// accelerates delivery to connected participants.
type Service struct {
	messages MessageStore
	matches  MatchStore
	bus      Bus
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 500
	}
	if cfg.MaxContentBytes <= 0 {
		cfg.MaxContentBytes = 4096
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 64
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		messages: deps.Messages,
		matches:  deps.Matches,
		bus:      deps.Bus,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Append stores one message and publishes it to the match channel. The
// publish happens only after the durable write: a message visible to a live
// subscriber is always recoverable from history.
func (s *Service) Append(ctx context.Context, userID, matchID int64, content string) (model.Message, error) {
	if userID <= 0 || matchID <= 0 {
		return model.Message{}, ErrValidation
	}
	if s.messages == nil || s.matches == nil {
		return model.Message{}, fmt.Errorf("chat dependencies are not configured")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, ErrEmptyContent
	}
	if len(content) > s.cfg.MaxContentBytes {
		return model.Message{}, ErrContentTooLong
	}

	if err := s.authorize(ctx, userID, matchID); err != nil {
		return model.Message{}, err
	}

	msg, err := s.messages.Create(ctx, matchID, userID, content, s.now().UTC())
	if err != nil {
		return model.Message{}, err
	}

	if s.bus != nil {
		payload, err := json.Marshal(msg)
		if err != nil {
			return model.Message{}, fmt.Errorf("encode message payload: %w", err)
		}
		if err := s.bus.Publish(ctx, matchID, payload); err != nil {
			// The write is durable; subscribers pick the message up from
			// history on their next reconnect.
			s.log.Warn("chat publish failed",
				zap.Int64("match_id", matchID),
				zap.Int64("message_id", msg.ID),
				zap.Error(err),
			)
		}
	}

	return msg, nil
}

// History returns the conversation backlog oldest first.
func (s *Service) History(ctx context.Context, userID, matchID int64, limit int) ([]model.Message, error) {
	if userID <= 0 || matchID <= 0 {
		return nil, ErrValidation
	}
	if s.messages == nil || s.matches == nil {
		return nil, fmt.Errorf("chat dependencies are not configured")
	}
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	if err := s.authorize(ctx, userID, matchID); err != nil {
		return nil, err
	}

	return s.messages.ListByMatch(ctx, matchID, limit)
}

// Subscribe opens a live message feed for a participant. Messages sent
// before the subscription was confirmed are not replayed; callers fetch
// History to fill the gap.
func (s *Service) Subscribe(ctx context.Context, userID, matchID int64) (<-chan model.Message, func(), error) {
	if userID <= 0 || matchID <= 0 {
		return nil, nil, ErrValidation
	}
	if s.bus == nil || s.matches == nil {
		return nil, nil, fmt.Errorf("chat dependencies are not configured")
	}

	if err := s.authorize(ctx, userID, matchID); err != nil {
		return nil, nil, err
	}

	raw, stop, err := s.bus.Subscribe(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}

	// The buffer absorbs bursts while a websocket write is in flight.
	out := make(chan model.Message, s.cfg.SubscriberBuffer)
	go func() {
		defer close(out)
		for payload := range raw {
			var msg model.Message
			if err := json.Unmarshal(payload, &msg); err != nil {
				s.log.Warn("drop malformed chat payload",
					zap.Int64("match_id", matchID),
					zap.Error(err),
				)
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, stop, nil
}

func (s *Service) authorize(ctx context.Context, userID, matchID int64) error {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if !m.HasParticipant(userID) {
		s.log.Warn("chat access denied for non-participant",
			zap.Int64("user_id", userID),
			zap.Int64("match_id", matchID),
		)
		return ErrForbidden
	}
	return nil
}
