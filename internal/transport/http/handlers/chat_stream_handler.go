package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	chatsvc "github.com/drekeken-tech/sparmatch/internal/services/chat"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/dto"
)

type StreamConfig struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
}

// ChatStreamHandler upgrades a participant connection to a websocket and
// forwards the live message feed of one match. History is a separate
// endpoint; the stream carries only messages published after the
// subscription is confirmed.
type ChatStreamHandler struct {
	service  *chatsvc.Service
	upgrader websocket.Upgrader
	cfg      StreamConfig
	log      *zap.Logger
}

func NewChatStreamHandler(service *chatsvc.Service, cfg StreamConfig, log *zap.Logger) *ChatStreamHandler {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &ChatStreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		cfg: cfg,
		log: log,
	}
}

func (h *ChatStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, ok := matchIDParam(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Authorization and the bus subscription happen before the upgrade so
	// rejections still go out as plain JSON errors.
	feed, stop, err := h.service.Subscribe(ctx, identity.UserID, matchID)
	if err != nil {
		writeChatError(w, err)
		return
	}
	defer stop()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		return
	}
	defer func() { _ = conn.Close() }()

	subscriberID := uuid.NewString()
	h.log.Info("chat stream opened",
		zap.String("subscriber_id", subscriberID),
		zap.Int64("user_id", identity.UserID),
		zap.Int64("match_id", matchID),
	)
	defer h.log.Info("chat stream closed",
		zap.String("subscriber_id", subscriberID),
		zap.Int64("match_id", matchID),
	)

	// The read loop only drains control frames and detects the peer going
	// away; clients send messages over the REST endpoint.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(h.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case msg, open := <-feed:
			if !open {
				deadline := time.Now().Add(h.cfg.WriteTimeout)
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
					deadline,
				)
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := conn.WriteJSON(dto.MessageResponse{
				ID:        msg.ID,
				MatchID:   msg.MatchID,
				SenderID:  msg.SenderID,
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
			}); err != nil {
				h.log.Warn("chat stream write failed",
					zap.String("subscriber_id", subscriberID),
					zap.Int64("match_id", matchID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
