package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	chatsvc "github.com/drekeken-tech/sparmatch/internal/services/chat"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/dto"
	httperrors "github.com/drekeken-tech/sparmatch/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
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

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Append(r.Context(), identity.UserID, matchID, req.Content)
	if err != nil {
		writeChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.MessageResponse{
		ID:        msg.ID,
		MatchID:   msg.MatchID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
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

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)
	messages, err := h.service.History(r.Context(), identity.UserID, matchID, limit)
	if err != nil {
		writeChatError(w, err)
		return
	}

	resp := dto.MessageListResponse{Items: make([]dto.MessageResponse, 0, len(messages))}
	for _, msg := range messages {
		resp.Items = append(resp.Items, dto.MessageResponse{
			ID:        msg.ID,
			MatchID:   msg.MatchID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, chatsvc.ErrEmptyContent):
		writeBadRequest(w, "EMPTY_CONTENT", "message content is empty")
	case errors.Is(err, chatsvc.ErrContentTooLong):
		writeBadRequest(w, "CONTENT_TOO_LONG", "message content too long")
	case errors.Is(err, chatsvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, chatsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a match participant")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process chat request")
	}
}
