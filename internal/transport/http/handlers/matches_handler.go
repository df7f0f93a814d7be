package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	matchessvc "github.com/drekeken-tech/sparmatch/internal/services/matches"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/dto"
	httperrors "github.com/drekeken-tech/sparmatch/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)
	items, err := h.service.List(r.Context(), identity.UserID, limit)
	if err != nil {
		if errors.Is(err, matchessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid matches request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to list matches")
		return
	}

	resp := dto.MatchListResponse{Items: make([]dto.MatchListItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.MatchListItem{
			ID:              item.ID,
			CounterpartID:   item.CounterpartID,
			DisplayName:     item.DisplayName,
			Age:             item.Age,
			ExperienceLevel: item.ExperienceLevel,
			CreatedAt:       item.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *MatchesHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, ok := matchIDParam(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	m, err := h.service.Get(r.Context(), identity.UserID, matchID)
	if err != nil {
		writeMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchResponse{
		ID:        m.ID,
		UserAID:   m.UserAID,
		UserBID:   m.UserBID,
		CreatedAt: m.CreatedAt,
	})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, ok := matchIDParam(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	if err := h.service.Unmatch(r.Context(), identity.UserID, matchID); err != nil {
		writeMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func writeMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
	case errors.Is(err, matchessvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, matchessvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a match participant")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process match request")
	}
}
