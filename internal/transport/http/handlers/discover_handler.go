package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	discoversvc "github.com/drekeken-tech/sparmatch/internal/services/discover"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/dto"
	httperrors "github.com/drekeken-tech/sparmatch/internal/transport/http/errors"
)

type DiscoverHandler struct {
	service *discoversvc.Service
}

func NewDiscoverHandler(service *discoversvc.Service) *DiscoverHandler {
	return &DiscoverHandler{service: service}
}

func (h *DiscoverHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DISCOVER_SERVICE_UNAVAILABLE", "discover service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)
	candidates, err := h.service.Candidates(r.Context(), identity.UserID, limit)
	if err != nil {
		if errors.Is(err, discoversvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid discover request")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		return
	}

	resp := dto.CandidateListResponse{Items: make([]dto.ProfileResponse, 0, len(candidates))}
	for _, p := range candidates {
		resp.Items = append(resp.Items, mapProfile(p))
	}

	httperrors.Write(w, http.StatusOK, resp)
}
