package handlers

import (
	"errors"
	"net/http"

	"github.com/drekeken-tech/sparmatch/internal/domain/model"
	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	profilessvc "github.com/drekeken-tech/sparmatch/internal/services/profiles"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/dto"
	httperrors "github.com/drekeken-tech/sparmatch/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilessvc.Service
}

func NewProfileHandler(service *profilessvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	h.writeProfile(w, r, identity.UserID)
}

func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	userID, ok := userIDParam(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	h.writeProfile(w, r, userID)
}

func (h *ProfileHandler) SaveMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	saved, err := h.service.Save(r.Context(), identity.UserID, model.Profile{
		DisplayName:     req.DisplayName,
		Age:             req.Age,
		Bio:             req.Bio,
		ExperienceLevel: req.ExperienceLevel,
		WeightClass:     req.WeightClass,
		GymClub:         req.GymClub,
		SparringStyles:  req.SparringStyles,
		Available:       req.Available,
	})
	if err != nil {
		if errors.Is(err, profilessvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(saved))
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profilessvc.ErrProfileNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(p))
}

func mapProfile(p model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:          p.UserID,
		DisplayName:     p.DisplayName,
		Age:             p.Age,
		Bio:             p.Bio,
		ExperienceLevel: p.ExperienceLevel,
		WeightClass:     p.WeightClass,
		GymClub:         p.GymClub,
		SparringStyles:  p.SparringStyles,
		Available:       p.Available,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
