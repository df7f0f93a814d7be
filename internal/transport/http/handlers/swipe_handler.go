package handlers

import (
	"errors"
	"net/http"
	"strconv"

	authsvc "github.com/drekeken-tech/sparmatch/internal/services/auth"
	swipesvc "github.com/drekeken-tech/sparmatch/internal/services/swipes"
	"github.com/drekeken-tech/sparmatch/internal/transport/http/dto"
	httperrors "github.com/drekeken-tech/sparmatch/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Direction)
	if err != nil {
		writeSwipeError(w, err)
		return
	}

	resp := dto.SwipeResponse{
		OK:           true,
		MatchCreated: result.MatchCreated,
	}
	if result.MatchCreated {
		resp.Match = &dto.MatchResponse{
			ID:        result.Match.ID,
			UserAID:   result.Match.UserAID,
			UserBID:   result.Match.UserBID,
			CreatedAt: result.Match.CreatedAt,
		}
	}

	httperrors.Write(w, http.StatusOK, resp)
}

// Status serves GET /swipes/{targetID}: what the caller already decided
// about the target, so clients recover from a duplicate-swipe conflict by
// re-querying instead of retrying.
func (h *SwipeHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	targetID, ok := targetIDParam(r)
	if !ok {
		writeBadRequest(w, "INVALID_TARGET", "invalid target id")
		return
	}

	swipe, err := h.service.Status(r.Context(), identity.UserID, targetID)
	if err != nil {
		writeSwipeError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeStatusResponse{
		TargetID:  swipe.SwipedID,
		Direction: string(swipe.Direction),
		CreatedAt: swipe.CreatedAt,
	})
}

func writeSwipeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, swipesvc.ErrInvalidTarget):
		writeBadRequest(w, "INVALID_TARGET", "cannot swipe on this target")
	case errors.Is(err, swipesvc.ErrUnsupportedDirection):
		writeBadRequest(w, "VALIDATION_ERROR", "unsupported direction")
	case errors.Is(err, swipesvc.ErrDuplicateSwipe):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "DUPLICATE_SWIPE",
			Message: "pair already decided",
		})
	case errors.Is(err, swipesvc.ErrSwipeNotFound):
		writeNotFound(w, "SWIPE_NOT_FOUND", "no decision recorded for this target")
	default:
		if tf, ok := swipesvc.IsTooFast(err); ok {
			w.Header().Set("Retry-After", strconv.FormatInt(tf.RetryAfter(), 10))
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many swipes, slow down",
				RetryAfterSec: tf.RetryAfter(),
			})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
	}
}
