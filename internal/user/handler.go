package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/velkyr/account-api/internal/httputil"
	"github.com/velkyr/account-api/internal/logging"
)

// Handler contains HTTP handlers for the profile endpoints
type Handler struct {
	service      *Service
	logger       *logging.Logger
	isProduction bool
}

func NewHandler(service *Service, logger *logging.Logger, isProduction bool) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		isProduction: isProduction,
	}
}

// UpdateProfileRequest represents the profile update request body.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	PictureRef *string `json:"picture_ref"`
	Secret     *string `json:"secret"`
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := FromContext(r.Context())
	if !ok {
		// Only reachable if the route is mounted without the auth middleware
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, h.service.GetProfile(identity), http.StatusOK)
}

// UpdateProfile applies a partial update to the authenticated user's profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	in := UpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		PictureRef: req.PictureRef,
		Secret:     req.Secret,
	}

	if err := h.service.UpdateProfile(r.Context(), identity, in); err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			logger.Warn("profile update failed: email already exists")
			httputil.RespondErrorWithCode(w, "email already exists", httputil.CodeDuplicateResource, http.StatusConflict)
		case errors.Is(err, ErrNotFound):
			logger.Warn("profile update failed: user no longer exists", "user_id", identity.ID)
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
		case errors.Is(err, ErrInvalidEmailFormat), errors.Is(err, ErrSecretTooShort):
			logger.Warn("profile update failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
		default:
			logger.Error("profile update failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, h.internalMessage(err), httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("profile updated", "user_id", identity.ID)

	httputil.RespondJSON(w, map[string]string{"message": "profile updated successfully"}, http.StatusOK)
}

// internalMessage hides error details in production
func (h *Handler) internalMessage(err error) string {
	if h.isProduction {
		return "internal error"
	}
	return err.Error()
}
