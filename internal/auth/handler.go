package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/velkyr/account-api/internal/httputil"
	"github.com/velkyr/account-api/internal/logging"
	"github.com/velkyr/account-api/internal/user"
)

// Handler contains HTTP handlers for the authentication endpoints
type Handler struct {
	service      *Service
	rateLimiter  Limiter
	logger       *logging.Logger
	isProduction bool
}

func NewHandler(service *Service, rateLimiter Limiter, logger *logging.Logger, isProduction bool) *Handler {
	return &Handler{
		service:      service,
		rateLimiter:  rateLimiter,
		logger:       logger,
		isProduction: isProduction,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Secret     string  `json:"secret"`
	Phone      *string `json:"phone"`
	PictureRef *string `json:"picture_ref"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// SignupResponse represents the signup response
type SignupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
}

// Signup handles account creation
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limited(w, r, "signup") {
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, token, err := h.service.Signup(r.Context(), SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Secret:     req.Secret,
		Phone:      req.Phone,
		PictureRef: req.PictureRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("signup failed: email already exists")
			httputil.RespondErrorWithCode(w, "email already exists", httputil.CodeDuplicateResource, http.StatusConflict)
		case errors.Is(err, ErrNameRequired),
			errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrSecretRequired),
			errors.Is(err, ErrSecretTooShort),
			errors.Is(err, ErrInvalidEmailFormat):
			logger.Warn("signup failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationError, http.StatusBadRequest)
		default:
			logger.Error("signup failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, h.internalMessage(err), httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user signed up", "user_id", newUser.ID)

	httputil.RespondJSON(w, SignupResponse{
		Message: "account created successfully",
		Token:   token,
	}, http.StatusCreated)
}

// Login handles credential verification and token issuance
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.limited(w, r, "login") {
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	token, err := h.service.Login(r.Context(), req.Email, req.Secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "invalid email or secret", httputil.CodeInvalidCredentials, http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, h.internalMessage(err), httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in")

	httputil.RespondJSON(w, LoginResponse{Token: token}, http.StatusOK)
}

// limited applies the per-IP rate limit for the given purpose. Limiter
// failures are logged and ignored so an unavailable limiter never blocks
// legitimate traffic.
func (h *Handler) limited(w http.ResponseWriter, r *http.Request, purpose string) bool {
	logger := logging.GetLoggerFromContext(r.Context())
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.Check(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}

	if err := h.rateLimiter.Record(r.Context(), ip, purpose); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	return false
}

// internalMessage hides error details in production
func (h *Handler) internalMessage(err error) string {
	if h.isProduction {
		return "internal error"
	}
	return err.Error()
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr format is "IP:port", extract just the IP
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
