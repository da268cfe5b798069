package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warelane/stockscan/internal/domain"
	"github.com/warelane/stockscan/internal/http/response"
	"github.com/warelane/stockscan/internal/platform/session"
	"github.com/warelane/stockscan/internal/service"
	"github.com/warelane/stockscan/pkg/logger"
)

type AuthHandler struct {
	Auth         service.AuthService
	Registration service.RegistrationService
	Sessions     *session.Manager
}

func NewAuthHandler(auth service.AuthService, registration service.RegistrationService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{Auth: auth, Registration: registration, Sessions: sessions}
}

func (h *AuthHandler) Routes(otpLimiter func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if otpLimiter != nil {
		r.With(otpLimiter).Post("/send-otp", h.sendOTP)
	} else {
		r.Post("/send-otp", h.sendOTP)
	}
	r.Post("/verify-otp", h.verifyOTP)
	r.Post("/register", h.register)
	r.Get("/logout", h.logout)
	return r
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := h.Auth.RequestChallenge(r.Context(), in.Email); err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	identity, err := h.Auth.VerifyChallenge(r.Context(), in.Email, in.OTP)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	if err := h.Sessions.Establish(w, r, *identity); err != nil {
		logger.ErrorContext(r.Context(), "failed to establish session", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"redirectUrl": "/dashboard",
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	acct, err := h.Registration.Register(r.Context(), &in)
	if err != nil {
		if domain.IsValidation(err) {
			response.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		if se, ok := domain.AsStore(err); ok {
			response.FailDetail(w, http.StatusBadRequest, "Registration failed", se.Err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "registration failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Registration successful! You can now login.",
		"code":    acct.Code,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Invalidate(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// writeAuthError maps auth-domain failures to the wire. Business declines are
// 200 with success:false; only malformed input gets a 4xx.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		response.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotRegistered),
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrInvalidChallenge):
		response.Fail(w, http.StatusOK, err.Error())
	case domain.IsDelivery(err):
		response.Fail(w, http.StatusOK, err.Error())
	default:
		if se, ok := domain.AsStore(err); ok {
			response.FailDetail(w, http.StatusOK, "Database query failed.", se.Err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "auth request failed", "error", err)
		response.Fail(w, http.StatusInternalServerError, "Internal error")
	}
}
