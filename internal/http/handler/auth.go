package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sjyoon/taskhub-api/internal/cognito"
	"github.com/sjyoon/taskhub-api/internal/engine"
	"github.com/sjyoon/taskhub-api/internal/service"
)

// Auth request bodies are small; reject anything oversized early.
const maxAuthBodySize = 1 << 20

type AuthHandler struct {
	authSvc *service.AuthService
	engines *engine.Manager
}

func NewAuthHandler(authSvc *service.AuthService, engines *engine.Manager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, engines: engines}
}

// ServeHTTP routes /api/v1/auth/{signup,confirm-signup,resend-code,login,refresh,logout,me}.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/v1/auth/")

	switch action {
	case "signup":
		h.handleSignUp(w, r)
	case "confirm-signup":
		h.handleConfirmSignUp(w, r)
	case "resend-code":
		h.handleResendCode(w, r)
	case "login":
		h.handleLogin(w, r)
	case "refresh":
		h.handleRefresh(w, r)
	case "logout":
		h.handleLogout(w, r)
	case "me":
		h.handleMe(w, r)
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAuthBodySize)
	return true
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (h *AuthHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.authSvc.SignUp(r.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, out)
}

type confirmSignUpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *AuthHandler) handleConfirmSignUp(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req confirmSignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := h.authSvc.ConfirmSignUp(r.Context(), service.ConfirmSignUpInput{
		Email: req.Email,
		Code:  req.Code,
	}); err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "account confirmed"})
}

type resendCodeRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) handleResendCode(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req resendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	if err := h.authSvc.ResendCode(r.Context(), service.ResendCodeInput{Email: req.Email}); err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "confirmation code sent"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.authSvc.SignIn(r.Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, out)
}

type refreshRequest struct {
	Email        string `json:"email"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.authSvc.Refresh(r.Context(), service.RefreshInput{
		Email:        req.Email,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, out)
}

type logoutRequest struct {
	AccessToken string `json:"access_token"`
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	// Resolve the user before revoking the token; afterwards the token is
	// no longer usable for lookups.
	var evictID string
	if user, err := h.authSvc.CurrentUser(r.Context(), req.AccessToken); err == nil {
		evictID = user.ID
	}

	if err := h.authSvc.SignOut(r.Context(), service.SignOutInput{AccessToken: req.AccessToken}); err != nil {
		handleAuthError(w, err)
		return
	}

	if evictID != "" {
		h.engines.Evict(evictID)
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	token := bearerToken(r)
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	user, err := h.authSvc.CurrentUser(r.Context(), token)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// handleAuthError maps auth failures to HTTP responses. Cognito sentinel
// errors carry their own status and code; anything unrecognized is a 500
// with a generic message so provider internals never leak to clients.
func handleAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		return
	}
	if info, ok := cognito.LookupError(err); ok {
		WriteError(w, info.Status, info.Code, cognitoErrorMessage(info.Code))
		return
	}
	slog.Error("auth request failed", "error", err)
	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// User-facing messages per error code. Sentinel error strings are for logs,
// not for clients.
var authErrorMessages = map[string]string{
	"USER_ALREADY_EXISTS": "an account with this email already exists",
	"USER_NOT_FOUND":      "no account with this email exists",
	"USER_NOT_CONFIRMED":  "account is not confirmed",
	"INVALID_PASSWORD":    "password does not meet requirements",
	"INVALID_CODE":        "confirmation code is invalid",
	"CODE_EXPIRED":        "confirmation code has expired",
	"TOO_MANY_REQUESTS":   "too many requests, try again later",
	"NOT_AUTHORIZED":      "incorrect email or password",
	"LIMIT_EXCEEDED":      "request limit exceeded, try again later",
	"INVALID_PARAMETER":   "invalid request parameter",
}

func cognitoErrorMessage(code string) string {
	if msg, ok := authErrorMessages[code]; ok {
		return msg
	}
	return "authentication failed"
}
