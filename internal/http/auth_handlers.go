package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sun1tar/tasklist-service/internal/middleware"
	"github.com/sun1tar/tasklist-service/internal/service"
)

const (
	detailDuplicateUsername = "Username already registered"
	detailBadCredentials    = "Incorrect username or password"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

type AuthHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
	logger       *logrus.Logger
}

func NewAuthHandler(as *service.AuthService, ts *service.TokenService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  as,
		tokenService: ts,
		logger:       logger,
	}
}

func (h *AuthHandler) logEntry(r *http.Request, handler string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"component":  "http_handler",
		"handler":    handler,
		"request_id": middleware.GetRequestID(r.Context()),
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register обрабатывает POST /register. Токен не выдаётся,
// клиент логинится отдельным запросом
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "Register")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Username) < minUsernameLength {
		writeError(w, http.StatusBadRequest, "username must be at least 3 characters")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrDuplicateUsername) {
		logEntry.WithField("username", req.Username).Warn("duplicate username")
		writeError(w, http.StatusBadRequest, detailDuplicateUsername)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to register user")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("user_id", user.ID).Info("user registered")
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

// Login обрабатывает POST /login. Учётные данные приходят формой,
// как в OAuth2 password flow
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logEntry := h.logEntry(r, "Login")

	if err := r.ParseForm(); err != nil {
		logEntry.WithError(err).Warn("invalid form body")
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		// Неизвестный логин и неверный пароль наружу неразличимы
		logEntry.WithField("username", username).Warn("authentication failed")
		writeError(w, http.StatusBadRequest, detailBadCredentials)
		return
	}
	if err != nil {
		logEntry.WithError(err).Error("failed to authenticate user")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	token, err := h.tokenService.Issue(user.Username)
	if err != nil {
		logEntry.WithError(err).Error("failed to issue token")
		writeError(w, http.StatusInternalServerError, detailInternalError)
		return
	}

	logEntry.WithField("user_id", user.ID).Info("user logged in")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me обрабатывает GET /users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
