package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sun1tar/tasklist-service/internal/models"
	"github.com/sun1tar/tasklist-service/internal/service"
)

const currentUserKey contextKey = "current_user"

// unauthorizedBody - фиксированный ответ на любую проблему с токеном,
// причину наружу не сообщаем
const unauthorizedBody = `{"detail":"Could not validate credentials"}`

// AuthMiddleware проверяет bearer-токен, находит пользователя
// и кладёт его в контекст запроса
func AuthMiddleware(tokens *service.TokenService, auth *service.AuthService, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logEntry := log.WithFields(logrus.Fields{
				"component":  "auth_middleware",
				"request_id": GetRequestID(r.Context()),
			})

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logEntry.Warn("bearer token missing")
				unauthorized(w)
				return
			}

			subject, err := tokens.Verify(token)
			if err != nil {
				logEntry.Warn("token verification failed")
				unauthorized(w)
				return
			}

			user, err := auth.UserBySubject(r.Context(), subject)
			if err != nil {
				logEntry.WithField("subject", subject).Warn("token subject unknown")
				unauthorized(w)
				return
			}

			logEntry.WithField("user_id", user.ID).Debug("token verified")

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(unauthorizedBody))
}

// GetCurrentUser возвращает пользователя, положенного в контекст
// AuthMiddleware, либо nil в однопользовательском режиме
func GetCurrentUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}
