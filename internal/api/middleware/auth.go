package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/MassageStudio-BookingService/internal/api/handlers"
	"github.com/m04kA/MassageStudio-BookingService/pkg/auth"
)

type contextKey string

const (
	adminSubjectKey contextKey = "admin_subject"

	msgUnauthorized = "требуется авторизация администратора"
	msgForbidden    = "доступ запрещен"
)

// TokenParser проверяет access токен
type TokenParser interface {
	ParseValidate(tokenStr string) (*auth.Claims, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AdminAuth пропускает только запросы с валидным Bearer токеном роли admin
func AdminAuth(tokens TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			claims, err := tokens.ParseValidate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			if claims.Role != auth.RoleAdmin {
				logger.Warn("%s %s - Role %q is not allowed: sub=%s", r.Method, r.URL.Path, claims.Role, claims.Sub)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), adminSubjectKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminSubject возвращает идентификатор администратора из контекста
func GetAdminSubject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(adminSubjectKey).(string)
	return sub, ok
}
