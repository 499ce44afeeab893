package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/auth"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/logger"
	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/utils"

	"go.uber.org/zap"
)

// RequireAuth rejects requests without a valid bearer credential before any
// persistence is touched. On success the token subject is placed into the
// request context for handlers to resolve.
func RequireAuth(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromCtx(r.Context())

			tokenStr := auth.ExtractBearer(r)
			if tokenStr == "" {
				unauthorized(w, "missing credentials")
				return
			}

			subject, err := tokens.Verify(tokenStr)
			if err != nil {
				log.Warn("credential rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				if errors.Is(err, auth.ErrTokenExpired) {
					unauthorized(w, "token expired")
					return
				}
				unauthorized(w, "invalid token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
