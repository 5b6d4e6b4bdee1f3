package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/urbanbyte/desempenho/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "org_claims"

// Auth valida o token de acesso e injeta as claims decodificadas no contexto.
// Requisição sem token responde 401; token expirado ou inválido responde 403.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				writeError(w, http.StatusUnauthorized, "AUTH", "token de acesso obrigatório")
				return
			}

			claims, err := jwtManager.ParseAndValidate(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeError(w, http.StatusForbidden, "AUTH", "token expirado")
					return
				}
				writeError(w, http.StatusForbidden, "AUTH", "token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims recupera as claims da organização autenticada.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims
}

// GetOrganizationID devolve o id da organização autenticada, ou zero.
func GetOrganizationID(ctx context.Context) int64 {
	if claims := GetClaims(ctx); claims != nil {
		return claims.OrgID
	}
	return 0
}

// SetClaims injeta claims no contexto. Útil em testes de handlers.
func SetClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
