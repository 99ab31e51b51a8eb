package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/pontoagent/ponto-backend-go/internal/domain/user"
	"github.com/pontoagent/ponto-backend-go/internal/handler/http/response"
	"github.com/pontoagent/ponto-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token carrying a
// known role. Runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		// Tokens without a type claim are access tokens
		if tokenType, ok := claims["type"].(string); ok && tokenType != "access" {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if _, err := jwt.PrincipalFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
