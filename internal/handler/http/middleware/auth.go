package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token carrying
// an employee_id. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != jwt.TokenTypeAccess || !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if employeeID, ok := claims["employee_id"].(string); !ok || employeeID == "" {
			response.HandleError(w, auth.ErrEmployeeClaimMissing)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TokenFromQuery reads the token from the "token" query parameter, for
// EventSource clients that cannot set headers.
func TokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}
