package middleware

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/auth"
)

// Authenticate requires a valid bearer token and stores the resolved principal
// in the request context. All failures surface as 401 with a Bearer challenge,
// matching the token issuance route.
func Authenticate(svc *auth.Service, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			principal, err := svc.ValidateToken(r.Context(), token)
			if err != nil {
				logger.WithFields(logrus.Fields{
					"path":   r.URL.Path,
					"reason": err.Error(),
				}).Debug("Bearer authentication failed")
				unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}
