package middleware

import (
	"net/http"
	"strings"

	"github.com/aquaclub/swimtrack/internal/auth"
	"github.com/aquaclub/swimtrack/pkg"

	log "github.com/sirupsen/logrus"
)

// AuthMiddlewareHandler protects the coach endpoints. Athlete-facing
// paths stay open: the coach password is a review gate, not a security
// boundary for the athlete's own data.
type AuthMiddlewareHandler struct {
	loginChecker         *auth.LoginChecker
	protectedPathsPrefix string
}

func NewAuthMiddlewareHandler(loginChecker *auth.LoginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker:         loginChecker,
		protectedPathsPrefix: "/coach/",
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				return
			}

			if !strings.HasPrefix(r.URL.Path, h.protectedPathsPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get("X-SWIM-TOKEN")
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			isLogged, err := h.loginChecker.IsLogged(r.Context(), authToken)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}
			if !isLogged {
				reqIp, _ := pkg.ReadUserIP(r)
				log.Tracef("[invalid token] [auth middleware] unauthorized request from %s => %s", reqIp, r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
