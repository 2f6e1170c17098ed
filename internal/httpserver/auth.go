package httpserver

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireAdmin enforces an HS256 JWT signed with secret and carrying a subject.
func requireAdmin(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "Unauthorized"})
				return
			}
			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid || claims.Subject == "" {
				writeJSON(w, http.StatusUnauthorized, envelope{Message: "Invalid token"})
				return
			}
			hlog.FromRequest(r).Info().Str("admin", claims.Subject).Msg("admin request")
			next.ServeHTTP(w, r)
		})
	}
}

// handleAdminRefresh forces a sheet refresh and returns the resulting stats.
// A failed refresh with cached data answers 200 with stale:true.
func (s *Server) handleAdminRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Get(r.Context(), true)
	if err != nil {
		writeError(w, r, err, "Lỗi Server nội bộ khi làm mới dữ liệu.", nil)
		return
	}
	body := s.statsEnvelope(snap)
	body.Message = "Dữ liệu đã được làm mới từ Google Sheet."
	writeJSON(w, http.StatusOK, body)
}
