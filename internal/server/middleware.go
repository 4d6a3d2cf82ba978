package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

type ctxUserKey struct{}

func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		if r.URL.Path == "/api/login/" || r.URL.Path == "/api/register/" {
			if !s.allowRequest(r) {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests, try again later",
				})
				return
			}
		}

		next(w, r)
	}
}

// cors is installed at the router level. The API serves a mobile
// frontend from arbitrary origins, so it mirrors the original's
// allow-all policy.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowRequest(r *http.Request) bool {
	ip := clientIP(r)
	now := time.Now()

	s.rateMu.Lock()
	defer s.rateMu.Unlock()

	hits := s.rateByIP[ip]
	keep := hits[:0]
	cutoff := now.Add(-loginRateWindow)

	for _, t := range hits {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}

	if len(keep) >= loginRateMaxHits {
		s.rateByIP[ip] = keep
		return false
	}

	keep = append(keep, now)
	s.rateByIP[ip] = keep
	return true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := extractTokenKey(r)
		if key == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}

		u, err := s.authenticate(r.Context(), key)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Invalid token.",
			})
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey{}, u)
		next(w, r.WithContext(ctx))
	}
}

// extractTokenKey reads the opaque key from the Authorization header.
// The frontend sends "Token <key>"; "Bearer <key>" is accepted too.
func extractTokenKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	for _, scheme := range []string{"Token ", "Bearer "} {
		if len(auth) > len(scheme) && strings.EqualFold(auth[:len(scheme)], scheme) {
			return strings.TrimSpace(auth[len(scheme):])
		}
	}
	return ""
}

func (s *Server) authenticate(ctx context.Context, key string) (userDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tok, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		return userDoc{}, err
	}
	return s.users.FindByID(ctx, tok.UserID)
}

func UserFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(ctxUserKey{}).(userDoc)
	if !ok {
		return "", false
	}
	return u.Username, true
}
