package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// trustedHeaders are identity headers only the gateway may set. They are
// stripped from every inbound request before the token is inspected so a
// client cannot impersonate another user by sending them directly.
var trustedHeaders = []string{"X-User-ID", "X-User-Roles"}

// publicRoutes defines path prefixes and methods that do not require authentication.
var publicRoutes = []struct {
	method string
	prefix string
}{
	{method: http.MethodGet, prefix: "/api/products"},
	{method: http.MethodGet, prefix: "/health"},
}

// isPublicRoute checks whether a given method + path combination is public.
func isPublicRoute(method, path string) bool {
	for _, route := range publicRoutes {
		if method == route.method && strings.HasPrefix(path, route.prefix) {
			return true
		}
	}
	// OPTIONS requests are always allowed (for CORS preflight).
	if method == http.MethodOptions {
		return true
	}
	return false
}

// JWTAuth returns middleware that validates JWT tokens from the Authorization header.
// For public routes, the request is passed through without authentication.
// For protected routes, the token is validated and the X-User-ID and X-User-Roles
// headers are injected into the proxied request. Roles come from the token's
// realm_access.roles claim, flattened to ROLE_<UPPERCASED> authorities; a
// missing or malformed claim means the request carries no roles, it is not
// rejected.
func JWTAuth(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Strip identity headers on every request, public or not.
			for _, h := range trustedHeaders {
				r.Header.Del(h)
			}

			// Allow public routes through without authentication.
			if isPublicRoute(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Extract Bearer token from Authorization header.
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			tokenString := parts[1]

			// Parse and validate the JWT token.
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				// Ensure the signing method is HMAC.
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid JWT token",
					slog.String("path", r.URL.Path),
					slog.String("error", errString(err)),
				)
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token claims")
				return
			}

			userID := claimString(claims, "user_id")
			if userID == "" {
				// Fallback: try "sub" claim.
				userID = claimString(claims, "sub")
			}
			if userID != "" {
				r.Header.Set("X-User-ID", userID)
			}

			if roles := realmRoles(claims); len(roles) > 0 {
				r.Header.Set("X-User-Roles", strings.Join(roles, ","))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// claimString extracts a claim value as a string, converting numeric claims
// (JSON numbers decode as float64) to their integer representation.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// realmRoles flattens the realm_access.roles claim into ROLE_<UPPERCASED>
// authorities. Any shape other than {"realm_access":{"roles":["..."]}}
// yields no roles.
func realmRoles(claims jwt.MapClaims) []string {
	realm, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := realm["roles"].([]any)
	if !ok {
		return nil
	}
	var authorities []string
	for _, entry := range raw {
		name, ok := entry.(string)
		if !ok || name == "" {
			continue
		}
		authorities = append(authorities, "ROLE_"+strings.ToUpper(name))
	}
	return authorities
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

func errString(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
