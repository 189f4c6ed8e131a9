// internal/handlers/utils.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/flopgame/flop/internal/auth"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// playerFromRequest resolves the requesting player from the auth_token cookie
// or an Authorization bearer header.
func playerFromRequest(r *http.Request) (uuid.UUID, bool) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	if token == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if token == "" {
		return uuid.Nil, false
	}
	playerID, err := auth.PlayerIDFromToken(token)
	if err != nil {
		return uuid.Nil, false
	}
	return playerID, true
}
