package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractAccessToken pulls the access token off an inbound request, for
// embedders that receive it from a browser. Cookie first, header fallback.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// Fingerprint derives a stable identity for a token, used to key the
// one-shot merge guard. For JWTs the subject plus token id (or issued-at)
// is used so a re-issued token for the same login session does not count
// as a new identity. Opaque tokens fall back to the raw string.
//
// The signature is deliberately not verified: the fingerprint only scopes
// client-side bookkeeping, the server still authenticates every request.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return token
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return token
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		return sub + ":" + jti
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		return fmt.Sprintf("%s:%d", sub, iat.Unix())
	}

	return sub
}

// Expired reports whether the token is a JWT carrying an exp claim in the
// past. Opaque tokens and JWTs without exp are never considered expired;
// the server is the authority on their validity.
func Expired(token string, now time.Time) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}
