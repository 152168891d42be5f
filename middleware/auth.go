package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"savora/globals"
)

type Claims struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// Authenticate requires a valid bearer token and places the caller's
// identity in the request context.
func Authenticate(secret string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := parseToken(r, secret)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		r = r.WithContext(withIdentity(r.Context(), claims))
		next(w, r, ps)
	}
}

// OptionalAuth attaches identity when a valid token is present and lets the
// request through either way.
func OptionalAuth(secret string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, ok := parseToken(r, secret); ok {
			r = r.WithContext(withIdentity(r.Context(), claims))
		}
		next(w, r, ps)
	}
}

func withIdentity(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, globals.UserIDKey, claims.UserID)
	return context.WithValue(ctx, globals.UserNameKey, claims.UserName)
}

func parseToken(r *http.Request, secret string) (*Claims, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, false
	}
	return claims, true
}
