package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/domain"
	"github.com/AchilleasB/hostel-meals/meal-pass-service/internal/core/ports"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	tokens    ports.TokenStore
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, tokens ports.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		tokens:    tokens,
	}
}

type contextKey string

const sessionKey contextKey = "session"

// SessionFrom returns the session RequireRole stored on the request context.
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(domain.Session)
	return s, ok
}

func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// RequireRole admits requests carrying a valid, unrevoked bearer token whose
// role is one of roles.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			log.Printf("auth: rejected token: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		session, ok := sessionFromClaims(claims)
		if !ok {
			log.Printf("auth: token missing required claims")
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		if m.tokens != nil {
			revoked, err := m.tokens.IsRevoked(r.Context(), session.TokenID)
			if err != nil {
				log.Printf("auth: revocation check failed: %v", err)
				http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
				return
			}
			if revoked {
				http.Error(w, "token revoked", http.StatusUnauthorized)
				return
			}
		}

		allowed := false
		for _, role := range roles {
			if session.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("auth: role mismatch: required one of %v, got %s", roles, session.Role)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r.WithContext(WithSession(r.Context(), session)))
	}
}

func sessionFromClaims(claims jwt.MapClaims) (domain.Session, bool) {
	userID, _ := claims["sub"].(string)
	hostelID, _ := claims["hid"].(string)
	role, _ := claims["role"].(string)
	tokenID, _ := claims["jti"].(string)
	if userID == "" || hostelID == "" || tokenID == "" || !domain.Role(role).Valid() {
		return domain.Session{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return domain.Session{}, false
	}

	return domain.Session{
		HostelID:  hostelID,
		UserID:    userID,
		Role:      domain.Role(role),
		TokenID:   tokenID,
		ExpiresAt: exp.Time.In(time.UTC),
	}, true
}
