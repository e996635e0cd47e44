// Package session gives every visitor a stable guest session id carried in a
// signed cookie.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CookieName = "storefront_session"
	issuer     = "storefront-session"
)

var ErrInvalidToken = errors.New("invalid session token")

type ctxKey struct{}

type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	log    *zap.Logger
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		log:    log,
		now:    time.Now,
	}
}

func (m *Manager) Issue(sessionID string) (string, error) {
	now := m.now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) Parse(tokenStr string) (string, error) {
	var c Claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil || token == nil || !token.Valid || c.SessionID == "" {
		return "", ErrInvalidToken
	}
	return c.SessionID, nil
}

// Middleware attaches the caller's session id to the request context. A
// missing, expired or tampered cookie starts a fresh session.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if ck, err := r.Cookie(CookieName); err == nil {
			if id, err := m.Parse(ck.Value); err == nil {
				sid = id
			}
		}

		if sid == "" {
			sid = "s_" + uuid.NewString()
			tok, err := m.Issue(sid)
			if err != nil {
				m.log.Error("issue session cookie", zap.Error(err))
			} else {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    tok,
					Path:     "/",
					Expires:  m.now().Add(m.ttl),
					HttpOnly: true,
					Secure:   m.secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}

		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
	})
}

func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sessionID)
}

func FromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(ctxKey{}).(string)
	return sid, ok && sid != ""
}
