package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionHeader carries the session token for API clients that do not use
// cookies (the mobile shell).
const SessionHeader = "X-Session-Token"

// SessionManager orchestrates cookie based sessions backed by Redis.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
}

// Session holds per-request session data for the signed-in cashier.
type Session struct {
	ID        string
	userID    int64
	userName  string
	role      string
	isNew     bool
	dirty     bool
	destroyed bool
}

type sessionPayload struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Role     string `json:"role"`
}

// NewSessionManager constructs a SessionManager. Tokens handed to clients are
// the session ID plus an HMAC-SHA256 signature under secret, so a forged or
// tampered token is rejected before Redis is consulted.
func NewSessionManager(client *redis.Client, cookieName, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		secret:     []byte(secret),
		ttl:        ttl,
		secure:     secure,
	}
}

// UserID returns the signed-in user ID, zero when anonymous.
func (s *Session) UserID() int64 { return s.userID }

// UserName returns the signed-in user's display name.
func (s *Session) UserName() string { return s.userName }

// Role returns the signed-in user's role.
func (s *Session) Role() string { return s.role }

// Authenticated reports whether the session carries a signed-in user.
func (s *Session) Authenticated() bool { return s != nil && s.userID != 0 }

// SignIn binds the session to a user.
func (s *Session) SignIn(userID int64, name, role string) {
	s.userID = userID
	s.userName = name
	s.role = role
	s.dirty = true
}

// Destroy marks the session for deletion on commit.
func (s *Session) Destroy() {
	s.destroyed = true
}

func (sm *SessionManager) newSession() *Session {
	return &Session{isNew: true}
}

func (sm *SessionManager) redisKey(id string) string {
	return "meridian:sess:" + id
}

func (sm *SessionManager) sign(id string) string {
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Token renders the client-facing token for a committed session.
func (sm *SessionManager) Token(sess *Session) string {
	if sess == nil || sess.ID == "" {
		return ""
	}
	return sess.ID + "." + sm.sign(sess.ID)
}

// parseToken splits and verifies a client token, returning the session ID.
func (sm *SessionManager) parseToken(token string) (string, bool) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sm.sign(id))) {
		return "", false
	}
	return id, true
}

func (sm *SessionManager) token(r *http.Request) string {
	if tok := r.Header.Get(SessionHeader); tok != "" {
		return tok
	}
	if cookie, err := r.Cookie(sm.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Load loads or creates a new session for request. Tokens with a missing or
// invalid signature start a fresh anonymous session.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	id, ok := sm.parseToken(sm.token(r))
	if !ok {
		return sm.newSession(), nil
	}

	payload, err := sm.client.Get(ctx, sm.redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			sess := sm.newSession()
			sess.ID = id
			return sess, nil
		}
		return nil, err
	}

	var stored sessionPayload
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	return &Session{
		ID:       id,
		userID:   stored.UserID,
		userName: stored.UserName,
		role:     stored.Role,
	}, nil
}

// Commit persists the session and writes cookie headers as needed.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}

	if sess.destroyed {
		if sess.ID != "" {
			if err := sm.client.Del(ctx, sm.redisKey(sess.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sm.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sm.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return nil
	}

	if !sess.dirty {
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	data, err := json.Marshal(sessionPayload{UserID: sess.userID, UserName: sess.userName, Role: sess.role})
	if err != nil {
		return err
	}
	if err := sm.client.Set(ctx, sm.redisKey(sess.ID), data, sm.ttl).Err(); err != nil {
		return err
	}
	sess.dirty = false

	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    sm.Token(sess),
		Path:     "/",
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(sm.ttl),
	})
	return nil
}
