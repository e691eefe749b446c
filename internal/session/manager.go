package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movielog/internal/model"
	"github.com/iliyamo/movielog/internal/utils"
)

// CookieName is the name of the login cookie.
const CookieName = "movielog_session"

// sidBytes is the amount of randomness in a session id.
const sidBytes = 32

// ErrEmptyIdentity is returned by Create when the user id or name is blank.
var ErrEmptyIdentity = errors.New("session requires a user id and username")

// Manager issues, resolves and destroys login sessions.
type Manager struct {
	store  Store
	secret string
	ttl    time.Duration
	now    func() time.Time
	log    *logrus.Logger
}

// NewManager wires a Manager. ttl defaults to 24h when non-positive.
func NewManager(store Store, secret string, ttl time.Duration, log *logrus.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{store: store, secret: secret, ttl: ttl, now: time.Now, log: log}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create stores a new session for the user and returns the signed cookie
// value together with its expiry.
func (m *Manager) Create(ctx context.Context, userID uint64, username string) (string, time.Time, error) {
	if userID == 0 || strings.TrimSpace(username) == "" {
		return "", time.Time{}, ErrEmptyIdentity
	}
	sid, err := utils.RandomHex(sidBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	exp := m.now().Add(m.ttl)
	if err := m.store.Save(ctx, utils.HashToken(sid), model.Session{UserID: userID, Username: username}, m.ttl); err != nil {
		return "", time.Time{}, err
	}
	token, err := utils.SignSessionToken(m.secret, sid, exp)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Resolve maps a cookie value to its session. Anything that is not a live
// session (empty, forged, expired, unknown, store failure) yields nil.
func (m *Manager) Resolve(ctx context.Context, token string) *model.Session {
	if token == "" {
		return nil
	}
	sid, err := utils.ParseSessionToken(m.secret, token)
	if err != nil {
		return nil
	}
	sess, err := m.store.Load(ctx, utils.HashToken(sid))
	if err != nil {
		m.log.WithError(err).Warn("session lookup failed")
		return nil
	}
	if sess == nil || sess.UserID == 0 || sess.Username == "" {
		return nil
	}
	return sess
}

// Destroy removes the session behind the cookie value. Unknown or invalid
// values are ignored.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sid, err := utils.ParseSessionToken(m.secret, token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, utils.HashToken(sid))
}

// Sweep purges expired records from stores that do not expire on their own.
func (m *Manager) Sweep(ctx context.Context) {
	n, err := m.store.Sweep(ctx)
	if err != nil {
		m.log.WithError(err).Error("session sweep failed")
		return
	}
	if n > 0 {
		m.log.WithField("removed", n).Info("expired sessions purged")
	}
}

// NewCookie builds the login cookie for a value issued by Create.
func NewCookie(value string, exp time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that makes the browser drop the login cookie.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
