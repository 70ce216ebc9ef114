package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/PixelPress/internal/pkg/config"
	"github.com/ManuelReschke/PixelPress/internal/pkg/usercontext"
)

const Expiration = 24 * time.Hour

var sessionStore *session.Store

// NewSessionStore keeps sessions in Redis database 1, the cache uses 0.
func NewSessionStore(cfg config.Redis, secure bool) *session.Store {
	storage := redis.New(redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		Database: 1,
		Reset:    false,
	})
	return SetStore(session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     Expiration,
		KeyLookup:      "cookie:session_id",
	}))
}

// NewMemoryStore keeps sessions in process memory, for tests and single
// instance development setups.
func NewMemoryStore() *session.Store {
	return SetStore(session.New(session.Config{
		CookieHTTPOnly: true,
		Expiration:     Expiration,
		KeyLookup:      "cookie:session_id",
	}))
}

func SetStore(s *session.Store) *session.Store {
	sessionStore = s
	return s
}

func GetSessionStore() *session.Store {
	return sessionStore
}

// Login binds the user to a fresh session id.
func Login(c *fiber.Ctx, userID uint, username string) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(usercontext.KeyUserID, userID)
	sess.Set(usercontext.KeyUsername, username)
	return sess.Save()
}

func Logout(c *fiber.Ctx) error {
	if sessionStore == nil {
		return nil
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// UserID returns the user bound to the session, 0 for anonymous visitors.
func UserID(c *fiber.Ctx) uint {
	if sessionStore == nil {
		return 0
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return 0
	}
	id, _ := sess.Get(usercontext.KeyUserID).(uint)
	return id
}

// SetSessionValue stores a key-value pair in the user's individual session
func SetSessionValue(c *fiber.Ctx, key string, value string) error {
	if sessionStore == nil {
		return fmt.Errorf("session store not initialized")
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue retrieves a value by key from the user's individual session
func GetSessionValue(c *fiber.Ctx, key string) string {
	if sessionStore == nil {
		return ""
	}

	sess, err := sessionStore.Get(c)
	if err != nil {
		return ""
	}

	strValue, _ := sess.Get(key).(string)
	return strValue
}
