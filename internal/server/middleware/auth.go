package middleware

import (
	"crypto/subtle"
	"net/http"
	"sync"
)

// AuthConfig holds Basic Auth credentials. It is safe to Update while
// requests are being served.
type AuthConfig struct {
	mu       sync.RWMutex
	enabled  bool
	user     string
	password string
}

func NewAuthConfig(enabled bool, user, password string) *AuthConfig {
	return &AuthConfig{enabled: enabled, user: user, password: password}
}

// Update replaces the credentials used by every Auth middleware sharing c.
func (c *AuthConfig) Update(enabled bool, user, password string) {
	c.mu.Lock()
	c.enabled = enabled
	c.user = user
	c.password = password
	c.mu.Unlock()
}

// Enabled reports whether requests are checked.
func (c *AuthConfig) Enabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// check validates a request's credentials. Both fields are compared in
// constant time.
func (c *AuthConfig) check(r *http.Request) bool {
	c.mu.RLock()
	enabled, wantUser, wantPass := c.enabled, c.user, c.password
	c.mu.RUnlock()

	if !enabled {
		return true
	}

	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
	return userMatch && passMatch
}

// Auth requires Basic Auth on every path except the public ones.
func Auth(config *AuthConfig, public ...string) Middleware {
	open := make(map[string]struct{}, len(public))
	for _, p := range public {
		open[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := open[r.URL.Path]; ok || config.check(r) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="sysbar"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}
