// Defines rate limit tiers and how requests map onto them.

package ratelimit

import (
	"net/http"
	"time"
)

// Tier is a named limiter. A Tier with a nil Limiter is disabled.
type Tier struct {
	Name    string
	Limiter *Limiter
}

// Config holds the read and write tiers. Both are keyed by client IP.
type Config struct {
	Write Tier
	Read  Tier
}

// NewConfig creates the tiers from per-minute limits. A limit of 0 disables
// the tier. The burst is a sixth of the per-minute limit, at least 1.
func NewConfig(writePerMin, readPerMin int) *Config {
	return &Config{
		Write: newTier("write", writePerMin),
		Read:  newTier("read", readPerMin),
	}
}

func newTier(name string, perMin int) Tier {
	t := Tier{Name: name}
	if perMin > 0 {
		t.Limiter = NewLimiter(perMin, time.Minute, max(perMin/6, 1))
	}
	return t
}

// Match returns the tier for a request, or nil when it is not rate limited.
//
// Operational endpoints are never limited so that probes and scrapers keep
// working while clients are throttled.
func (c *Config) Match(method, path string) *Tier {
	if c == nil {
		return nil
	}
	switch path {
	case "/health", "/metrics":
		return nil
	}
	var t *Tier
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		t = &c.Write
	case http.MethodGet, http.MethodHead:
		t = &c.Read
	default:
		return nil
	}
	if t.Limiter == nil {
		return nil
	}
	return t
}

// Close stops all limiter cleanup goroutines.
func (c *Config) Close() {
	if c == nil {
		return
	}
	for _, t := range []*Tier{&c.Write, &c.Read} {
		if t.Limiter != nil {
			t.Limiter.Close()
		}
	}
}
