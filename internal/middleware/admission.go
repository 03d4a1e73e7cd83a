// Package middleware holds the admission gate protecting the API from
// overload: an oversized-body check and a per-client sliding-window limiter.
package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"talentrank/candidate-ranker/internal/cache"
	"talentrank/candidate-ranker/internal/config"
	"talentrank/candidate-ranker/internal/metrics"
)

const anonymousClient = "anonymous"

// Admission is a leaky per-client request gate. Each client's counter lives
// for one window and resets wholesale when it expires rather than draining
// gradually; that coarseness is the intended behavior, not an oversight. The
// client map is bounded, evicting the least recently seen client.
type Admission struct {
	cfg     config.RateLimitConfig
	clients *cache.MemoryStore
}

func NewAdmission(cfg config.RateLimitConfig, opts ...cache.MemoryOption) *Admission {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 500
	}

	return &Admission{
		cfg:     cfg,
		clients: cache.NewMemoryStore(cfg.MaxClients, opts...),
	}
}

// Admit checks and updates the client's window counter. An accepted request
// increments the counter and refreshes the entry's TTL.
func (a *Admission) Admit(clientID string, limit int) bool {
	count := 0
	if data, ok := a.clients.Get(clientID); ok {
		count, _ = strconv.Atoi(string(data))
	}

	if count >= limit {
		return false
	}

	a.clients.Set(clientID, []byte(strconv.Itoa(count+1)), a.cfg.Window)
	return true
}

// Handler returns the fiber middleware applying the body-size gate and then
// the rate limit to every request that reaches it.
func (a *Admission) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			// Content-Length is checked before admission counting so an
			// oversized body cannot consume window budget or memory.
			if length := c.Request().Header.ContentLength(); length > a.cfg.MaxBodyBytes {
				metrics.RecordAdmissionRejection("payload_too_large")
				return c.Status(fiber.StatusRequestEntityTooLarge).SendString("Payload too large")
			}
		}

		if !a.Admit(clientID(c), a.cfg.RequestsPerWindow) {
			metrics.RecordAdmissionRejection("rate_limited")
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests")
		}

		return c.Next()
	}
}

// clientID derives the client identity from the forwarded-address header,
// falling back to a shared anonymous bucket.
func clientID(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded == "" {
		return anonymousClient
	}

	if idx := strings.Index(forwarded, ","); idx >= 0 {
		forwarded = forwarded[:idx]
	}

	if ip := strings.TrimSpace(forwarded); ip != "" {
		return ip
	}
	return anonymousClient
}
