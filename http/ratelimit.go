package http

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter spaces downloads from the same server. Sources are keyed by
// lowercased host name without port, so "Example.com:443" and
// "example.com" share one budget. Sources without a host, such as file
// URLs, are never delayed.
type HostLimiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	limit rate.Limit
}

// NewHostLimiter allows rps downloads per second per host with no bursting.
// A non-positive rps disables limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &HostLimiter{
		hosts: make(map[string]*rate.Limiter),
		limit: limit,
	}
}

// Wait blocks until a download from u's host is allowed or ctx ends.
func (h *HostLimiter) Wait(ctx context.Context, u *url.URL) error {
	host := hostKey(u)
	if host == "" || h.limit == rate.Inf {
		return ctx.Err()
	}

	h.mu.Lock()
	limiter, ok := h.hosts[host]
	if !ok {
		limiter = rate.NewLimiter(h.limit, 1)
		h.hosts[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}

func hostKey(u *url.URL) string {
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}
