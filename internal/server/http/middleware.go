package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"golang.org/x/time/rate"
)

// authedHandler receives the verified identity explicitly. Handlers never dig
// the caller out of the request context.
type authedHandler func(w http.ResponseWriter, r *http.Request, identity *services.Identity)

// requireAuth verifies the bearer token before the wrapped handler runs. Any
// failure, missing header included, gets the same generic 401.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		identity, err := s.sessions.Verify(r.Context(), parts[1])
		if err != nil {
			s.writeServiceError(r.Context(), w, err)
			return
		}

		next(w, r, identity)
	}
}

// rateLimit enforces a per-IP token bucket over the whole surface. Idle
// clients are evicted so the map does not grow without bound.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.rateLimitRPS <= 0 {
		return next
	}

	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, c := range clients {
				if time.Since(c.lastSeen) >= 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		mu.Lock()
		c, ok := clients[ip]
		if !ok {
			c = &client{limiter: rate.NewLimiter(rate.Limit(s.rateLimitRPS), s.rateLimitBurst)}
			clients[ip] = c
		}
		c.lastSeen = time.Now()
		allowed := c.limiter.Allow()
		mu.Unlock()

		if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
