package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kaviyavarma08/Cafeteria-Management-System/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Signup / login (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

// init starts the background cleanup routine.
func init() {
	go cleanupVisitors()
}

// getVisitor retrieves or creates a rate limiter for the given bucket key.
func getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors removes old entries from the visitors map to prevent memory leaks.
func cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		mu.Lock()
		for key, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, key)
			}
		}
		mu.Unlock()
	}
}

func ipKey(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// userKey buckets by the token subject. It must run after RequireAuth; the
// IP fallback only covers a misconfigured chain.
func userKey(r *http.Request) string {
	if username, ok := utils.GetUsernameFromContext(r.Context()); ok {
		return "user:" + username
	}
	return ipKey(r)
}

func limitBy(key func(*http.Request) string, l rate.Limit, b int, tier string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bucket := fmt.Sprintf("%s:%s", key(r), tier)

			if !getVisitor(bucket, l, b).Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StrictRateLimit throttles credential endpoints per client IP.
var StrictRateLimit = limitBy(ipKey, limitStrict, burstStrict, "strict")

// GeneralRateLimit throttles anonymous endpoints per client IP.
var GeneralRateLimit = limitBy(ipKey, limitGeneral, burstGeneral, "general")

// UserRateLimit throttles authenticated endpoints per token subject.
var UserRateLimit = limitBy(userKey, limitGeneral, burstGeneral, "user")
