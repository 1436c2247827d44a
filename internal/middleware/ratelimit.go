package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// LoginRateLimiter limits failed sign in attempts per client IP
type LoginRateLimiter struct {
	attempts    map[string][]time.Time
	mutex       sync.Mutex
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter creates a new login rate limiter
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts:    make(map[string][]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// IsAllowed checks if a sign in attempt from the given IP is allowed
func (rl *LoginRateLimiter) IsAllowed(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	valid := rl.pruneLocked(ip)
	return len(valid) < rl.maxAttempts
}

// RecordFailure records a failed sign in attempt for the given IP
func (rl *LoginRateLimiter) RecordFailure(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.attempts[ip] = append(rl.pruneLocked(ip), rl.now())
}

// Reset forgets the failures of ip after a successful sign in
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	delete(rl.attempts, ip)
}

// TimeUntilAllowed returns how long ip has to wait for its next attempt
func (rl *LoginRateLimiter) TimeUntilAllowed(ip string) time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	valid := rl.pruneLocked(ip)
	if len(valid) < rl.maxAttempts {
		return 0
	}
	return valid[len(valid)-rl.maxAttempts].Add(rl.window).Sub(rl.now())
}

// Stop ends the cleanup goroutine
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *LoginRateLimiter) pruneLocked(ip string) []time.Time {
	cutoff := rl.now().Add(-rl.window)
	var valid []time.Time
	for _, attempt := range rl.attempts[ip] {
		if attempt.After(cutoff) {
			valid = append(valid, attempt)
		}
	}
	if len(valid) == 0 {
		delete(rl.attempts, ip)
	} else {
		rl.attempts[ip] = valid
	}
	return valid
}

// cleanup removes old entries periodically
func (rl *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mutex.Lock()
			for ip := range rl.attempts {
				rl.pruneLocked(ip)
			}
			rl.mutex.Unlock()
		}
	}
}

// LoginRateLimit blocks sign in POSTs from IPs with too many recent
// failures. A 401 answer counts as a failure; a redirect clears the IP's
// history.
func LoginRateLimit(rateLimiter *LoginRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)

			if !rateLimiter.IsAllowed(ip) {
				w.Header().Set("Retry-After", retryAfter(rateLimiter.TimeUntilAllowed(ip)))
				writeFailure(w, r, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
				return
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			switch {
			case wrapped.statusCode == http.StatusUnauthorized:
				rateLimiter.RecordFailure(ip)
			case wrapped.statusCode >= 300 && wrapped.statusCode < 400:
				rateLimiter.Reset(ip)
			}
		})
	}
}

func retryAfter(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
