package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "user-admin/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "")
	}
}

// ipIdleTTL 超过该时长没有请求的 IP 桶会被回收
const ipIdleTTL = 10 * time.Minute

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// ipBuckets 每 IP 一个令牌桶，按需清理空闲桶
type ipBuckets struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	m         map[string]*ipBucket
	lastSweep time.Time
}

func (b *ipBuckets) allow(ip string, now time.Time) bool {
	b.mu.Lock()
	if now.Sub(b.lastSweep) > ipIdleTTL {
		for k, v := range b.m {
			if now.Sub(v.seen) > ipIdleTTL {
				delete(b.m, k)
			}
		}
		b.lastSweep = now
	}
	bk, ok := b.m[ip]
	if !ok {
		bk = &ipBucket{lim: rate.NewLimiter(b.rps, b.burst)}
		b.m[ip] = bk
	}
	bk.seen = now
	b.mu.Unlock()
	return bk.lim.AllowN(now, 1)
}

// RateLimitPerIP 每 IP 限速
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	b := &ipBuckets{rps: rps, burst: burst, m: make(map[string]*ipBucket), lastSweep: time.Now()}
	return func(c *gin.Context) {
		if b.allow(c.ClientIP(), time.Now()) {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "")
	}
}
