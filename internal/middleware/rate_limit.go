package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	platformredis "photo-timeline-server/internal/platform/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(client.lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// RateLimitOptions 限流参数。Redis 为 nil 时只使用进程内令牌桶。
type RateLimitOptions struct {
	Name        string
	RPS         float64
	Burst       int
	Redis       *goredis.Client
	RedisPrefix string
}

// RateLimitMiddleware 按客户端 IP 限流。启用 Redis 时多个实例共享一秒窗口计数，
// Redis 出错时降级为进程内令牌桶。
func RateLimitMiddleware(opts RateLimitOptions) gin.HandlerFunc {
	limiter := NewIPRateLimiter(rate.Limit(opts.RPS), opts.Burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if opts.Redis != nil {
			ok, err := allowByRedisRateLimit(c.Request.Context(), opts.Redis, opts.RedisPrefix, opts.Name, ip, opts.RPS, opts.Burst)
			if err == nil {
				if !ok {
					abortTooManyRequests(c)
					return
				}
				c.Next()
				return
			}
			logrus.WithError(err).Warn("⚠️ Redis 限流失败，降级为内存限流")
		}

		if !limiter.getLimiter(ip).Allow() {
			abortTooManyRequests(c)
			return
		}
		c.Next()
	}
}

// allowByRedisRateLimit 一秒固定窗口：窗口内允许 max(burst, ceil(rps)) 次。
func allowByRedisRateLimit(ctx context.Context, client *goredis.Client, prefix, name, ip string, rps float64, burst int) (bool, error) {
	if rps <= 0 && burst <= 0 {
		return true, nil
	}
	limit := int64(math.Ceil(rps))
	if int64(burst) > limit {
		limit = int64(burst)
	}

	window := strconv.FormatInt(time.Now().Unix(), 10)
	key := platformredis.Key(prefix, "rate", name, ip, window)

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}
	return incr.Val() <= limit, nil
}

// IntervalRateMiddleware 同一 IP 两次请求之间至少间隔 interval。
func IntervalRateMiddleware(name string, interval time.Duration, redisClient *goredis.Client, redisPrefix string) gin.HandlerFunc {
	var lastSeen sync.Map

	return func(c *gin.Context) {
		if interval <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()

		if redisClient != nil {
			ok, err := allowByRedisInterval(c.Request.Context(), redisClient, platformredis.Key(redisPrefix, "interval", name, ip), interval)
			if err == nil {
				if !ok {
					abortTooManyRequests(c)
					return
				}
				c.Next()
				return
			}
			logrus.WithError(err).Warn("⚠️ Redis 间隔限流失败，降级为内存限流")
		}

		now := time.Now()
		if v, loaded := lastSeen.LoadOrStore(ip, now); loaded {
			if now.Sub(v.(time.Time)) < interval {
				abortTooManyRequests(c)
				return
			}
			lastSeen.Store(ip, now)
		}
		c.Next()
	}
}

func allowByRedisInterval(ctx context.Context, client *goredis.Client, key string, interval time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	ok, err := client.SetNX(ctx, key, "1", interval).Result()
	if err != nil {
		return false, fmt.Errorf("redis interval limit: %w", err)
	}
	return ok, nil
}

func abortTooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
	c.Abort()
}
