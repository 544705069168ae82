package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http/middleware"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../../../.env")

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test (Redis down): %v", err)
	}

	rdb.FlushDB(ctx)
	return rdb
}

func limitedRouter(rdb *redis.Client, limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RateLimiter(rdb, limit, 1*time.Minute))
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", ip)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Integration(t *testing.T) {
	rdb := setupTestRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	t.Run("allows requests under the limit", func(t *testing.T) {
		rdb.FlushDB(ctx)

		const limit = 5
		router := limitedRouter(rdb, limit)

		for i := 1; i <= limit; i++ {
			w := hit(router, "192.168.1.100")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, fmt.Sprintf("%d", limit), w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, fmt.Sprintf("%d", limit-i), w.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("blocks requests over the limit", func(t *testing.T) {
		rdb.FlushDB(ctx)

		router := limitedRouter(rdb, 2)
		ip := "192.168.1.101"

		assert.Equal(t, http.StatusOK, hit(router, ip).Code)
		assert.Equal(t, http.StatusOK, hit(router, ip).Code)

		w := hit(router, ip)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "too many requests")
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("limits are per client", func(t *testing.T) {
		rdb.FlushDB(ctx)

		router := limitedRouter(rdb, 1)

		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2").Code)
	})
}

// Redis being down must never take the API down with it.
func TestRateLimiterFailsOpen(t *testing.T) {
	badRdb := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 200 * time.Millisecond,
	})
	defer badRdb.Close()

	router := limitedRouter(badRdb, 1)

	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.9").Code)
	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.9").Code)
}
