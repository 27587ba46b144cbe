package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"user-admin/internal/core/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := auth.NewJWTer("s3cret", "user-admin", time.Hour)
	adminTok, err := j.Issue("1", "admin")
	require.NoError(t, err)
	regularTok, err := j.Issue("2", "regular")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/p", AuthJWT(j, "admin", nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userId")+":"+c.GetString("role"))
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/p", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"missing token"}`, w.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+adminTok)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1:admin", w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.AddCookie(&http.Cookie{Name: CookieToken, Value: adminTok})
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+regularTok)
		w := serve(r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthJWT_CustomDeny(t *testing.T) {
	j := auth.NewJWTer("s3cret", "user-admin", time.Hour)
	var gotCode int
	r := gin.New()
	r.GET("/page", AuthJWT(j, "admin", func(c *gin.Context, code int, msg string) {
		gotCode = code
		c.AbortWithStatus(http.StatusForbidden)
	}), okHandler)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusUnauthorized, gotCode)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitPerIP(0.001, 2), okHandler)

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"), "buckets are per ip")
}

func TestIPBuckets_EvictsIdle(t *testing.T) {
	now := time.Now()
	b := &ipBuckets{rps: 0.001, burst: 1, m: make(map[string]*ipBucket), lastSweep: now}

	assert.True(t, b.allow("10.0.0.1", now))
	assert.False(t, b.allow("10.0.0.1", now))
	assert.True(t, b.allow("10.0.0.2", now))

	later := now.Add(ipIdleTTL + time.Second)
	assert.True(t, b.allow("10.0.0.3", later))
	assert.Len(t, b.m, 1, "idle buckets are swept")
	assert.True(t, b.allow("10.0.0.1", later.Add(time.Second)), "evicted ip starts with a fresh bucket")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "bad id\n")
	w = serve(r, req)
	assert.NotEqual(t, "bad id\n", w.Body.String())
	assert.Len(t, w.Body.String(), 36)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/", MaxBodyBytes(8), func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			_ = c.Error(err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"0123456789"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestAccessLog_MasksSecrets(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/users", okHandler)

	serve(r, httptest.NewRequest(http.MethodGet, "/users?page=2&token=abc", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	q := fields["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["token"])
	assert.Equal(t, []string{"2"}, q["page"])
	assert.Equal(t, "/users", fields["route"])
	assert.NotEmpty(t, fields["rid"])
}
