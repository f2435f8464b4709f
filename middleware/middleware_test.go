package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(issuer *utils.TokenIssuer, roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/p", AuthMiddleware(issuer, roles...), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UsernameKey))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("test-secret", time.Hour)
	cashier, _, err := issuer.GenerateToken("u1", "caixa1", models.RoleCashier)
	require.NoError(t, err)
	r := protected(issuer, models.RoleAdmin, models.RoleCashier)

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+cashier)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "caixa1", w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: cashier})
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Token "+cashier)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+cashier)
		protected(issuer, models.RoleAdmin).ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPrometheusMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	InitMetrics(reg)

	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hits := HttpRequestsTotal.WithLabelValues(http.MethodGet, "/ping/:id", "204")
	misses := HttpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	beforeHits, beforeMisses := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-admin", nil))

	assert.Equal(t, beforeHits+1, testutil.ToFloat64(hits))
	assert.Equal(t, beforeMisses+1, testutil.ToFloat64(misses))
	assert.Zero(t, testutil.ToFloat64(HttpRequestsInFlight))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusBadRequest), entries[1].ContextMap()["status"])
}
