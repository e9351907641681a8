package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/anchorrisk/anchorrisk-backend/internal/platform/ctxutil"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func signed(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func authRouter(am *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(am.RequireAuth())
	r.GET("/whoami", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, rd.Subject+"/"+rd.Role)
	})
	return r
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(testLogger(t), "", "")
	require.False(t, am.Enabled())

	rec := httptest.NewRecorder()
	authRouter(am).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(testLogger(t), "s3cret", "anchorrisk")
	tok := signed(t, "s3cret", Claims{
		Role: "analyst",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "officer-7",
			Issuer:    "anchorrisk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	authRouter(am).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "officer-7/analyst", rec.Body.String())

	q := httptest.NewRequest(http.MethodGet, "/whoami?token="+tok, nil)
	rec = httptest.NewRecorder()
	authRouter(am).ServeHTTP(rec, q)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(testLogger(t), "s3cret", "anchorrisk")
	valid := jwt.RegisteredClaims{Subject: "x", Issuer: "anchorrisk", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"missing":      "",
		"wrong secret": signed(t, "other", Claims{RegisteredClaims: valid}),
		"expired": signed(t, "s3cret", Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "x", Issuer: "anchorrisk", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}),
		"wrong issuer": signed(t, "s3cret", Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "x", Issuer: "someone-else", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
		"no subject": signed(t, "s3cret", Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "anchorrisk", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
			rec := httptest.NewRecorder()
			authRouter(am).ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 2)
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }

	r := gin.New()
	r.POST("/sim", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/sim", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/sim", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, other)
	require.Equal(t, http.StatusOK, rec.Code, "limits are per client")

	frozen = frozen.Add(time.Second)
	again := httptest.NewRequest(http.MethodPost, "/sim", nil)
	again.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, again)
	require.Equal(t, http.StatusOK, rec.Code, "bucket refills over time")
}

func TestTraceContextEchoesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	require.Equal(t, "req-1", seen.RequestID)
	require.NotEmpty(t, seen.TraceID)
	require.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
	require.Equal(t, seen.TraceID, rec.Header().Get("X-Trace-Id"))
}
