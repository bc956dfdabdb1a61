package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// serveIdentity runs req through Identity and reports the resolved user.
func serveIdentity(t *testing.T, secret string, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	var seen string
	e.GET("/me", func(c echo.Context) error {
		seen = Username(c)
		return c.NoContent(http.StatusOK)
	}, Identity(secret))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestIdentityFromHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-Name", " alice ")
	rec, user := serveIdentity(t, "", req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", user)
}

func TestIdentityAnonymous(t *testing.T) {
	rec, user := serveIdentity(t, "", httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, user)
}

func TestIdentityBearerWinsOverHeader(t *testing.T) {
	tok, err := utils.NewAccessToken("s3cret", "bob", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	req.Header.Set("X-User-Name", "alice")

	rec, user := serveIdentity(t, "s3cret", req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", user)
}

func TestIdentityRejectsBadBearer(t *testing.T) {
	tok, err := utils.NewAccessToken("other", "bob", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)

	rec, user := serveIdentity(t, "s3cret", req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, user)
}

func TestIdentityIgnoresBearerWithoutSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.Header.Set("X-User-Name", "alice")

	rec, user := serveIdentity(t, "", req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", user)
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/v1/me")
	c.Set(usernameKey, "alice")

	cases := map[string]string{
		"user_route": "rl:user:alice:route:GET /api/v1/me",
		"user":       "rl:user:alice",
		"ip":         "rl:ip:10.0.0.7",
		"other":      "rl:ip:10.0.0.7:user:alice:route:GET /api/v1/me",
	}
	for strategy, want := range cases {
		got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		assert.Equal(t, want, got, strategy)
	}

	anon := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/hotels", nil), httptest.NewRecorder())
	anon.SetPath("/api/v1/hotels")
	assert.Equal(t, "rl:user:anon", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, anon))
}

func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/api/v1/hotels", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	},
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, nil),
		NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil),
	)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/hotels", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
}

func TestPayloadRejectsTruncatedHeader(t *testing.T) {
	payload, err := encodePayload(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, []byte(`{"page":1}`))
	require.NoError(t, err)

	status, hdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"page":1}`, string(body))

	_, _, _, ok = decodePayload(payload[:10])
	assert.False(t, ok)
}
