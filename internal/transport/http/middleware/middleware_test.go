package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ads-online/internal/core/auth"
	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
)

type stubAuth struct {
	users map[string]domain.Principal // username -> principal，密码固定 secret
	err   error
}

func (s stubAuth) Authenticate(_ context.Context, username, password string) (domain.Principal, error) {
	if s.err != nil {
		return domain.Principal{}, s.err
	}
	p, ok := s.users[username]
	if !ok || password != "secret" {
		return domain.Principal{}, errs.Unauthorized("Bad credentials")
	}
	return p, nil
}

func (s stubAuth) Resolve(_ context.Context, id int64) (domain.Principal, error) {
	for _, p := range s.users {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Principal{}, errs.Unauthorized("Unknown user")
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.Username)
	})
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwter := &auth.JWTer{Secret: []byte("k"), Issuer: "ads-online", TTL: time.Hour}
	stub := stubAuth{users: map[string]domain.Principal{
		"user@mail.ru": {ID: 7, Username: "user@mail.ru", Role: domain.RoleUser},
	}}
	tok, err := jwter.Issue(7, "USER")
	require.NoError(t, err)

	basic := func(u, p string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.SetBasicAuth(u, p)
		return req
	}
	bearer := func(tok string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		return req
	}
	anon := httptest.NewRequest(http.MethodGet, "/whoami", nil)

	optional := newEngine(Auth(stub, jwter, false, zap.NewNop()))
	required := newEngine(Auth(stub, jwter, true, zap.NewNop()))

	cases := []struct {
		name   string
		r      *gin.Engine
		req    *http.Request
		status int
		body   string
	}{
		{"basic ok", required, basic("user@mail.ru", "secret"), 200, "user@mail.ru"},
		{"basic wrong password", optional, basic("user@mail.ru", "nope"), 401, ""},
		{"bearer ok", required, bearer(tok), 200, "user@mail.ru"},
		{"bearer garbage", optional, bearer("abc.def.ghi"), 401, ""},
		{"anonymous optional", optional, anon, 200, "anonymous"},
		{"anonymous required", required, anon, 401, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(tc.r, tc.req)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
			if tc.status == 401 {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
			}
		})
	}
}

func TestAuthBackendFailureIs500(t *testing.T) {
	r := newEngine(Auth(stubAuth{err: assert.AnError}, nil, true, zap.NewNop()))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.SetBasicAuth("user@mail.ru", "secret")

	w := do(r, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":500,"message":"Unexpected error"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	stub := stubAuth{users: map[string]domain.Principal{
		"user@mail.ru":  {ID: 1, Username: "user@mail.ru", Role: domain.RoleUser},
		"admin@mail.ru": {ID: 2, Username: "admin@mail.ru", Role: domain.RoleAdmin},
	}}
	r := newEngine(Auth(stub, nil, true, zap.NewNop()), RequireRole(domain.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.SetBasicAuth("user@mail.ru", "secret")
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.SetBasicAuth("admin@mail.ru", "secret")
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRecoveryRendersJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), SimpleRecovery(zap.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := do(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":500,"message":"Unexpected error"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestRequestIDPassThrough(t *testing.T) {
	r := newEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	assert.Equal(t, "abc-123", do(r, req).Header().Get(KeyRequestID))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", 100))
	assert.Len(t, do(r, req).Header().Get(KeyRequestID), 36)
}

func TestRateLimitPerIP(t *testing.T) {
	r := newEngine(RateLimitPerIP(0.001, 1))
	req := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.RemoteAddr = ip + ":1234"
		return req
	}
	assert.Equal(t, http.StatusOK, do(r, req("10.0.0.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, req("10.0.0.1")).Code)
	assert.Equal(t, http.StatusOK, do(r, req("10.0.0.2")).Code)
}

func TestRateLimitShared(t *testing.T) {
	r := newEngine(RateLimit(0.001, 1))
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/whoami", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, httptest.NewRequest(http.MethodGet, "/whoami", nil)).Code)
}

func TestMaskQuery(t *testing.T) {
	got := maskQuery(map[string][]string{"password": {"x"}, "q": {"bike"}})
	assert.Equal(t, []string{"****"}, got["password"])
	assert.Equal(t, []string{"bike"}, got["q"])
}
