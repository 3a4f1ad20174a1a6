package ez

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ads-online/internal/core/errs"
	"ads-online/internal/domain"
	mdw "ads-online/internal/transport/http/middleware"
)

type echoIn struct {
	Text string `json:"text" form:"text" binding:"required,min=3"`
}

func newEZ(p *domain.Principal) (*gin.Engine, EZ) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if p != nil {
		r.Use(func(c *gin.Context) { c.Set(mdw.KeyPrincipal, *p) })
	}
	return r, New(&r.RouterGroup, zap.NewNop())
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterActionJSON(t *testing.T) {
	r, e := newEZ(&domain.Principal{ID: 3, Role: domain.RoleUser})
	RegisterAction(e, Action[echoIn, echoIn]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(_ *gin.Context, p domain.Principal, in *echoIn) (echoIn, error) {
			return echoIn{Text: fmt.Sprintf("%d:%s", p.ID, in.Text)}, nil
		},
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":"hello"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"text":"3:hello"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":"hi"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Text: must satisfy min=3")

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/echo", http.NoBody))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":400,"message":"Request body is empty"}`, w.Body.String())
}

func TestRegisterActionAuthAndRoles(t *testing.T) {
	anon, e := newEZ(nil)
	RegisterAction(e, Action[struct{}, string]{
		Method:  http.MethodGet,
		Path:    "/private",
		Auth:    true,
		Handler: func(*gin.Context, domain.Principal, *struct{}) (string, error) { return "ok", nil },
	})
	w := serve(anon, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, w.Body.Len())

	user, e := newEZ(&domain.Principal{ID: 1, Role: domain.RoleUser})
	RegisterAction(e, Action[struct{}, string]{
		Method:  http.MethodGet,
		Path:    "/admin",
		Auth:    true,
		Roles:   []domain.Role{domain.RoleAdmin},
		Handler: func(*gin.Context, domain.Principal, *struct{}) (string, error) { return "ok", nil },
	})
	w = serve(user, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"status":403,"message":"Access denied"}`, w.Body.String())
}

func TestRegisterActionErrorMapping(t *testing.T) {
	r, e := newEZ(nil)
	cases := map[string]error{
		"/nf":    errs.NotFound("Ad with id=%d was not found", 9),
		"/forb":  errs.Forbidden("nope"),
		"/img":   errs.ImageDeletion("Failed to parse image ID", assert.AnError),
		"/plain": assert.AnError,
	}
	for path, err := range cases {
		err := err
		RegisterAction(e, Action[struct{}, struct{}]{
			Method:  http.MethodDelete,
			Path:    path,
			Status:  http.StatusNoContent,
			Handler: func(*gin.Context, domain.Principal, *struct{}) (struct{}, error) { return struct{}{}, err },
		})
	}
	RegisterAction(e, Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/ok",
		Status:  http.StatusNoContent,
		Handler: func(*gin.Context, domain.Principal, *struct{}) (struct{}, error) { return struct{}{}, nil },
	})

	want := map[string]string{
		"/nf":    `{"status":404,"message":"Ad with id=9 was not found"}`,
		"/forb":  `{"status":403,"message":"nope"}`,
		"/img":   `{"status":500,"message":"Unexpected error"}`,
		"/plain": `{"status":500,"message":"Unexpected error"}`,
	}
	for path, body := range want {
		w := serve(r, httptest.NewRequest(http.MethodDelete, path, nil))
		assert.JSONEq(t, body, w.Body.String(), path)
	}
	w := serve(r, httptest.NewRequest(http.MethodDelete, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestParamID(t *testing.T) {
	r, e := newEZ(nil)
	RegisterAction(e, Action[struct{}, string]{
		Method: http.MethodGet,
		Path:   "/ads/:id",
		Text:   true,
		Handler: func(c *gin.Context, _ domain.Principal, _ *struct{}) (string, error) {
			id, err := ParamID(c, "id")
			return fmt.Sprint(id), err
		},
	})
	w := serve(r, httptest.NewRequest(http.MethodGet, "/ads/12", nil))
	assert.Equal(t, "12", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	for _, bad := range []string{"abc", "0", "-1"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ads/"+bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func multipartBody(t *testing.T, write func(mw *multipart.Writer)) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	write(mw)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestBindPart(t *testing.T) {
	r, e := newEZ(nil)
	RegisterAction(e, Action[echoIn, string]{
		Path:   "/upload",
		Binder: BindMultipart,
		Part:   "properties",
		Text:   true,
		Handler: func(c *gin.Context, _ domain.Principal, in *echoIn) (string, error) {
			data, err := FormBytes(c, "image")
			if err != nil {
				return "", err
			}
			return in.Text + ":" + string(data), nil
		},
	})

	post := func(body *bytes.Buffer, ct string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)
		return serve(r, req)
	}

	// 普通表单值
	body, ct := multipartBody(t, func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("properties", `{"text":"value"}`))
		fw, err := mw.CreateFormFile("image", "a.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("bytes"))
	})
	w := post(body, ct)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "value:bytes", w.Body.String())

	// JSON 文件块
	body, ct = multipartBody(t, func(mw *multipart.Writer) {
		fw, err := mw.CreateFormFile("properties", "properties.json")
		require.NoError(t, err)
		_, _ = fw.Write([]byte(`{"text":"file"}`))
		fw, err = mw.CreateFormFile("image", "a.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("img"))
	})
	w = post(body, ct)
	assert.Equal(t, "file:img", w.Body.String())

	// 缺 image
	body, ct = multipartBody(t, func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("properties", `{"text":"value"}`))
	})
	w = post(body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image")

	// 缺 properties
	body, ct = multipartBody(t, func(mw *multipart.Writer) {
		require.NoError(t, mw.WriteField("other", "x"))
	})
	w = post(body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "properties")
}

func TestMultipartOverBodyLimitIs400(t *testing.T) {
	r, e := newEZ(nil)
	r.Use(mdw.MaxBodyBytes(256))
	RegisterAction(e, Action[echoIn, string]{
		Path:   "/upload",
		Binder: BindMultipart,
		Part:   "properties",
		Text:   true,
		Handler: func(c *gin.Context, _ domain.Principal, in *echoIn) (string, error) {
			data, err := FormBytes(c, "image")
			if err != nil {
				return "", err
			}
			return string(data), nil
		},
	})
	r.POST("/raw", func(c *gin.Context) {
		if _, err := FormBytes(c, "image"); err != nil {
			Render(c, zap.NewNop(), err)
			return
		}
		c.Status(http.StatusOK)
	})

	body := func() (*bytes.Buffer, string) {
		return multipartBody(t, func(mw *multipart.Writer) {
			require.NoError(t, mw.WriteField("properties", `{"text":"value"}`))
			fw, err := mw.CreateFormFile("image", "a.png")
			require.NoError(t, err)
			_, _ = fw.Write(bytes.Repeat([]byte{0xff}, 4096))
		})
	}

	for _, path := range []string{"/upload", "/raw"} {
		b, ct := body()
		req := httptest.NewRequest(http.MethodPost, path, b)
		req.Header.Set("Content-Type", ct)
		w := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "Image size exceeds the allowed limit: 256 bytes", path)
	}
}
