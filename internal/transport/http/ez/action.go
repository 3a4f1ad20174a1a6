package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ads-online/internal/domain"
	mdw "ads-online/internal/transport/http/middleware"
	resp "ads-online/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ { return EZ{g: g, log: log} }

// Group 分组（可附加中间件）
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

// Raw 非 JSON 响应（如图片二进制）；err 走统一渲染
func (e EZ) Raw(method, path string, h func(c *gin.Context) error) {
	e.g.Handle(method, path, func(c *gin.Context) {
		if err := h(c); err != nil {
			Render(c, e.log, err)
		}
	})
}

// 绑定方式
type Binder string

const (
	BindJSON      Binder = "json"      // 从 JSON 绑定
	BindQuery     Binder = "query"     // 从 URL ?a=b 绑定
	BindMultipart Binder = "multipart" // 从 multipart 的 Part 字段（JSON）绑定
	BindNone      Binder = "none"      // 不绑定，自己从 c.Param / c.FormFile 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string        // 默认 POST
	Path   string        // 例："/ads/:id/comments"
	Binder Binder        // 绑定方式
	Part   string        // BindMultipart 使用的字段名
	Auth   bool          // 是否要求登录
	Roles  []domain.Role // 限定角色（可选）
	Status int           // 成功状态码，默认 200；204 不写响应体
	Text   bool          // 以 text/plain 输出 O
	// p 在 Auth=false 且匿名访问时为零值
	Handler func(c *gin.Context, p domain.Principal, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		p, authed := mdw.PrincipalFrom(c)
		if a.Auth && !authed {
			resp.AbortUnauthorized(c)
			return
		}
		if len(a.Roles) > 0 && !hasRole(p, a.Roles) {
			resp.Abort(c, http.StatusForbidden, "")
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindMultipart:
			bindErr = BindPart(c, a.Part, &in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			Render(c, e.log, bindError(bindErr))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, p, &in)
		if err != nil {
			Render(c, e.log, err)
			return
		}
		switch {
		case status == http.StatusNoContent:
			c.Status(status)
		case a.Text:
			c.String(status, "%v", out)
		default:
			c.JSON(status, out)
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func hasRole(p domain.Principal, roles []domain.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
