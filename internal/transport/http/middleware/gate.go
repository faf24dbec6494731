package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"carexchange/internal/domain"
)

// 页面路由的声明式授权表：前缀 → 允许角色。
// 判定集中在 Decide 一个函数里，组件/中间件不再各写各的条件

type routeRule struct {
	Prefix string
	Roles  []string
}

var protectedRoutes = []routeRule{
	{Prefix: "/donate", Roles: []string{domain.RoleDonor}},
	{Prefix: "/request", Roles: []string{domain.RoleRecipient}},
	{Prefix: "/profile", Roles: []string{domain.RoleDonor, domain.RoleRecipient, domain.RoleAdmin}},
}

// 登录态访问则跳回首页
var publicOnlyRoutes = []string{"/login", "/register"}

type GateState struct {
	Authenticated bool
	Role          string
}

type DecisionKind int

const (
	Allow DecisionKind = iota
	Redirect
)

type Decision struct {
	Kind    DecisionKind
	Target  string // Redirect 时的目标
	Message string // 透传给登录页的提示
}

func allow() Decision { return Decision{Kind: Allow} }

func redirectTo(target, msg string) Decision {
	return Decision{Kind: Redirect, Target: target, Message: msg}
}

// Decide 路由决策：逐条匹配，未命中一律放行
func Decide(path string, st GateState) Decision {
	for _, p := range publicOnlyRoutes {
		if strings.HasPrefix(path, p) && st.Authenticated {
			return redirectTo("/", "")
		}
	}
	for _, r := range protectedRoutes {
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		if !st.Authenticated {
			return redirectTo("/login?from="+url.QueryEscape(path), "Please login to access this feature")
		}
		for _, role := range r.Roles {
			if st.Role == role {
				return allow()
			}
		}
		return redirectTo("/", "")
	}
	return allow()
}

// PageGate 页面路径的会话门。API/静态资源不经过这里
func PageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") ||
			strings.HasPrefix(path, "/uploads") ||
			path == "/health" || path == "/metrics" {
			c.Next()
			return
		}

		st := GateState{
			Authenticated: c.GetString(KeyUserID) != "",
			Role:          c.GetString(KeyRole),
		}
		d := Decide(path, st)
		if d.Kind == Redirect {
			target := d.Target
			if d.Message != "" {
				sep := "?"
				if strings.Contains(target, "?") {
					sep = "&"
				}
				target += sep + "message=" + url.QueryEscape(d.Message)
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
