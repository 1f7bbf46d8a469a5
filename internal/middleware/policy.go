package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"football-store/internal/domain/model"
)

type Capability int

const (
	Authenticated Capability = iota
	Public
	Admin
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Admin:
		return "admin"
	default:
		return "authenticated"
	}
}

// Method "*" は全メソッド、Path末尾 "/*" は前方一致
type Rule struct {
	Method string
	Path   string
	Need   Capability
}

// 上から順に見て最初に一致したルールを使う
type Policy []Rule

// どのルールにも一致しなければAuthenticated
func (p Policy) Resolve(method, path string) Capability {
	for _, r := range p {
		if r.Method != "*" && !strings.EqualFold(r.Method, method) {
			continue
		}
		if matchPath(r.Path, path) {
			return r.Need
		}
	}
	return Authenticated
}

func matchPath(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

// echoのルートパターン（c.Path()）でPolicyを引く
func Authorize(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			need := p.Resolve(c.Request().Method, c.Path())
			if need == Public {
				return next(c)
			}

			actor := ActorFromContext(c)
			if actor.UserID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if need == Admin && actor.Role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
