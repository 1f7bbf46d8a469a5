package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"football-store/internal/domain/model"
	"football-store/internal/infra/security"
	"football-store/internal/usecase"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // model.Role
	CtxTokenVersionKey = "token_version" // int
)

// JWTを検証する約束
type TokenParser interface {
	Parse(raw string) (security.Claims, error)
}

// Authorizationヘッダがあれば検証してcontextへ入れる。
// ヘッダが無いリクエストはそのまま通す（必要かどうかはPolicyで決める）。
func AuthJWT(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return next(c)
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, err := parser.Parse(rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

// contextの本人情報。未ログインならUserID=0
func ActorFromContext(c echo.Context) usecase.Actor {
	userID, _ := c.Get(CtxUserIDKey).(int64)
	role, _ := c.Get(CtxUserRoleKey).(model.Role)
	return usecase.Actor{UserID: userID, Role: role}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
