package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"football-store/internal/middleware"
	"football-store/internal/usecase"
)

type AdminUserHandler struct {
	uc *usecase.AdminUserUsecase
}

func NewAdminUserHandler(uc *usecase.AdminUserUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// /admin 配下はPolicyでADMIN限定
func (h *AdminUserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/admin/user", h.list)
	g.POST("/admin/user", h.create)
	g.GET("/admin/user/:id", h.get)
	g.PUT("/admin/user/:id/role", h.updateRole)
	g.POST("/admin/user/:id/force-logout", h.forceLogout)
	g.DELETE("/admin/user/:id", h.delete)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.ActorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), middleware.ActorFromContext(c), usecase.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminUserHandler) get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	out, err := h.uc.Get(c.Request().Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) updateRole(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateRole(c.Request().Context(), middleware.ActorFromContext(c), id, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) forceLogout(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	out, err := h.uc.ForceLogout(c.Request().Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
