package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"football-store/internal/domain/model"
	"football-store/internal/middleware"
	"football-store/internal/repository"
	"football-store/internal/usecase"
)

type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/admin/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	var f repository.AuditLogFilter

	if v := c.QueryParam("actorUserId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid actorUserId")
		}
		f.ActorUserID = &id
	}
	if v := c.QueryParam("resourceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest(c, "invalid resourceId")
		}
		f.ResourceID = &id
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resourceType"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid limit")
		}
		f.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "invalid offset")
		}
		f.Offset = n
	}

	out, err := h.uc.List(c.Request().Context(), middleware.ActorFromContext(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
