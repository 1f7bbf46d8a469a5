package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"football-store/internal/middleware"
	"football-store/internal/usecase"
)

type DiscountHandler struct {
	uc *usecase.DiscountUsecase
}

func NewDiscountHandler(uc *usecase.DiscountUsecase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

type DiscountRequest struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discountPercentage"`
	Active             *bool  `json:"active"`
}

func (r DiscountRequest) input() usecase.DiscountInput {
	return usecase.DiscountInput{
		Code:               r.Code,
		DiscountPercentage: r.DiscountPercentage,
		Active:             r.Active,
	}
}

func (h *DiscountHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/discount/validate", h.validate)
	g.PUT("/discount/:id/use", h.markUsed)

	g.GET("/discount", h.list)
	g.GET("/discount/:id", h.get)
	g.POST("/discount", h.create)
	g.POST("/discount/import", h.importBatch)
	g.PUT("/discount/:id", h.update)
	g.DELETE("/discount/:id", h.delete)
}

func (h *DiscountHandler) validate(c echo.Context) error {
	out, err := h.uc.Validate(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) markUsed(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.MarkUsed(c.Request().Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.ActorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.Get(c.Request().Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) create(c echo.Context) error {
	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), middleware.ActorFromContext(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// JSON配列でまとめて登録（既存コードはスキップ）。管理者のみ（Policy）
func (h *DiscountHandler) importBatch(c echo.Context) error {
	var req []DiscountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	rows := make([]usecase.DiscountInput, 0, len(req))
	for _, r := range req {
		rows = append(rows, r.input())
	}

	out, err := h.uc.Import(c.Request().Context(), rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), middleware.ActorFromContext(c), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
