package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"football-store/internal/middleware"
	"football-store/internal/usecase"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderCreateRequest struct {
	UserID     int64  `json:"userId"`
	DiscountID *int64 `json:"discountId"`
	City       string `json:"city"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	PostalCode string `json:"postalCode"`
}

// 省略した項目は変更しない
type OrderUpdateRequest struct {
	Status     *string `json:"status"`
	City       *string `json:"city"`
	Street     *string `json:"street"`
	Number     *string `json:"number"`
	PostalCode *string `json:"postalCode"`
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", h.create)
	g.GET("/orders", h.list)
	g.GET("/orders/:id", h.detail)
	g.PUT("/orders/:id", h.update)
	g.DELETE("/orders/:id", h.delete)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), middleware.ActorFromContext(c), usecase.CreateOrderInput{
		UserID:     req.UserID,
		DiscountID: req.DiscountID,
		City:       req.City,
		Street:     req.Street,
		Number:     req.Number,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ?status=PENDING など
func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.ActorFromContext(c), c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
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

func (h *OrderHandler) update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req OrderUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), middleware.ActorFromContext(c), id, usecase.UpdateOrderInput{
		Status:     req.Status,
		City:       req.City,
		Street:     req.Street,
		Number:     req.Number,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.Delete(c.Request().Context(), middleware.ActorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
