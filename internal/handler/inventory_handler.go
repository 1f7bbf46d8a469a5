package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"football-store/internal/middleware"
	"football-store/internal/usecase"
)

type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// 在庫更新の入力
type SetStockRequest struct {
	Size     string `json:"size"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

type SizeAvailabilityResponse struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Available bool   `json:"available"`
}

func (h *InventoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/productInventory/product/:id", h.list)
	g.GET("/productInventory/product/:id/size/:size", h.sizeAvailable)
	g.PUT("/productInventory/product/:id", h.setStock)
}

func (h *InventoryHandler) list(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.ListByProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) sizeAvailable(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	size := c.Param("size")
	available, err := h.uc.IsSizeAvailable(c.Request().Context(), id, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SizeAvailabilityResponse{ProductID: id, Size: size, Available: available})
}

func (h *InventoryHandler) setStock(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AdminSetStock(c.Request().Context(), middleware.ActorFromContext(c), id, usecase.SetStockInput{
		Size:     req.Size,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
