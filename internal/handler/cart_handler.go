package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"football-store/internal/middleware"
	"football-store/internal/usecase"
)

// /cart と /cartItems のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartItemRequest struct {
	CartID    int64  `json:"cartId"`
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int64  `json:"quantity"`
	Player    string `json:"player"`
	Number    string `json:"number"`
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type DeleteCartItemResponse struct {
	Message   string `json:"message"`
	DeletedID int64  `json:"deletedId"`
}

// カート追加では存在しないカート/商品も400
var addItemOverride = statusOverride{usecase.KindNotFound: http.StatusBadRequest}

func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart", h.getMyCart)
	g.GET("/cart/:id", h.getCart)
	g.GET("/cart/user/:userId", h.getUserCart)
	g.GET("/cart/user/:userId/items", h.getUserCartItems)
	g.POST("/cart/add", h.addItem)
	g.PUT("/cartItems/:id", h.updateItem)
	g.DELETE("/cartItems/:id", h.deleteItem)
}

func (h *CartHandler) getMyCart(c echo.Context) error {
	out, err := h.uc.GetMyCart(c.Request().Context(), middleware.ActorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) getCart(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	out, err := h.uc.GetCart(c.Request().Context(), middleware.ActorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) getUserCart(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	out, err := h.uc.GetCartByUser(c.Request().Context(), middleware.ActorFromContext(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 明細だけを配列で返す
func (h *CartHandler) getUserCartItems(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	out, err := h.uc.GetCartByUser(c.Request().Context(), middleware.ActorFromContext(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out.Items)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), middleware.ActorFromContext(c), usecase.AddCartItemInput{
		CartID:    req.CartID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
		Player:    req.Player,
		Number:    req.Number,
	})
	if err != nil {
		return writeError(c, err, addItemOverride)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateItemQuantity(c.Request().Context(), middleware.ActorFromContext(c), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}

	if err := h.uc.RemoveItem(c.Request().Context(), middleware.ActorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, DeleteCartItemResponse{Message: "Cart item deleted", DeletedID: id})
}
