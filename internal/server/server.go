package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"football-store/internal/handler"
	mw "football-store/internal/middleware"
	"football-store/internal/repository"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
	Cart      *handler.CartHandler
	Discount  *handler.DiscountHandler
	Order     *handler.OrderHandler
	AdminUser *handler.AdminUserHandler
	AuditLog  *handler.AuditLogHandler
	Health    *handler.HealthHandler
}

// middlewareの順: RequestID → ログ → Recover → JWT → token_version → Policy
func New(log *zap.Logger, parser mw.TokenParser, users repository.UserRepository, policy mw.Policy, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(mw.RequestID())
	e.Use(mw.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(mw.AuthJWT(parser))
	e.Use(mw.TokenVersionGuard(users))
	e.Use(mw.Authorize(policy))

	h.Health.RegisterRoutes(e)

	api := e.Group("/api")
	h.Auth.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.Inventory.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api)
	h.Discount.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)
	h.AdminUser.RegisterRoutes(api)
	h.AuditLog.RegisterRoutes(api)

	return e
}

// ctxが終わるまで動かし、終わったらshutdownTimeout以内に止める
func Run(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration, log *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "start server")
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("server shutting down")
		if err := e.Shutdown(sctx); err != nil {
			return errors.Wrap(err, "shutdown server")
		}
		return nil
	})

	return g.Wait()
}
