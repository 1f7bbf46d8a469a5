package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"football-store/internal/config"
	"football-store/internal/handler"
	"football-store/internal/infra/db"
	"football-store/internal/infra/logger"
	"football-store/internal/infra/memory"
	infraRepo "football-store/internal/infra/repository"
	"football-store/internal/infra/security"
	"football-store/internal/repository"
	"football-store/internal/server"
	"football-store/internal/usecase"
	auth "football-store/internal/usecase/auth_usecase"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 保存先ごとの部品
type storage struct {
	tx       repository.TransactionManager
	users    repository.UserRepository
	importer repository.DiscountImporter
	pinger   handler.Pinger
	close    func()
}

func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return storage{
			tx:     store,
			users:  store.Users(),
			pinger: store,
			close:  func() {},
		}, nil
	}

	gormDB, pool, err := db.Connect(ctx, cfg.DSN(), cfg.GoEnv == "dev")
	if err != nil {
		return storage{}, err
	}
	if err := db.Migrate(gormDB); err != nil {
		pool.Close()
		return storage{}, err
	}

	return storage{
		tx:       infraRepo.NewTxManagerGorm(gormDB),
		users:    infraRepo.NewUserGormRepository(gormDB),
		importer: infraRepo.NewDiscountImporterPgx(pool),
		pinger:   pool,
		close:    pool.Close,
	}, nil
}

func run() error {
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := security.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := security.NewBcryptPasswordVerifier()
	jwtManager := security.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)

	//Usecase生成
	cartUC := usecase.NewCartUsecase(st.tx, log)
	discountUC := usecase.NewDiscountUsecase(st.tx, st.importer, log)
	orderUC := usecase.NewOrderUsecase(st.tx, log)
	productUC := usecase.NewProductUsecase(st.tx, log)
	inventoryUC := usecase.NewInventoryUsecase(st.tx, log)
	adminUserUC := usecase.NewAdminUserUsecase(st.tx, hasher, log)
	auditUC := usecase.NewAuditLogUsecase(st.tx)

	registerUC := auth.NewRegisterUserUsecase(st.tx, hasher, clock)
	loginUC := auth.NewLoginUsecase(st.users, verifier, jwtManager, clock)
	logoutUC := auth.NewLogoutUsecase(st.users)
	statusUC := auth.NewStatusUsecase(st.users)
	profileUC := auth.NewUpdateProfileUsecase(st.tx, hasher)

	//Handler生成
	e := server.New(log, jwtManager, st.users, server.APIPolicy, server.Handlers{
		Auth:      handler.NewAuthHandler(registerUC, loginUC, logoutUC, statusUC, profileUC),
		Product:   handler.NewProductHandler(productUC),
		Inventory: handler.NewInventoryHandler(inventoryUC),
		Cart:      handler.NewCartHandler(cartUC),
		Discount:  handler.NewDiscountHandler(discountUC),
		Order:     handler.NewOrderHandler(orderUC),
		AdminUser: handler.NewAdminUserHandler(adminUserUC),
		AuditLog:  handler.NewAuditLogHandler(auditUC),
		Health:    handler.NewHealthHandler(st.pinger),
	})

	return server.Run(ctx, e, cfg.Addr(), cfg.ShutdownTimeout, log)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
