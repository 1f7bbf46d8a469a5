package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"football-store/internal/config"
	"football-store/internal/discountfile"
	"football-store/internal/infra/db"
	"football-store/internal/infra/logger"
	infraRepo "football-store/internal/infra/repository"
	"football-store/internal/usecase"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL / POSTGRES_* env)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.csv[.gz]...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(os.Getenv("GO_ENV"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log, databaseURL, flag.Args()); err != nil {
		log.Error("discount import failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, databaseURL string, files []string) error {
	if databaseURL == "" {
		dbCfg, err := config.LoadDatabase(".env")
		if err != nil {
			return err
		}
		databaseURL = dbCfg.DSN()
	}

	rows, err := readAll(ctx, files)
	if err != nil {
		return err
	}
	log.Info("files read", zap.Int("files", len(files)), zap.Int("rows", len(rows)))

	gormDB, pool, err := db.Connect(ctx, databaseURL, false)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(gormDB); err != nil {
		return errors.Wrap(err, "migrate")
	}

	uc := usecase.NewDiscountUsecase(
		infraRepo.NewTxManagerGorm(gormDB),
		infraRepo.NewDiscountImporterPgx(pool),
		log,
	)
	out, err := uc.Import(ctx, rows)
	if err != nil {
		return err
	}

	for _, msg := range out.Invalid {
		log.Warn("invalid row skipped", zap.String("row", msg))
	}
	return nil
}

// ファイルごとに並行で読み、引数の順に連結する
func readAll(ctx context.Context, files []string) ([]usecase.DiscountInput, error) {
	parts := make([][]usecase.DiscountInput, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			rc, err := discountfile.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			rows, err := discountfile.Read(ctx, rc)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []usecase.DiscountInput
	for _, p := range parts {
		all = append(all, p...)
	}
	return all, nil
}
