package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/socialbase/socialbase/auth"
	"github.com/socialbase/socialbase/config"
	"github.com/socialbase/socialbase/feed"
	"github.com/socialbase/socialbase/httpapi"
	"github.com/socialbase/socialbase/repository"
	"github.com/socialbase/socialbase/storage"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("socialbase"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))

	if err := run(ctx, lgr, cfg.Raw()); err != nil {
		lgr.GetLogger("main").Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, lgr *glog.BaseLogger, conf *config.BaseConfig) error {
	db, err := openDatabase(ctx, lgr, conf)
	if err != nil {
		return err
	}

	repo := repository.NewRepositoryManager(db)
	repo.MustValidate()

	images, err := storage.NewDiskStore(conf.GetUploads().GetDir())
	if err != nil {
		return err
	}

	provider := auth.NewUserProvider(repo.Users()).
		WithLogger(lgr.GetLogger("auth:provider"))

	auther := auth.NewAuthenticator(provider, conf.GetAuth()).
		WithLogger(lgr.GetLogger("auth"))

	register := auth.NewRegisterUserHandler(repo)

	feedService := feed.NewService(repo.Posts(), images, conf.GetFeed().GetPerPage()).
		WithLogger(lgr.GetLogger("feed"))

	app := fiber.New(fiber.Config{
		AppName:               "socialbase",
		DisableStartupMessage: false,
	})

	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		TokenService: auther.TokenService(),
		Auther:       auther,
		Register:     register,
		Users:        repo.Users(),
		Feed:         feedService,
		UploadsDir:   conf.GetUploads().GetDir(),
		Logger:       lgr.GetLogger("http"),
	})

	logger := lgr.GetLogger("server")

	errCh := make(chan error, 1)
	go func() {
		address := conf.GetServer().GetAddress()
		logger.Info("starting HTTP server", "address", address)
		errCh <- app.Listen(address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

func openDatabase(ctx context.Context, lgr *glog.BaseLogger, conf *config.BaseConfig) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, conf.GetPersistence().GetDSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	persistence.RegisterModel((*auth.User)(nil))
	persistence.RegisterModel((*feed.Post)(nil))

	client, err := persistence.New(conf.GetPersistence(), sqldb, sqlitedialect.New())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create persistence client")
	}

	client.SetLogger(lgr.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(repository.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve migrations")
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "migration dialect validation failed")
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "migrations failed")
	}

	return client.DB(), nil
}
