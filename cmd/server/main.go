package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"maintenanceManagement/internal/api"
	"maintenanceManagement/internal/auth"
	"maintenanceManagement/internal/config"
	"maintenanceManagement/internal/db"
	grpcserver "maintenanceManagement/internal/grpc"
	"maintenanceManagement/internal/logging"
	"maintenanceManagement/internal/navigation"
	"maintenanceManagement/internal/session"
	"maintenanceManagement/internal/web"
	"maintenanceManagement/models"
	"maintenanceManagement/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.Stringer("config", cfg))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close db", zap.Error(err))
		}
	}()

	users := repository.NewUserRepository(d)
	orders := repository.NewWorkOrderRepository(d)
	catalog := repository.NewCatalogRepository(d)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedAdmin(ctx, users, logger); err != nil {
		return err
	}

	engine := api.NewEngine(cfg.HTTP.Mode, logger)
	(&api.Handler{
		Users:    users,
		Orders:   orders,
		Catalog:  catalog,
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.Auth.TokenTTL,
		Logger:   logger.Named("api"),
	}).Register(engine)
	(&web.Front{
		Table:    navigation.NewTable(logger.Named("guard")),
		Cookies:  session.NewCookieStore(cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.MaxAge),
		Users:    users,
		Catalog:  catalog,
		Orders:   orders,
		PageSize: cfg.Client.PageSize,
		Logger:   logger.Named("web"),
	}).Register(engine)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownGRPC, err := grpcserver.StartGRPC(cfg, users, orders, catalog, logger.Named("grpc"))
	if err != nil {
		return err
	}
	logger.Info("gRPC server listening", zap.String("address", cfg.GRPC.Address))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpErr := httpSrv.Shutdown(sctx)
		grpcErr := shutdownGRPC(sctx)
		return errors.Join(httpErr, grpcErr)
	})
	return g.Wait()
}

// seedAdmin creates the ADMIN_USERNAME account on first start so a fresh
// database can be signed into.
func seedAdmin(ctx context.Context, users *repository.UserRepository, logger *zap.Logger) error {
	name, password := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")
	if name == "" || password == "" {
		return nil
	}
	existing, err := users.GetByUsername(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := users.Create(ctx, name, models.RoleAdmin, hash); err != nil {
		return err
	}
	logger.Info("admin account created", zap.String("username", name))
	return nil
}
