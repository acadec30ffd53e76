package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"tempus/config"
	"tempus/internal/adapters/auth"
	"tempus/internal/adapters/email"
	deliveryhttp "tempus/internal/delivery/http"
	"tempus/internal/delivery/http/controllers"
	"tempus/internal/domain"
	"tempus/internal/metrics"
	"tempus/internal/repository/memory"
	"tempus/internal/repository/postgres"
	"tempus/internal/services"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "Listen port. Overrides PORT."},
			&cli.StringFlag{Name: "store", Usage: "Store driver (postgres or memory). Overrides STORE_DRIVER."},
			&cli.BoolFlag{Name: "migrate", Usage: "Apply pending migrations before serving (postgres only)."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if p := c.String("port"); p != "" {
				cfg.Port = p
			}
			if s := c.String("store"); s != "" {
				cfg.StoreDriver = s
			}
			logger := config.NewLogger()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := openStores(ctx, cfg, logger, c.Bool("migrate"))
			if err != nil {
				return err
			}
			defer st.close()

			handler, err := newHandler(cfg, logger, st, bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			return serve(ctx, cfg.Port, handler, logger)
		},
	}
}

// stores groups the repositories selected by the store driver.
type stores struct {
	calendars  domain.CalendarStore
	events     domain.EventRepository
	users      domain.UserRepository
	loginCodes domain.LoginCodeRepository
	health     deliveryhttp.HealthCheck
	close      func()
}

func memoryStores() *stores {
	return &stores{
		calendars:  memory.NewCalendarStore(),
		events:     memory.NewEventRepository(),
		users:      memory.NewUserRepository(),
		loginCodes: memory.NewLoginCodeRepository(),
		close:      func() {},
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memoryStores(), nil
	case config.StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	if migrate {
		if _, err := postgres.Migrate(ctx, db, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &stores{
		calendars:  postgres.NewCalendarStore(db),
		events:     postgres.NewEventRepository(db),
		users:      postgres.NewUserRepository(db),
		loginCodes: postgres.NewLoginCodeRepository(db),
		health:     db.PingContext,
		close:      func() { db.Close() },
	}, nil
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// newHandler wires services, controllers and middleware over st.
func newHandler(cfg *config.Config, logger *slog.Logger, st *stores, bcryptCost int) (http.Handler, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}

	m := metrics.New()
	jwt := auth.NewJWT(cfg.JWTSecret)

	scheduling := services.NewSchedulingService(st.calendars, m, cfg.RequestTimeout)
	eventService := services.NewEventService(st.events, services.NewEventProjector(scheduling), cfg.RequestTimeout)
	userService := services.NewUserService(
		st.users,
		st.loginCodes,
		auth.NewBcryptHasher(bcryptCost),
		jwt,
		cfg.JWTExpiry,
		services.NewEmailService(mailer, renderer, logger),
		logger,
	)

	return deliveryhttp.NewHandler(deliveryhttp.RouterConfig{
		Logger:             logger,
		AuthController:     controllers.NewAuthController(logger, userService),
		UserController:     controllers.NewUserController(logger, userService),
		CalendarController: controllers.NewCalendarController(logger, scheduling),
		EventController:    controllers.NewEventController(logger, eventService),
		TokenVerifier:      jwt,
		Metrics:            m,
		Health:             st.health,
		AllowedOrigins:     cfg.AllowedOrigins,
	}), nil
}

func serve(ctx context.Context, port string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
