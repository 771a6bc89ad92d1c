package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/email"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/handoff"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/localstore"
	mongoadapter "github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/mongo"
	natsadapter "github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/nats"
	redisadapter "github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/redis"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/adapter/sheets"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/platform/tracer"
	grpcserver "github.com/Abdurahmanit/GroupProject/storefront-service/internal/port/grpc"
	httpport "github.com/Abdurahmanit/GroupProject/storefront-service/internal/port/http"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/repository"
	"github.com/Abdurahmanit/GroupProject/storefront-service/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

const metricsNamespace = "storefront"

type App struct {
	cfg            *config.Config
	log            logger.Logger
	httpServer     *http.Server
	grpcServer     *grpcserver.Server
	tracerProvider *sdktrace.TracerProvider
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, Cart storage: %s", cfg.Env, cfg.HTTPServer.Port, cfg.Cart.Storage)

	application := &App{cfg: cfg, log: appLogger}

	tp, err := tracer.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	application.tracerProvider = tp

	metricsManager := metrics.NewMetricsManager(metricsNamespace)

	if cfg.Cart.Storage == config.StorageRedis || cfg.Redis.CatalogCache {
		appLogger.Info("Initializing Redis client...")
		application.redisClient, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			application.closeClients(ctx)
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		appLogger.Info("Redis client initialized successfully")
	}

	cartRepo, err := application.newCartRepository(ctx)
	if err != nil {
		application.closeClients(ctx)
		return nil, err
	}
	appLogger.Infof("CartRepository initialized (%s)", cfg.Cart.Storage)

	var catalogCache repository.CatalogCache
	if cfg.Redis.CatalogCache {
		catalogCache = redisadapter.NewCatalogCache(application.redisClient)
		appLogger.Infof("Catalog cache enabled, ttl %s", cfg.Catalog.CacheTTL)
	}

	catalogService := service.NewCatalogService(
		sheets.NewClient(cfg.Catalog, appLogger),
		catalogCache,
		appLogger.With("component", "catalog"),
		metricsManager,
		service.CatalogServiceConfig{
			CacheTTL:      cfg.Catalog.CacheTTL,
			FeaturedCount: cfg.Catalog.FeaturedCount,
			Timeout:       cfg.Catalog.Timeout,
		},
	)
	cartStore := service.NewCartStore(ctx, cartRepo, appLogger.With("component", "cart"), metricsManager, service.CartStoreConfig{Slot: cfg.Cart.Slot})

	whatsApp, err := handoff.NewWhatsApp(cfg.Checkout)
	if err != nil {
		application.closeClients(ctx)
		return nil, fmt.Errorf("failed to initialize checkout hand-off: %w", err)
	}

	notifiers, err := application.newCheckoutNotifiers()
	if err != nil {
		application.closeClients(ctx)
		return nil, err
	}

	checkoutService := service.NewCheckoutService(
		cartStore,
		whatsApp,
		appLogger.With("component", "checkout"),
		metricsManager,
		service.CheckoutServiceConfig{Currency: cfg.Checkout.Currency},
		notifiers...,
	)

	handler := httpport.NewHandler(catalogService, cartStore, checkoutService, cfg.Checkout.Currency, appLogger)
	application.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPServer.Port),
		Handler:      httpport.NewRouter(handler, metricsManager, appLogger, httpport.RouterConfig{RequestTimeout: cfg.HTTPServer.RequestTimeout}),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	appLogger.Info("HTTP server instance created")

	if cfg.GRPCServer.Enabled {
		application.grpcServer = grpcserver.NewServer(
			appLogger,
			cfg.GRPCServer.Port,
			cfg.GRPCServer.TimeoutGraceful,
			cfg.GRPCServer.MaxConnectionIdle,
			grpcserver.NewCartGRPCHandler(catalogService, cartStore, appLogger),
		)
		appLogger.Info("gRPC server instance created")
	}

	return application, nil
}

func (a *App) newCartRepository(ctx context.Context) (repository.CartRepository, error) {
	switch a.cfg.Cart.Storage {
	case config.StorageRedis:
		return redisadapter.NewCartRepository(a.redisClient, a.cfg.Cart.TTL), nil
	case config.StorageMongo:
		a.log.Info("Initializing MongoDB client...")
		client, err := mongoadapter.NewClient(ctx, a.cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		a.mongoClient = client
		a.log.Info("MongoDB client initialized successfully")
		return mongoadapter.NewCartRepository(client, a.cfg.MongoDB), nil
	default:
		repo, err := localstore.NewCartRepository(a.cfg.Cart.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cart directory: %w", err)
		}
		return repo, nil
	}
}

// newCheckoutNotifiers wires the optional post-checkout side channels. Each one is enabled
// by its own config section.
func (a *App) newCheckoutNotifiers() ([]service.CheckoutNotifier, error) {
	var notifiers []service.CheckoutNotifier

	if a.cfg.NATS.URL != "" {
		a.log.Info("Connecting to NATS...")
		conn, err := natsadapter.NewConnection(a.cfg.NATS, a.log)
		if err != nil {
			return nil, err
		}
		a.natsConn = conn
		publisher, err := natsadapter.NewPublisher(conn, a.log)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		notifiers = append(notifiers, natsadapter.NewCheckoutNotifier(publisher, a.cfg.NATS.Subject))
		a.log.Infof("Checkout events will be published to %s", a.cfg.NATS.Subject)
	}

	if a.cfg.SMTP.Host != "" {
		sender, err := emailadapter.NewSMTPSender(a.cfg.SMTP, a.log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP sender: %w", err)
		}
		notifier, err := emailadapter.NewCheckoutNotifier(sender, a.cfg.SMTP.ShopEmail, a.cfg.SMTP.SendTimeout)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, notifier)
		a.log.Infof("Checkout emails will be sent to %s", a.cfg.SMTP.ShopEmail)
	}

	return notifiers, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		a.log.Infof("HTTP server is starting on port %s", a.cfg.HTTPServer.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	if a.grpcServer != nil {
		go func() {
			if err := a.grpcServer.Start(); err != nil {
				a.log.Fatalf("Failed to start gRPC server: %v", err)
			}
		}()
		a.log.Info("gRPC server started in a goroutine")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		a.log.Info("HTTP server stopped successfully")
		return nil
	})
	if a.grpcServer != nil {
		g.Go(func() error {
			if err := a.grpcServer.Stop(shutdownCtx); err != nil {
				return fmt.Errorf("gRPC server shutdown: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.log.Errorf("Error during graceful shutdown: %v", err)
	}

	a.closeClients(shutdownCtx)

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

func (a *App) shutdownTimeout() time.Duration {
	timeout := a.cfg.HTTPServer.TimeoutGraceful
	if a.cfg.GRPCServer.Enabled && a.cfg.GRPCServer.TimeoutGraceful > timeout {
		timeout = a.cfg.GRPCServer.TimeoutGraceful
	}
	return timeout + 5*time.Second
}

func (a *App) closeClients(ctx context.Context) {
	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}
}
