package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	jwt_adapter "github.com/Robb753/farm-to-fork-sub000/internal/adapters/jwt"
	logger_adapter "github.com/Robb753/farm-to-fork-sub000/internal/adapters/logger"
	"github.com/Robb753/farm-to-fork-sub000/internal/adapters/mailer"
	postgres_adapter "github.com/Robb753/farm-to-fork-sub000/internal/adapters/postgres"
	rabbitmq_adapter "github.com/Robb753/farm-to-fork-sub000/internal/adapters/rabbitmq"
	"github.com/Robb753/farm-to-fork-sub000/internal/adapters/rest"
	"github.com/Robb753/farm-to-fork-sub000/internal/configs"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/usecase"
	fluentlogger "github.com/Robb753/farm-to-fork-sub000/pkg/fluent_logger"
	"github.com/Robb753/farm-to-fork-sub000/pkg/postgres"
	"github.com/Robb753/farm-to-fork-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/Robb753/farm-to-fork-sub000/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/Robb753/farm-to-fork-sub000/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort

	server *rest.Server

	// Входящий порт: очередь уведомлений
	notificationListener port.EventListenerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. POSTGRES ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL:    appConfig.Database.URL,
		MaxConns:       appConfig.Database.MaxConns,
		MinConns:       appConfig.Database.MinConns,
		ConnectTimeout: appConfig.Database.ConnectTimeout,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingRepo, err := postgres_adapter.NewListingRepository(dbPool)
	if err != nil {
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}
	favoritesRepo, err := postgres_adapter.NewFavoritesRepository(dbPool)
	if err != nil {
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}
	productRepo, err := postgres_adapter.NewProductRepository(dbPool)
	if err != nil {
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}
	reviewRepo, err := postgres_adapter.NewReviewRepository(dbPool)
	if err != nil {
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}

	// --- 3. RABBITMQ ---
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"}))
	eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             appConfig.RabbitMQ.Exchange,
		ExchangeType:             amqp.ExchangeDirect,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   producerBridge,
	}, connManager)
	if err != nil {
		appLogger.Error("Failed to create RabbitMQ event producer", err, nil)
		connManager.Close()
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	notifier, err := rabbitmq_adapter.NewNotificationPublisherAdapter(eventProducer)
	if err != nil {
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}

	// --- 4. ПОЧТА И СЛУШАТЕЛЬ УВЕДОМЛЕНИЙ ---
	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     appConfig.SMTP.Host,
		Port:     appConfig.SMTP.Port,
		Username: appConfig.SMTP.Username,
		Password: appConfig.SMTP.Password,
		From:     appConfig.SMTP.From,
	})
	if err != nil {
		appLogger.Error("Failed to create SMTP mailer", err, nil)
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}
	sendNotificationUC := usecase.NewSendNotificationUseCase(smtpMailer)

	queue := appConfig.RabbitMQ.Queue
	notificationsConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              queue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    appConfig.RabbitMQ.Exchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    amqp.ExchangeDirect,
		DurableExchangeForBind: true,
		RoutingKeysForBind:     rabbitmq_adapter.NotificationRoutingKeys,
		PrefetchCount:          5,
		ConsumerTag:            "notifications-mailer-adapter",

		EnableRetryMechanism: true,
		RetryExchange:        queue + "_retry_ex",
		RetryQueue:           queue + "_retry_wait",
		RetryTTL:             int(appConfig.RabbitMQ.RetryDelay / time.Millisecond),
		FinalDLXExchange:     queue + "_final_dlx",
		FinalDLQ:             queue + "_final_dlq",
		FinalDLQRoutingKey:   queue + "_final",
		MaxRetries:           appConfig.RabbitMQ.MaxRetries,
	}
	notificationListener, err := rabbitmq_adapter.NewNotificationConsumerAdapter(notificationsConsumerCfg, sendNotificationUC, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to initialize Notification Events Listener", err, nil)
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}
	appLogger.Info("Notification Events Listener initialized.", nil)

	// --- 5. REST ---
	tokenVerifier, err := jwt_adapter.NewTokenVerifier(appConfig.Auth.JWTSecret, appConfig.Auth.Issuer)
	if err != nil {
		notificationListener.Close()
		eventProducer.Close()
		connManager.Close()
		dbPool.Close()
		closeFluent(fluentClient)
		return nil, err
	}

	getProductsUC := usecase.NewGetProductsUseCase(listingRepo, productRepo)
	handlers := rest.Handlers{
		Listings: rest.NewListingsHandler(
			usecase.NewFindListingsUseCase(listingRepo),
			usecase.NewGetListingUseCase(listingRepo),
			usecase.NewGetListingClustersUseCase(listingRepo),
			usecase.NewGetFilterOptionsUseCase(listingRepo),
			getProductsUC,
		),
		Producer: rest.NewProducerHandler(
			usecase.NewCreateListingUseCase(listingRepo),
			usecase.NewUpdateListingUseCase(listingRepo),
			usecase.NewDeactivateListingUseCase(listingRepo),
			usecase.NewAddProductUseCase(listingRepo, productRepo),
		),
		Admin: rest.NewAdminHandler(
			usecase.NewGetPendingListingsUseCase(listingRepo),
			usecase.NewModerateListingUseCase(listingRepo, notifier),
		),
		Favorites: rest.NewFavoritesHandler(
			usecase.NewAddToFavoritesUseCase(favoritesRepo, listingRepo),
			usecase.NewRemoveFromFavoritesUseCase(favoritesRepo),
			usecase.NewGetUserFavoritesUseCase(favoritesRepo, listingRepo),
			usecase.NewGetUserFavoritesIdsUseCase(favoritesRepo),
		),
		Reviews: rest.NewReviewsHandler(
			usecase.NewCreateReviewUseCase(reviewRepo, listingRepo, notifier),
			usecase.NewGetReviewsUseCase(reviewRepo),
		),
	}

	router := rest.NewRouter(handlers, rest.NewAuthMiddleware(tokenVerifier), appConfig.Rest.AllowedOrigins, baseLogger)
	server := rest.NewServer(appConfig.Rest.PORT, router, baseLogger)

	return &App{
		config:               appConfig,
		dbPool:               dbPool,
		connManager:          connManager,
		eventProducer:        eventProducer,
		fluentClient:         fluentClient,
		logger:               appLogger,
		server:               server,
		notificationListener: notificationListener,
	}, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			a.logger.Error("Error stopping REST server", err, nil)
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.notificationListener != nil {
			if err := a.notificationListener.Close(); err != nil {
				a.logger.Error("Error closing notifications listener", err, nil)
			}
		}
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}
		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	componentErrors := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Notification Events Listener"})
		listenerLogger.Info("Starting listener...", nil)
		if err := a.notificationListener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			componentErrors <- fmt.Errorf("notification listener error: %w", err)
			return
		}
		listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
	}()

	go func() {
		if err := a.server.Start(); err != nil {
			componentErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or component error...", port.Fields{"port": a.config.Rest.PORT})
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case err := <-componentErrors:
		a.logger.Error("A critical component failed, shutting down", err, nil)
		runErr = err
	}

	// отмена главного контекста останавливает слушателя до закрытия ресурсов
	cancelApp()

	return runErr
}

func closeFluent(client *fluent.Fluent) {
	if client != nil {
		client.Close()
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
