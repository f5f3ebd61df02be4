package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roadies/roadies-backend/internal/adapters/cache"
	"github.com/roadies/roadies-backend/internal/adapters/catalog"
	"github.com/roadies/roadies-backend/internal/adapters/search"
	"github.com/roadies/roadies-backend/internal/adapters/session"
	"github.com/roadies/roadies-backend/internal/api/handlers"
	"github.com/roadies/roadies-backend/internal/api/routes"
	"github.com/roadies/roadies-backend/internal/application/services"
	"github.com/roadies/roadies-backend/internal/domain/providers"
	"github.com/roadies/roadies-backend/internal/domain/repositories"
	"github.com/roadies/roadies-backend/internal/infrastructure/clients/gemini"
	redisclient "github.com/roadies/roadies-backend/internal/infrastructure/clients/redis"
	tsclient "github.com/roadies/roadies-backend/internal/infrastructure/clients/typesense"
	"github.com/roadies/roadies-backend/internal/infrastructure/clients/woocommerce"
	"github.com/roadies/roadies-backend/internal/infrastructure/observability"
	"github.com/roadies/roadies-backend/pkg/config"
	"github.com/roadies/roadies-backend/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flags := services.NewFeatureFlags()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis backs the intent interpretation cache. The service degrades to
	// re-extracting on every message without it.
	var cacheProvider providers.CacheProvider
	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, intent cache disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis intent cache initialized")
	}

	// Local catalog is always available and is the source of truth for
	// id lookups.
	localCatalog := catalog.NewMemoryAdapter()

	var productCatalog repositories.ProductRepository = localCatalog

	// Storefront catalog, when configured, takes over category listings with
	// the local catalog as fallback.
	if flags.LiveCatalogEnabled() && cfg.WooCommerce.Configured() {
		wooClient, err := woocommerce.NewClient(&cfg.WooCommerce)
		if err != nil {
			logger.Warn().Err(err).Msg("storefront catalog unavailable, using local catalog")
		} else {
			productCatalog = catalog.NewFallbackAdapter(wooClient, localCatalog)
			logger.Info().Msg("storefront catalog initialized with local fallback")
		}
	}

	// Typesense serves category listings once hydrated from the local
	// catalog. Hydration failures leave the previous catalog in place.
	if flags.SearchIndexEnabled() {
		typesenseClient, err := tsclient.NewClient(&cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Typesense unavailable, search index disabled")
		} else {
			searchRepo := search.NewTypesenseAdapter(typesenseClient)
			if err := hydrateSearchIndex(ctx, searchRepo, localCatalog); err != nil {
				logger.Warn().Err(err).Msg("failed to hydrate search index")
			} else {
				productCatalog = catalog.NewSearchAdapter(searchRepo, productCatalog)
				logger.Info().Msg("search index hydrated and serving catalog reads")
			}
		}
	}

	var replyGenerator providers.ReplyGenerator
	if flags.GeneratedRepliesEnabled() {
		if cfg.Gemini.APIKey == "" {
			logger.Warn().Msg("GOOGLE_API_KEY is not set, generated replies disabled")
		} else {
			geminiClient, err := gemini.NewClient(&cfg.Gemini)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to initialize Gemini client")
			} else {
				defer geminiClient.Close()
				replyGenerator = geminiClient
				logger.Info().Msg("generated replies enabled")
			}
		}
	}

	sessions := session.NewMemoryAdapter()

	chatService := services.NewChatService(
		sessions,
		productCatalog,
		services.NewIntentService(cacheProvider),
		services.NewContextService(),
		services.NewRankingService(),
		services.NewResponseService(nil),
		replyGenerator,
	)

	chatHandler := handlers.NewChatHandler(chatService)

	router := routes.NewRouter(chatHandler, metrics)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}

// hydrateSearchIndex ensures the collection exists and upserts every local
// catalog product into it.
func hydrateSearchIndex(ctx context.Context, searchRepo repositories.ProductSearchRepository, localCatalog repositories.ProductRepository) error {
	return retry.Do(ctx, retry.DefaultConfig(), func() error {
		if err := searchRepo.InitSchema(ctx); err != nil {
			return err
		}
		products, err := localCatalog.GetProducts(ctx, "")
		if err != nil {
			return err
		}
		for _, p := range products {
			if err := searchRepo.Index(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}
