package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"savora/blobstore"
	"savora/config"
	"savora/coordinator"
	"savora/docstore"
	"savora/logger"
	"savora/middleware"
	"savora/mq"
	"savora/ratelim"
	"savora/rdx"
	"savora/recipes"
	"savora/routes"
)

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info().Str("method", r.Method).Str("uri", r.RequestURI).Str("remote", r.RemoteAddr).Msg("request")
		next.ServeHTTP(w, r)
	})
}

func setupRouter(h *recipes.Handler, rl *ratelim.RateLimiter, jwtSecret string, log zerolog.Logger) http.Handler {
	router := httprouter.New()
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("200"))
	})

	routes.AddRecipeRoutes(router, h, rl, jwtSecret)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return middleware.Recover(log, loggingMiddleware(log, securityHeaders(c.Handler(router))))
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.Env)

	// Mongo is the primary store; refuse to start without it.
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(context.TODO(), mongoOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Error().Err(err).Msg("disconnect MongoDB")
		}
	}()
	if err := client.Database("admin").RunCommand(context.TODO(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		log.Fatal().Err(err).Msg("ping MongoDB")
	}

	redisConn := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisConn.Ping(context.TODO()).Err(); err != nil {
		// The projection is best-effort; degraded start is allowed.
		log.Warn().Err(err).Msg("redis unreachable, projections will degrade")
	}

	uploader, err := blobstore.New(cfg.Minio, cfg.MaxUploadBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store")
	}

	publisher := mq.NewPublisher(cfg.KafkaBrokers)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("flush publisher")
		}
	}()

	store := docstore.NewRecipeStore(client.Database(cfg.MongoDB), cfg.PageLimit)
	cache := rdx.NewCache(redisConn)
	coord := coordinator.New(store, cache, publisher, uploader, cfg.CallTimeout, log)

	handler := recipes.NewHandler(coord, cfg.PageLimit, cfg.MaxUploadBytes)
	rateLimiter := ratelim.NewRateLimiter()
	mux := setupRouter(handler, rateLimiter, cfg.JWTSecret, log)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)
	<-shutdownChan

	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped cleanly")
}
