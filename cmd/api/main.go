package main

import (
	"context"
	"log"

	"github.com/tripmaster/trip-scout/internal/config"
	"github.com/tripmaster/trip-scout/internal/kvstore"
	"github.com/tripmaster/trip-scout/internal/ratelimit"
	"github.com/tripmaster/trip-scout/internal/repository/minio"
	"github.com/tripmaster/trip-scout/internal/repository/places"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
	"github.com/tripmaster/trip-scout/internal/repository/postgres"
	"github.com/tripmaster/trip-scout/internal/repository/scout"
	"github.com/tripmaster/trip-scout/internal/service"
	transport "github.com/tripmaster/trip-scout/internal/transport/http"
	"github.com/tripmaster/trip-scout/internal/util"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	store := kvstore.New(cfg.RedisURL)
	limiter := ratelimit.New(store, map[string]ratelimit.Rule{
		transport.RuleLogin:    {Limit: cfg.LoginMaxAttempts, Window: cfg.LoginWindow},
		transport.RuleGenerate: {Limit: cfg.GenerateLimit, Window: cfg.GenerateWindow},
		transport.RuleReplace:  {Limit: cfg.ReplaceLimit, Window: cfg.ReplaceWindow},
	})

	scoutClient, err := scout.NewClient(ctx, cfg.GeminiAPIKey, cfg.ScoutModel)
	if err != nil {
		log.Fatalf("create scout client: %v", err)
	}
	verifier := places.NewVerifier(cfg.PlacesAPIKey, cfg.PlacesTimeout)
	if !verifier.Enabled() {
		log.Println("GOOGLE_PLACES_API_KEY not set, venue verification disabled")
	}

	// Guide archiving is optional; without MinIO finalized guides are only
	// returned to the caller.
	var storage ports.ObjectStorage
	if cfg.MinIOEndpoint != "" {
		minioClient, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("connect to minio: %v", err)
		}
		storage = minio.NewStorage(minioClient)
	}

	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	tripRepo := postgres.NewTripRepo(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(userRepo, jwtManager, cfg.GoogleAudience)
	clientService := service.NewClientService(clientRepo, tripRepo)
	tripService := service.NewTripService(tripRepo)
	guideService := service.NewGuideService(scoutClient, verifier, tripRepo, clientRepo, store, storage, service.GuideConfig{
		CacheTTL:          cfg.CacheTTL,
		SessionTTL:        cfg.SessionTTL,
		MaxRetries:        cfg.ScoutMaxRetries,
		RetryDelay:        cfg.ScoutRetryDelay,
		PhotosPerDay:      cfg.PhotosPerDay,
		RestaurantsPerDay: cfg.RestaurantsPerDay,
		AttractionsPerDay: cfg.AttractionsPerDay,
		ModelLabel:        cfg.ScoutModelLabel,
		ArchiveBucket:     cfg.MinIOBucketGuides,
	})

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterHealth(e, cfg.ScoutModelLabel)
	transport.RegisterAuth(e, authService, limiter)
	transport.RegisterClients(e, authService, clientService)
	transport.RegisterTrips(e, authService, tripService)
	transport.RegisterScout(e, authService, guideService, limiter)
	transport.RegisterSwagger(e)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
