package main

import (
	"context"
	"fmt"
	"os"
	"time"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/config"
	"github.com/barangaylink/barangaylink-backend/internal/db"
	"github.com/barangaylink/barangaylink-backend/internal/handlers"
	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/middleware"
	"github.com/barangaylink/barangaylink-backend/internal/observability"
	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/server"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/sse"
	"github.com/barangaylink/barangaylink-backend/internal/utils"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "barangaylink",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	defer func() {
		if shutdownOTel == nil {
			return
		}
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	residentRepo := repos.NewResidentRepo(thePG, log)
	ordinanceRepo := repos.NewOrdinanceRepo(thePG, log)
	minutesRepo := repos.NewMeetingMinutesRepo(thePG, log)
	pregnancyRepo := repos.NewPregnancyRepo(thePG, log)
	maternalRecordRepo := repos.NewMaternalRecordRepo(thePG, log)
	medicineItemRepo := repos.NewMedicineItemRepo(thePG, log)
	medicineRequestRepo := repos.NewMedicineRequestRepo(thePG, log)
	summonCaseRepo := repos.NewSummonCaseRepo(thePG, log)
	treasuryRepo := repos.NewTreasuryRepo(thePG, log)

	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Redis is optional: without it listings go straight to Postgres
	// and drafts live in process memory.
	var listingCache redisclient.ListingCache
	if lc, lcErr := redisclient.NewListingCache(log); lcErr != nil {
		log.Warn("Redis listing cache unavailable, serving listings uncached", "error", lcErr)
	} else {
		listingCache = lc
		defer func() { _ = lc.Close() }()
		if lErr := lc.StartInvalidationListener(ctx, func(channel string) {
			sseHub.Broadcast(sse.SSEMessage{Channel: channel, Event: sse.SSEEvent("ListingInvalidated")})
		}); lErr != nil {
			log.Warn("Failed to start cache invalidation listener", "error", lErr)
		}
	}

	var draftStore redisclient.RequestDraftStore
	if ds, dsErr := redisclient.NewRequestDraftStore(log); dsErr != nil {
		log.Warn("Redis draft store unavailable, using in-memory drafts", "error", dsErr)
		draftStore = redisclient.NewMemoryDraftStore()
	} else {
		draftStore = ds
	}

	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	residentService := services.NewResidentService(thePG, log, residentRepo)
	ordinanceService := services.NewOrdinanceService(thePG, log, ordinanceRepo, listingCache, sseHub)
	minutesService := services.NewMinutesService(thePG, log, minutesRepo, listingCache, sseHub)
	maternalService := services.NewMaternalService(thePG, log, pregnancyRepo, maternalRecordRepo, residentRepo, listingCache, sseHub)
	medicineService := services.NewMedicineService(thePG, log, medicineItemRepo, medicineRequestRepo, residentRepo, draftStore, listingCache, sseHub)

	var noticeRenderer *services.NoticeRenderer
	if nr, nrErr := services.NewNoticeRenderer(log, cfg.BarangayName, cfg.Municipality); nrErr != nil {
		log.Warn("Summons notice rendering disabled", "error", nrErr)
	} else {
		noticeRenderer = nr
	}
	summonService := services.NewSummonService(thePG, log, summonCaseRepo, noticeRenderer, listingCache, sseHub)
	treasuryService := services.NewTreasuryService(thePG, log, treasuryRepo, listingCache, sseHub)
	dashboardService := services.NewDashboardService(log, residentRepo, ordinanceRepo, minutesRepo,
		pregnancyRepo, medicineItemRepo, medicineRequestRepo, summonCaseRepo, treasuryRepo)

	log.Info("Setting up Handlers from main...")
	routerCfg := server.RouterConfig{
		ServerConfig:       &cfg,
		AuthMiddleware:     middleware.NewAuthMiddleware(log, authService),
		HealthcheckHandler: handlers.NewHealthcheckHandler(),
		AuthHandler:        handlers.NewAuthHandler(authService),
		ResidentHandler:    handlers.NewResidentHandler(log, residentService),
		OrdinanceHandler:   handlers.NewOrdinanceHandler(log, ordinanceService),
		MinutesHandler:     handlers.NewMinutesHandler(log, minutesService),
		MaternalHandler:    handlers.NewMaternalHandler(log, maternalService),
		MedicineHandler:    handlers.NewMedicineHandler(log, medicineService),
		SummonHandler:      handlers.NewSummonHandler(log, summonService),
		TreasuryHandler:    handlers.NewTreasuryHandler(log, treasuryService),
		DashboardHandler:   handlers.NewDashboardHandler(log, dashboardService),
		SSEHandler:         handlers.NewSSEHandler(log, sseHub),
	}
	router := server.NewRouter(routerCfg)

	log.Info("Starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
