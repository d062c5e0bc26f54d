package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"club-membership-system/handlers"
	"club-membership-system/middleware"
	"club-membership-system/models"
	"club-membership-system/services"
	"club-membership-system/utils"
	"club-membership-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // 20MB — image uploads only
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-Username, X-User-Roles, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.MemberProfile{},
		&models.MemberAchievement{},
		&models.MirroredMember{},
		&models.Product{},
		&models.Purchase{},
		&models.Mission{},
		&models.MissionCompletion{},
		&models.Post{},
		&models.Like{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Referral{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("failed to connect to Redis:", err)
	}

	notificationService := services.NewNotificationService(db)
	leaderboardService := services.NewLeaderboardService(db, rdb)
	achievementService := services.NewAchievementService(db, notificationService)
	progressionService := services.NewProgressionService(db, achievementService, notificationService, leaderboardService)
	activityService := services.NewActivityService(db, progressionService, achievementService)
	shopService := services.NewShopService(db, progressionService, achievementService, activityService)
	missionService := services.NewMissionService(db, progressionService, achievementService, activityService, notificationService)
	referralService := services.NewReferralService(db, progressionService, achievementService, activityService)
	chatHub := services.NewChatHub(db, activityService, achievementService)

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	clubServiceToken := os.Getenv("CLUB_SERVICE_TOKEN")
	if clubServiceToken == "" {
		log.Fatal("CLUB_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, clubServiceToken)

	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	syncWorker := workers.NewProfileSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", clubServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.PollLeaderboard(ctx, leaderboardService, 5*time.Minute)

	go func() {
		log.Println("Starting Profile Sync Worker...")
		syncWorker.Start(ctx)
	}()

	services.StartDailyScheduler(missionService, shopService)

	// ✅ Setup routes — enforced Gateway auth + consistent /s/ prefix
	handlers.SetupProgressionRoutes(app, progressionService, achievementService, referralService)
	handlers.SetupActivityRoutes(app, activityService)
	handlers.SetupShopRoutes(app, shopService, progressionService)
	handlers.SetupMissionRoutes(app, missionService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupNotificationRoutes(app, notificationService, authClient)
	handlers.SetupChatRoutes(app, chatHub)
	handlers.SetupAdminRoutes(app, progressionService, referralService)

	app.Static("/uploads", "./uploads")

	// Chat websocket runs on its own listener: gorilla's upgrader needs
	// net/http, not fasthttp.
	chatAddr := os.Getenv("CHAT_ADDR")
	if chatAddr == "" {
		chatAddr = ":5301"
	}
	chatMux := http.NewServeMux()
	chatMux.HandleFunc("/ws/chat", chatHub.HandleWS)
	chatServer := &http.Server{Addr: chatAddr, Handler: chatMux}
	go func() {
		if err := chatServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Chat server error: %v", err)
		}
	}()

	apiAddr := os.Getenv("API_ADDR")
	if apiAddr == "" {
		apiAddr = ":5300"
	}
	go func() {
		if err := app.Listen(apiAddr); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost%s", apiAddr)
	log.Printf("✅ Chat websocket running on ws://localhost%s/ws/chat", chatAddr)
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Leaderboard reconcile polling running (every 5m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = chatServer.Shutdown(shutdownCtx)
	_ = app.ShutdownWithContext(shutdownCtx)
}
