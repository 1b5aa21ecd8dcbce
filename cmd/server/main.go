package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"nexus_backend/internal/app/di"
	"nexus_backend/internal/app/router"
	adminhandler "nexus_backend/internal/feature/admin/transport/handler"
	adminusecase "nexus_backend/internal/feature/admin/usecase"
	analysisadapters "nexus_backend/internal/feature/analysis/adapters"
	analysishandler "nexus_backend/internal/feature/analysis/transport/handler"
	analysisusecase "nexus_backend/internal/feature/analysis/usecase"
	authadapters "nexus_backend/internal/feature/auth/adapters"
	authhandler "nexus_backend/internal/feature/auth/transport/handler"
	authusecase "nexus_backend/internal/feature/auth/usecase"
	infradb "nexus_backend/internal/platform/db"
	infraredis "nexus_backend/internal/platform/redis"
	jwtmw "nexus_backend/internal/platform/jwt"
)

// tokenExpiration はログインで発行するJWTの有効期間です。
const tokenExpiration = 24 * time.Hour

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	ctx := context.Background()

	// db
	db := infradb.OpenDB()

	// Redis（利用できない場合はDBフォールバック）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Falling back to database store.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Store / Repository
	store := di.NewStore(rdb, db)
	userRepo := authadapters.NewUserStore(store)
	projectRepo := analysisadapters.NewProjectStore(store)

	// 起動時に一度だけ初期投入（冪等）
	if err := userRepo.Init(ctx); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	if err := projectRepo.Init(ctx); err != nil {
		log.Fatalf("failed to seed projects: %v", err)
	}

	// 生成プロバイダ
	analyzer, err := di.NewAnalyzer(ctx)
	if err != nil {
		log.Fatalf("failed to create analyzer: %v", err)
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Println("[WARN] GEMINI_API_KEY is not set. Analysis requests will fail.")
	}

	// JWT
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), tokenExpiration)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	analysisUC := analysisusecase.NewAnalysisUsecase(analyzer, projectRepo)
	adminUC := adminusecase.NewAdminUsecase(userRepo, projectRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	analysisH := analysishandler.NewAnalysisHandler(analysisUC)
	adminH := adminhandler.NewAdminHandler(adminUC)

	// ルータ生成
	router := router.NewRouter(authH, analysisH, adminH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
