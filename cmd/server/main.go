// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tafara-ai/tafara/internal/config"
	"github.com/tafara-ai/tafara/internal/domain"
	"github.com/tafara-ai/tafara/internal/handlers"
	"github.com/tafara-ai/tafara/internal/middleware"
	"github.com/tafara-ai/tafara/internal/ratelimit"
	messagerepo "github.com/tafara-ai/tafara/internal/repository/message"
	personarepo "github.com/tafara-ai/tafara/internal/repository/persona"
	settingsrepo "github.com/tafara-ai/tafara/internal/repository/settings"
	userrepo "github.com/tafara-ai/tafara/internal/repository/user"
	"github.com/tafara-ai/tafara/internal/services"
	"github.com/tafara-ai/tafara/internal/services/ai"
	"github.com/tafara-ai/tafara/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("server")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.PublicPersona{}, &domain.ChatMessage{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer rdb.Close()

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)
	publicPersonaRepo := personarepo.NewPublicPersonaRepository(db)
	privatePersonaStore := personarepo.NewRedisPersonaStore(rdb)
	settingsRepo := settingsrepo.NewRedisSettingsRepository(rdb)

	// --- Services ---
	aiConfig := &ai.Config{
		BaseURL:   cfg.OpenRouterBaseURL,
		SiteURL:   cfg.SiteURL,
		SiteTitle: cfg.SiteTitle,
		Timeout:   cfg.UpstreamTimeout,
	}
	if err := aiConfig.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid AI gateway configuration: %v", err)
	}
	provider := ai.NewOpenRouterProvider(aiConfig)

	chatService, err := services.NewChatService(userRepo, provider, cfg.JWTSecretKey, cfg.SharedAPIKey, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.PresetUsernames, logger)
	historyService := services.NewHistoryService(messageRepo, logger)
	personaService := services.NewPersonaService(privatePersonaStore, publicPersonaRepo, logger)
	settingsService := services.NewSettingsService(settingsRepo, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, chatService, cfg.Environment)
	chatHandler := handlers.NewChatHandler(chatService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	personaHandler := handlers.NewPersonaHandler(personaService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService, userRepo)

	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
	authRoutes.Use(middleware.AuthSuccessMiddleware(authLimiter))
	authRoutes.HandleFunc("/register", authHandler.HandleRegister).Methods("POST")
	authRoutes.HandleFunc("/login", authHandler.HandleLogin).Methods("POST")

	r.HandleFunc("/api/auth/logout", authHandler.HandleLogout).Methods("POST")

	// The chat proxy authenticates via the token in its body, and the public
	// catalog is browsable without an account.
	r.HandleFunc("/api/chat", chatHandler.HandleCompletion).Methods("POST")
	r.HandleFunc("/api/personas/public", personaHandler.HandleListPublic).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/profile", authHandler.HandleProfile).Methods("GET")
	api.HandleFunc("/profile/api-key", authHandler.HandleUpdateAPIKey).Methods("PUT")
	api.HandleFunc("/shared-key", authHandler.HandleSharedKey).Methods("GET")

	api.HandleFunc("/personas/mine", personaHandler.HandleListMine).Methods("GET")
	api.HandleFunc("/personas/mine", personaHandler.HandleSaveMine).Methods("POST")
	api.HandleFunc("/personas/mine", personaHandler.HandleReplaceMine).Methods("PUT")
	api.HandleFunc("/personas/mine/{index:[0-9]+}", personaHandler.HandleDeleteMine).Methods("DELETE")
	api.HandleFunc("/personas/publish", personaHandler.HandlePublish).Methods("POST")
	api.HandleFunc("/personas/published/{id}", personaHandler.HandleUnpublish).Methods("DELETE")
	api.HandleFunc("/personas/{id}", personaHandler.HandleResolve).Methods("GET")

	api.HandleFunc("/conversations/{aiId}/messages", historyHandler.HandleGetTranscript).Methods("GET")
	api.HandleFunc("/conversations/{aiId}/messages", historyHandler.HandleSaveTurn).Methods("POST")
	api.HandleFunc("/conversations/{aiId}", historyHandler.HandleClear).Methods("DELETE")

	api.HandleFunc("/settings", settingsHandler.HandleGet).Methods("GET")
	api.HandleFunc("/settings", settingsHandler.HandleSave).Methods("PUT")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Tafara.ai server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
