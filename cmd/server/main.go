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
	"gorm.io/gorm"

	"github.com/HaswanthR-CIT/ECHO/internal/config"
	"github.com/HaswanthR-CIT/ECHO/internal/domain"
	"github.com/HaswanthR-CIT/ECHO/internal/handlers"
	"github.com/HaswanthR-CIT/ECHO/internal/middleware"
	"github.com/HaswanthR-CIT/ECHO/internal/realtime"
	grouprepo "github.com/HaswanthR-CIT/ECHO/internal/repository/group"
	messagerepo "github.com/HaswanthR-CIT/ECHO/internal/repository/message"
	userrepo "github.com/HaswanthR-CIT/ECHO/internal/repository/user"
	"github.com/HaswanthR-CIT/ECHO/internal/services"
	"github.com/HaswanthR-CIT/ECHO/internal/services/chatbot"
	"github.com/HaswanthR-CIT/ECHO/internal/services/events"
	"github.com/HaswanthR-CIT/ECHO/internal/services/membership"
	"github.com/HaswanthR-CIT/ECHO/internal/services/presence"
	"github.com/HaswanthR-CIT/ECHO/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
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
	logger := services.NewLogger("echo")

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Group{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	groupRepo := grouprepo.NewGormGroupRepository(db)
	messageRepo := messagerepo.NewGormMessageRepository(db)

	// --- Core services ---
	connMux := realtime.NewMux()
	registry := presence.NewRegistry(userRepo, connMux, logger)
	groupIndex := membership.NewIndex(groupRepo, userRepo, connMux, logger)
	matcher := chatbot.NewDefaultMatcher()
	eventRouter := events.NewRouter(registry, groupIndex, messageRepo, connMux, matcher, cfg.StoreTimeout, logger)

	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, logger)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	groupHandler := handlers.NewGroupHandler(groupIndex)
	messageHandler := handlers.NewMessageHandler(messageRepo)
	wsHandler := handlers.NewWSHandler(eventRouter)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// The socket authenticates via its own login event.
	r.HandleFunc("/ws", wsHandler.Serve).Methods("GET")

	// --- Protected Routes ---
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/users", userHandler.GetAllUsers).Methods("GET")
	protected.HandleFunc("/users/username/{username}", userHandler.GetUserByUsername).Methods("GET")
	protected.HandleFunc("/groups", groupHandler.CreateGroup).Methods("POST")
	protected.HandleFunc("/groups/{userId:[0-9]+}", groupHandler.GetGroupsForUser).Methods("GET")
	protected.HandleFunc("/groups/{id:[0-9]+}/add", groupHandler.AddMember).Methods("POST")
	protected.HandleFunc("/groups/{id:[0-9]+}/remove", groupHandler.RemoveMember).Methods("POST")
	protected.HandleFunc("/messages/group/{groupId:[0-9]+}", messageHandler.GetGroupMessages).Methods("GET")
	protected.HandleFunc("/messages/{username}", messageHandler.GetUserMessages).Methods("GET")
	protected.HandleFunc("/messages/{username}/{peer}", messageHandler.GetConversation).Methods("GET")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("ECHO chat server starting on port %s", cfg.ServerPort)

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
