package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "renthome/docs"
	"renthome/internal/config"
	"renthome/internal/database"
	"renthome/internal/domain/auth"
	"renthome/internal/domain/chat"
	"renthome/internal/domain/listing"
	"renthome/internal/domain/notification"
	"renthome/internal/domain/visit"
	"renthome/internal/middleware"
	jwtsvc "renthome/internal/pkg/jwt"
	"renthome/internal/realtime"
)

// @title RentHome API
// @version 1.0
// @description Rental marketplace coordination API: listings, visits, chat, notifications.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&listing.Listing{},
		&chat.Conversation{},
		&chat.Message{},
		&visit.Visit{},
		&notification.Notification{},
	); err != nil {
		log.Fatal(err)
	}

	userRepo := auth.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	visitRepo := visit.NewRepository(db)
	notifRepo := notification.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := realtime.NewHub()

	notifService := notification.NewService(notifRepo, hub)
	chatService := chat.NewService(chatRepo, chat.NewRelay(hub), chat.NewSignaler(hub), userRepo, notifService)
	engine := visit.NewEngine(visitRepo, listingRepo, notifService)
	authService := auth.NewService(userRepo, j)

	authHandler := auth.NewHandler(authService)
	listingHandler := listing.NewHandler(listingRepo)
	chatHandler := chat.NewHandler(chatService)
	wsHandler := chat.NewWSHandler(hub, j, chatService)
	visitHandler := visit.NewHandler(engine)
	notifHandler := notification.NewHandler(notifService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// public
		auth.RegisterRoutes(v1, authHandler)
		listing.RegisterPublicRoutes(v1, listingHandler)

		// websocket authenticates via token query param
		chat.RegisterWS(v1, wsHandler)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			listing.RegisterOwnerRoutes(protected, listingHandler)
			chat.RegisterRoutes(protected, chatHandler)
			visit.RegisterRoutes(protected, visitHandler)
			notification.RegisterRoutes(protected, notifHandler)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening addr=%s env=%s", cfg.Addr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown_error error=%q", err)
	}
}
