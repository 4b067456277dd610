package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expertdesk/internal/config"
	"expertdesk/internal/database"
	"expertdesk/internal/domain/appointment"
	"expertdesk/internal/domain/auth"
	"expertdesk/internal/domain/chat"
	"expertdesk/internal/domain/notification"
	"expertdesk/internal/domain/request"
	"expertdesk/internal/mailer"
	"expertdesk/internal/middleware"
	jwtsvc "expertdesk/internal/pkg/jwt"
	"expertdesk/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Logger.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	db, err := database.Connect(cfg.DB.DSN)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&auth.User{},
		&request.ServiceRequest{},
		&chat.Message{},
		&notification.Notification{},
		&appointment.Appointment{},
	); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	j := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var m mailer.Mailer
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, zl)
	} else {
		zl.Info("SMTP not configured, outbound email disabled")
		m = mailer.NewLogOnly(zl)
	}

	userRepo := auth.NewRepository(db)
	requestRepo := request.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	appointmentRepo := appointment.NewRepository(db)

	authService := auth.NewService(userRepo, j, cfg.Auth.BcryptCost)
	notificationService := notification.NewService(notificationRepo, userRepo, m, zl)
	requestService := request.NewService(requestRepo, notificationService, userRepo, zl)
	chatService := chat.NewService(chatRepo, requestRepo, notificationService, userRepo, zl)
	appointmentService := appointment.NewService(appointmentRepo, notificationService, zl)

	hub := chat.NewHub(zl)
	resolver := notification.NewResolver(chatRepo)

	authHandler := auth.NewHandler(authService)
	requestHandler := request.NewHandler(requestService)
	chatHandler := chat.NewHandler(chatService, hub, userRepo, zl)
	notificationHandler := notification.NewHandler(notificationService, resolver)
	appointmentHandler := appointment.NewHandler(appointmentService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, authHandler)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			auth.RegisterProtectedRoutes(protected, authHandler)
			request.RegisterRoutes(protected, requestHandler)
			chat.RegisterRoutes(protected, chatHandler)
			notification.RegisterRoutes(protected, notificationHandler)
			appointment.RegisterRoutes(protected, appointmentHandler)
		}
	}

	zl.Info("starting server",
		zap.String("addr", cfg.App.Addr()),
		zap.String("env", cfg.App.Env))
	if err := r.Run(cfg.App.Addr()); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
