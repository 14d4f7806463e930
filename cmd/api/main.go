package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/closingmachines/leads-api/internal/auth"
	"github.com/closingmachines/leads-api/internal/infra/database"
	"github.com/closingmachines/leads-api/internal/infra/http/handlers"
	"github.com/closingmachines/leads-api/internal/infra/http/middleware"
	"github.com/closingmachines/leads-api/internal/infra/mail"
	"github.com/closingmachines/leads-api/internal/infra/queue"
	"github.com/closingmachines/leads-api/internal/infra/storage"
	"github.com/closingmachines/leads-api/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := loadConfig()

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connecting to postgres: %s", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Fatalf("running migrations: %s", err)
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("connecting to RabbitMQ: %s", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	adRepo := database.NewAdRepository(db)
	clubRepo := database.NewClubRepository(db)
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)
	tokenRepo := database.NewTokenRepository(db)

	// Outbound adapters
	sender := newMailSender(cfg)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	var avatarStore *storage.AvatarStore
	if cfg.S3Bucket != "" {
		avatarStore, err = storage.NewAvatarStore(cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Fatalf("initializing avatar store: %s", err)
		}
	}

	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	// Worker consuming the club-dispatch queue
	worker := queue.NewWorker(rabbitMQ, sender, leadRepo, mail.BuildClubLeadsEmail)
	go worker.Start(queue.QueueName)

	// Use cases
	importUC := usecase.NewImportLeadsUseCase(adRepo, clubRepo, leadRepo)
	sendUC := usecase.NewSendClubLeadsUseCase(leadRepo, producer)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, sessions)
	userHandler := handlers.NewUserHandler(userRepo, sessions)
	adminUserHandler := handlers.NewAdminUserHandler(userRepo, sender, cfg.AppURL)
	passwordHandler := handlers.NewPasswordHandler(userRepo, tokenRepo, sender, cfg.AppURL)
	adHandler := handlers.NewAdHandler(adRepo)
	clubHandler := handlers.NewClubHandler(clubRepo)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	importHandler := handlers.NewImportHandler(importUC, leadRepo)
	sendHandler := handlers.NewSendHandler(sendUC)
	avatarHandler := handlers.NewAvatarHandler(userRepo, avatarStore)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/password/request", passwordHandler.RequestReset)
		r.Post("/password/reset", passwordHandler.Reset)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions))

			r.Get("/session", authHandler.Session)

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me", userHandler.UpdateMe)
			r.Put("/users/me/password", userHandler.ChangePassword)
			r.Post("/users/{id}/avatar", avatarHandler.Upload)

			r.Get("/ads", adHandler.List)
			r.Post("/ads", adHandler.Create)
			r.Get("/ads/{id}", adHandler.Get)
			r.Put("/ads/{id}", adHandler.Update)
			r.Delete("/ads/{id}", adHandler.Delete)

			r.Get("/clubs", clubHandler.List)
			r.Post("/clubs", clubHandler.Create)
			r.Get("/clubs/{id}", clubHandler.Get)
			r.Put("/clubs/{id}", clubHandler.Update)
			r.Delete("/clubs/{id}", clubHandler.Delete)

			r.Get("/leads", leadHandler.List)
			r.Get("/leads/{id}", leadHandler.Get)
			r.Put("/leads/{id}", leadHandler.Update)
			r.Delete("/leads/{id}", leadHandler.Delete)
			r.Post("/leads/bulk-delete", leadHandler.BulkDelete)
			r.Post("/leads/send", sendHandler.Send)

			r.Post("/import", importHandler.Import)
			r.Get("/import/status", importHandler.Status)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/users", adminUserHandler.List)
				r.Post("/users", adminUserHandler.Create)
				r.Get("/users/{id}", adminUserHandler.Get)
				r.Put("/users/{id}", adminUserHandler.Update)
				r.Delete("/users/{id}", adminUserHandler.Delete)
			})
		})
	})

	addr := ":" + cfg.Port
	log.Printf("leads API listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

func newMailSender(cfg config) mail.Sender {
	if cfg.MailDriver == "ses" {
		sender, err := mail.NewSESSender(cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.AWSRegion, cfg.MailName, cfg.MailFrom)
		if err != nil {
			log.Fatalf("initializing SES sender: %s", err)
		}
		return sender
	}
	return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailName, cfg.MailFrom)
}
