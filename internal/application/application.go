package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/graalonline/support-service/internal/config"
	"github.com/graalonline/support-service/internal/database"
	"github.com/graalonline/support-service/internal/events"
	"github.com/graalonline/support-service/internal/handler"
	"github.com/graalonline/support-service/internal/middleware"
	"github.com/graalonline/support-service/internal/notify"
	"github.com/graalonline/support-service/internal/router"
	"github.com/graalonline/support-service/internal/service"
	"github.com/graalonline/support-service/internal/token"
)

// API wires the whole service together and owns the HTTP server lifecycle.
type API struct {
	cfg      *config.Config
	httpSrv  *http.Server
	db       *gorm.DB
	producer *events.Producer
}

func NewAPI(cfg *config.Config) (*API, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	sink := notify.LogSink()
	mailer := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, sink)
	webhook := notify.NewWebhook(cfg.WebhookURL, cfg.WebpageURL, sink)
	producer := events.NewProducer(events.ParseBrokers(cfg.Kafka.Brokers), cfg.Kafka.TicketTopic)

	tokens := token.NewService(cfg.JWTSecret)
	authSvc := service.NewAuthService(db)
	userSvc := service.NewUserService(db)
	ticketSvc := service.NewTicketService(db)
	statsSvc := service.NewStatsService(db)

	r := router.New(router.Deps{
		Auth:    handler.NewAuthHandler(authSvc, userSvc, tokens, mailer),
		Tickets: handler.NewTicketHandler(ticketSvc, userSvc, webhook, mailer, producer),
		Users:   handler.NewUserHandler(userSvc),
		Stats:   handler.NewStatsHandler(statsSvc),
		AuthMW:  middleware.NewAuth(tokens),
		AuthRPS: cfg.AuthRPS,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		httpSrv:  httpSrv,
		db:       db,
		producer: producer,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully and releases the database connection.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	log.Printf("HTTP server listening on %s", a.httpSrv.Addr)
	log.Printf("  Swagger UI:   %s/swagger", base)
	log.Printf("  Health:       %s/health", base)
	log.Printf("  API:          %s/api/", base)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		log.Printf("events: close producer: %v", err)
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}
