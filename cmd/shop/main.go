package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/migrations"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/authclient"
	"github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	if cfg.MigrationsEnabled {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations: %v", err)
		}
		log.Println("migrations applied")
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	Repo := &repo.GormRepo{DB: gdb}
	sessions := session.NewRedisStore(rdb, cfg.CartTTL)

	placer := &service.OrderPlacer{
		Repo:     Repo,
		Sessions: sessions,
		Guard:    &service.InventoryGuard{},
	}
	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		placer.Events = publisher
	}

	deps := &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: Repo, Sessions: sessions}},
		CheckoutHandler: &httpserver.CheckoutHTTP{Placer: placer},
		OrderHandler:    &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: Repo}},
		JWTSecret:       cfg.JWTAccessSecret,
		SessionTTL:      cfg.CartTTL,
		Ready:           []httpserver.Pinger{Repo, sessions},
	}
	if cfg.AuthHTTPURL != "" {
		deps.AuthClient = authclient.NewClient(cfg.AuthHTTPURL)
	}
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		deps.CSRF = &csrfCfg
	}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(httpserver.Common(logger)...)

	httpserver.Register(e, deps)

	go func() {
		addr := ":" + strconv.Itoa(cfg.ServerPort)
		log.Printf("Starting %s on %s...", cfg.ServiceName, addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if err := db.Close(gdb); err != nil {
		log.Printf("db close: %v", err)
	}

	log.Println("Server stopped")
}
