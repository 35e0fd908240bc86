package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ticketgo/ticketgo/internal/config"
	"github.com/ticketgo/ticketgo/internal/database"
	"github.com/ticketgo/ticketgo/internal/handler"
	"github.com/ticketgo/ticketgo/internal/queue"
	"github.com/ticketgo/ticketgo/internal/repository"
	"github.com/ticketgo/ticketgo/internal/router"
	"github.com/ticketgo/ticketgo/internal/service"
	"github.com/ticketgo/ticketgo/internal/staging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional. When it is down the staging store falls back
	// to process memory and the rate limiter turns itself off.
	rdb := config.NewRedisClient()

	accounts := repository.NewAccountRepo(db)
	departures := repository.NewDepartureRepo(db)
	coaches := repository.NewCoachRepo(db)
	seats := repository.NewSeatRepo(db)
	orders := repository.NewOrderRepo(db)
	tickets := repository.NewTicketRepo(db)

	drafts := staging.New(rdb, time.Duration(cfg.AccessTTLMin)*time.Minute)
	bookings := service.NewBookingService(db, seats, coaches, orders, tickets, drafts, queue.NewPublisher())
	gateway := service.NewRedirectGateway()

	// Drain confirmed-order events into the fulfillment log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, accounts),
		Departures: handler.NewDepartureHandler(departures),
		Bookings:   handler.NewBookingHandler(bookings, gateway),
		Orders:     handler.NewOrderHandler(orders),
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterPublic(e, h)
	router.RegisterCustomer(e, h, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, h, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
