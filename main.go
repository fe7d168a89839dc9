package main

import (
	"log"

	"event_hub/config"
	"event_hub/database"
	"event_hub/handler"
	"event_hub/helper"
	"event_hub/model"
	"event_hub/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigDefault("CORS_ORIGINS", "http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		MaxAge:           600,
	}))

	database.ConnectDB()

	rdb := redis.NewClient(&redis.Options{
		Addr: config.ConfigDefault("REDIS_ADDR", "localhost:6379"),
	})
	holds := helper.NewTicketHoldStore(rdb)

	gateway := handler.NewGateway(model.GatewayConfig{
		SecretKey:     config.Config("PAYMENT_SECRET_KEY"),
		WebhookSecret: config.Config("PAYMENT_WEBHOOK_SECRET"),
		BaseURL:       config.ConfigDefault("PAYMENT_API_URL", "https://api.payment.example.com"),
		FrontendURL:   config.ConfigDefault("FRONTEND_URL", "http://localhost:3000"),
	})

	helper.StartEventStatusScheduler()
	defer helper.StopEventStatusScheduler()

	router.SetupRoutes(app, router.Deps{
		Hub:        handler.NewChatHub(),
		Gateway:    gateway,
		Holds:      holds,
		Cloudinary: helper.InitCloudinary(),
	})

	log.Fatal(app.Listen(":" + config.ConfigDefault("PORT", "8000")))
}
