package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/himudigonda/Vyayamam/internal/config"
	"github.com/himudigonda/Vyayamam/internal/handlers"
	"github.com/himudigonda/Vyayamam/internal/middleware"
	"github.com/himudigonda/Vyayamam/internal/parser"
	"github.com/himudigonda/Vyayamam/internal/repository"
	"github.com/himudigonda/Vyayamam/internal/services"
	livews "github.com/himudigonda/Vyayamam/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	planRepo := repository.NewPlanRepository(db)
	dailyLogRepo := repository.NewDailyLogRepository(db)

	resolver := services.NewResolverService(planRepo)
	intents := parser.New(resolver)
	coach := services.NewOllamaCoachService(cfg.OllamaURL, cfg.OllamaModel)
	workouts := services.NewWorkoutService(db)
	progression := services.NewProgressionService(planRepo, dailyLogRepo)
	grader := services.NewGradingService(dailyLogRepo, planRepo, coach)

	var hub *livews.Hub
	var events services.EventPublisher
	if cfg.EnableLiveFeed {
		hub = livews.NewHub()
		go hub.Run()
		events = hub
	}

	messages := services.NewMessageService(
		intents,
		dailyLogRepo,
		planRepo,
		workouts,
		progression,
		grader,
		coach,
		events,
	)
	webhook := handlers.NewWebhookHandler(messages)

	if !cfg.SignatureCheckEnabled() {
		log.Warn("TWILIO_AUTH_TOKEN not set, webhook signature validation disabled")
	}

	api := app.Group("/api")
	api.Post("/whatsapp", middleware.TwilioSignature(cfg.TwilioAuthToken), webhook.HandleIncoming)

	if hub != nil {
		api.Use("/v1/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		api.Get("/v1/ws/live", websocket.New(func(conn *websocket.Conn) {
			hub.Serve(conn)
		}))
	}
}
