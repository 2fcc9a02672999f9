package main

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/conversation"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/presence"
	"github.com/rajivgeraev/skillswap-api/internal/services/auth"
	"github.com/rajivgeraev/skillswap-api/internal/services/chat"
	"github.com/rajivgeraev/skillswap-api/internal/services/skill"
	"github.com/rajivgeraev/skillswap-api/internal/services/trade"
	"github.com/rajivgeraev/skillswap-api/internal/storage"
	ws "github.com/rajivgeraev/skillswap-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	store := storage.NewPostgres(db.Pool)

	// Собираем доменные компоненты
	tradeLedger := ledger.NewLedger(store, store, store)
	conversations := conversation.NewStore(store, store)
	registry := presence.NewRegistry()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: true,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg, store, store)
	skillService := skill.NewSkillService(cfg, store, store)
	tradeService := trade.NewTradeService(cfg, tradeLedger)
	chatService := chat.NewChatService(cfg, conversations)

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	skillService.SetupRoutes(app)
	tradeService.SetupRoutes(app)
	chatService.SetupRoutes(app)

	// Запускаем шлюз реального времени на отдельном слушателе
	gateway := ws.NewGateway(authService.GetJWTService(), tradeLedger, conversations, registry)
	go func() {
		log.Printf("✅ WebSocket шлюз запущен на порту %s", cfg.WSPort)
		if err := http.ListenAndServe(":"+cfg.WSPort, gateway.Router()); err != nil {
			log.Fatalf("❌ Ошибка WebSocket слушателя: %v", err)
		}
	}()

	// Запускаем сервер
	log.Printf("✅ SkillSwap API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
