package routes

import (
	"log/slog"
	"net/http"

	"eataliano-backend/config"
	"eataliano-backend/controllers"
	"eataliano-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the controllers the router dispatches to.
type Handlers struct {
	Orders       *controllers.OrderController
	Reservations *controllers.ReservationController
	Payments     *controllers.PaymentController
	Chat         *controllers.ChatController
	Menu         *controllers.MenuController
	Locations    *controllers.LocationController
	Auth         *controllers.AuthController
	Dashboard    *controllers.DashboardController
	Reminders    *controllers.ReminderController
}

func SetupRouter(cfg *config.Config, h Handlers, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAdmin := utils.AuthMiddleware(cfg.Auth.JWTSecret)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", requireAdmin, h.Auth.Me)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", h.Orders.CreateOrder)
			orders.GET("", requireAdmin, h.Orders.GetOrders)
			orders.GET("/:id", requireAdmin, h.Orders.GetOrder)
			orders.PATCH("/:id", requireAdmin, h.Orders.UpdateOrderStatus)
		}

		// Reservation routes
		reservations := api.Group("/reservations")
		{
			reservations.POST("", h.Reservations.CreateReservation)
			reservations.GET("", requireAdmin, h.Reservations.GetReservations)
			reservations.PATCH("/:id", requireAdmin, h.Reservations.UpdateReservationStatus)
		}

		api.POST("/checkout", h.Payments.Checkout)
		api.POST("/payment-webhook", h.Payments.Webhook)
		api.POST("/chat", h.Chat.SendMessage)

		menu := api.Group("/menu")
		{
			menu.GET("", h.Menu.GetMenu)
			menu.GET("/categories", h.Menu.GetCategories)
			menu.GET("/:id", h.Menu.GetMenuItem)
		}

		api.GET("/locations", h.Locations.GetLocations)

		admin := api.Group("/admin", requireAdmin)
		{
			admin.GET("/dashboard", h.Dashboard.GetDashboardOverview)
			admin.GET("/reports", h.Dashboard.GetReportAnalytics)
			admin.POST("/reminders/run", h.Reminders.RunReminders)

			adminMenu := admin.Group("/menu")
			{
				adminMenu.GET("", h.Menu.AdminGetMenu)
				adminMenu.POST("", h.Menu.CreateMenuItem)
				adminMenu.PATCH("/:id", h.Menu.UpdateMenuItem)
				adminMenu.DELETE("/:id", h.Menu.DeleteMenuItem)
				adminMenu.POST("/categories", h.Menu.CreateCategory)
			}

			adminLocations := admin.Group("/locations")
			{
				adminLocations.GET("", h.Locations.AdminGetLocations)
				adminLocations.POST("", h.Locations.CreateLocation)
				adminLocations.PUT("/:id", h.Locations.UpdateLocation)
			}
		}
	}

	return r
}
