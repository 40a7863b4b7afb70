package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"eataliano-backend/assistant"
	"eataliano-backend/config"
	"eataliano-backend/controllers"
	"eataliano-backend/notify"
	"eataliano-backend/payments"
	"eataliano-backend/routes"
	"eataliano-backend/services"
	"eataliano-backend/store"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	public := store.Restricted(backend)
	tz := cfg.Restaurant.Timezone

	model, err := assistant.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	if err != nil {
		return fmt.Errorf("language model: %w", err)
	}
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, chat will report a configuration error")
	}

	checkout := payments.NewStripe(payments.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
	})
	sms := notify.NewTwilio(notify.Config{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		From:       cfg.Twilio.PhoneNumber,
	})

	orders := services.NewOrderService(backend, backend, backend, logger)
	reservations := services.NewReservationService(backend, backend, services.ReservationConfig{
		RestaurantName: cfg.Restaurant.Name,
		Timezone:       tz,
	}, logger)
	paymentsSvc := services.NewPaymentService(backend, checkout, services.PaymentConfig{
		RestaurantName: cfg.Restaurant.Name,
		AppURL:         cfg.Server.AppURL,
		Timeout:        cfg.Stripe.Timeout,
	}, logger)
	tools := services.NewToolRunner(public, public, orders, reservations, logger)
	chat := services.NewChatService(backend, model, tools, services.ChatConfig{
		Timeout: cfg.OpenAI.Timeout,
	}, logger)
	menu := services.NewMenuService(public, backend, logger)
	locations := services.NewLocationService(public, backend, logger)
	auth := services.NewAuthService(backend, services.AuthConfig{
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.Auth.TokenTTL,
	}, logger)
	dashboard := services.NewDashboardService(backend, backend, tz, logger)
	reports := services.NewReportService(backend, tz, nil, logger)
	reminders := services.NewReminderService(backend, backend, backend, sms, services.ReminderConfig{
		RestaurantName: cfg.Restaurant.Name,
		Timezone:       tz,
	}, logger)

	if err := auth.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "Administrator"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	scheduler := services.NewScheduler(tz, logger)
	if err := scheduler.Add("reservation-reminders", cfg.Jobs.ReminderCron, 10*time.Minute, func(ctx context.Context) error {
		_, err := reminders.SendDailyReminders(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := scheduler.Add("chat-session-cleanup", cfg.Jobs.CleanupCron, 5*time.Minute, func(ctx context.Context) error {
		_, err := chat.PurgeExpired(ctx, cfg.Jobs.ChatSessionTTL)
		return err
	}); err != nil {
		return err
	}
	scheduler.Start()

	r := routes.SetupRouter(cfg, routes.Handlers{
		Orders:       &controllers.OrderController{Orders: orders, Timezone: tz},
		Reservations: &controllers.ReservationController{Reservations: reservations},
		Payments:     &controllers.PaymentController{Payments: paymentsSvc},
		Chat:         &controllers.ChatController{Chat: chat},
		Menu:         &controllers.MenuController{Menu: menu},
		Locations:    &controllers.LocationController{Locations: locations},
		Auth:         &controllers.AuthController{Auth: auth},
		Dashboard:    &controllers.DashboardController{Dashboard: dashboard, Reports: reports},
		Reminders:    &controllers.ReminderController{Reminders: reminders},
	}, logger)
	if !cfg.IsProduction() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config, logger *slog.Logger) (store.Backend, error) {
	if cfg.Database.URL == "" {
		if cfg.IsProduction() {
			return nil, errors.New("DB_URL must be set in production")
		}
		logger.Warn("DB_URL not set, using in-memory store")
		return store.NewMemory(), nil
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	g := store.NewGorm(db)
	if err := g.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return g, nil
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
