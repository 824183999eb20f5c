package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/splitbuddy/api/docs"
	"github.com/splitbuddy/api/internal/auth"
	"github.com/splitbuddy/api/internal/config"
	"github.com/splitbuddy/api/internal/database"
	"github.com/splitbuddy/api/internal/expense"
	"github.com/splitbuddy/api/internal/expense/split"
	"github.com/splitbuddy/api/internal/friend"
	"github.com/splitbuddy/api/internal/group"
	"github.com/splitbuddy/api/internal/notification"
	"github.com/splitbuddy/api/internal/settlement"
	"github.com/splitbuddy/api/internal/user"
	"github.com/splitbuddy/api/pkg/logging"
	"github.com/splitbuddy/api/pkg/metrics"
	mw "github.com/splitbuddy/api/pkg/middleware"
)

// @title           SplitBuddy API
// @version         1.0
// @description     Expense splitting service: friends, groups, split policies, balances, and settlements.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	splitFactory := split.NewFactory()

	// Notification feature (injected into the others)
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, jwtManager)
	userHandler := user.NewHandler(userService)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, userRepo, splitFactory, notificationService)
	expenseHandler := expense.NewHandler(expenseService)

	// Friend feature
	friendRepo := friend.NewRepository(db)
	friendService := friend.NewService(friendRepo, userRepo, expenseRepo, notificationService)
	friendHandler := friend.NewHandler(friendService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, notificationService)
	groupHandler := group.NewHandler(groupService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, expenseRepo, userRepo, notificationService)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Public auth routes
	r.Mount("/auth", userHandler.AuthRoutes())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RequireAuth(jwtManager))

		r.Mount("/users", userHandler.Routes())
		r.Mount("/friends", friendHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
