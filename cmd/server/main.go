package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/rotaserra/tour-backend/internal/config"
	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/handlers"
	"github.com/rotaserra/tour-backend/internal/logger"
	"github.com/rotaserra/tour-backend/internal/middleware"
	"github.com/rotaserra/tour-backend/internal/services"
	"github.com/rotaserra/tour-backend/pkg/jwt"
)

var version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, cfg.Server.Environment)
	log.Infof("Starting tour backend, version %s", version)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Repositories
	busRepo := database.NewBusRepository(db)
	personRepo := database.NewPersonRepository(db)
	addressRepo := database.NewAddressRepository(db)
	affiliateRepo := database.NewAffiliateRepository(db)
	tripRepo := database.NewTripRepository(db)
	seatRepo := database.NewSeatRepository(db)
	entryRepo := database.NewPassengerEntryRepository(db)
	cargoRepo := database.NewCargoEntryRepository(db)
	baggageRepo := database.NewBaggageRepository(db)
	adminRepo := database.NewAdminUserRepository(db)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	seatLedger := services.NewSeatLedgerService(db, seatRepo, busRepo, tripRepo, entryRepo, log)
	bookingService := services.NewBookingService(db, entryRepo, cargoRepo, tripRepo, personRepo, addressRepo, affiliateRepo, seatLedger, log)
	allocator := services.NewGroupAllocatorService(db, entryRepo, cargoRepo, tripRepo, personRepo, addressRepo, affiliateRepo, seatLedger, log)
	tripService := services.NewTripService(db, tripRepo, busRepo, seatLedger, log)
	manifestService := services.NewManifestService(tripRepo, entryRepo, cargoRepo, log)
	authService := services.NewAuthService(adminRepo, jwtService, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	busHandler := handlers.NewBusHandler(busRepo)
	personHandler := handlers.NewPersonHandler(personRepo)
	addressHandler := handlers.NewAddressHandler(addressRepo)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateRepo, personRepo)
	tripHandler := handlers.NewTripHandler(tripService, manifestService)
	seatHandler := handlers.NewSeatHandler(seatLedger)
	entryHandler := handlers.NewPassengerEntryHandler(bookingService)
	cargoHandler := handlers.NewCargoEntryHandler(bookingService)
	groupHandler := handlers.NewGroupHandler(allocator)
	baggageHandler := handlers.NewBaggageHandler(baggageRepo)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")

	// Public authentication routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Everything else requires an authenticated operator
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	if cfg.Security.EnableAuditLog {
		protected.Use(middleware.Audit(log))
	}

	// Replay protection on mutating booking calls when Redis is configured
	if cfg.Redis.URL != "" {
		redisClient, err := database.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		protected.Use(middleware.Idempotency(redisClient))
		log.Info("Idempotency middleware enabled")
	}

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/operators", middleware.RequireRole("admin"), authHandler.CreateOperator)

	buses := protected.Group("/buses")
	{
		buses.GET("", busHandler.ListBuses)
		buses.GET("/:id", busHandler.GetBus)
		buses.POST("", busHandler.CreateBus)
		buses.PUT("/:id", busHandler.UpdateBus)
		buses.DELETE("/:id", busHandler.DeleteBus)
	}

	people := protected.Group("/people")
	{
		people.GET("", personHandler.ListPeople)
		people.GET("/:id", personHandler.GetPerson)
		people.POST("", personHandler.CreatePerson)
		people.PUT("/:id", personHandler.UpdatePerson)
		people.DELETE("/:id", personHandler.DeletePerson)
	}

	addresses := protected.Group("/addresses")
	{
		addresses.GET("", addressHandler.ListAddresses)
		addresses.GET("/:id", addressHandler.GetAddress)
		addresses.POST("", addressHandler.CreateAddress)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
	}

	drivers := protected.Group("/drivers")
	{
		drivers.GET("", affiliateHandler.ListDrivers)
		drivers.GET("/:id", affiliateHandler.GetDriver)
		drivers.POST("", affiliateHandler.CreateDriver)
		drivers.DELETE("/:id", affiliateHandler.DeleteDriver)
	}

	agents := protected.Group("/referral-agents")
	{
		agents.GET("", affiliateHandler.ListReferralAgents)
		agents.GET("/:id", affiliateHandler.GetReferralAgent)
		agents.POST("", affiliateHandler.CreateReferralAgent)
		agents.DELETE("/:id", affiliateHandler.DeleteReferralAgent)
	}

	trips := protected.Group("/trips")
	{
		trips.GET("", tripHandler.ListTrips)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.POST("", tripHandler.CreateTrip)
		trips.PUT("/:id", tripHandler.UpdateTrip)
		trips.DELETE("/:id", tripHandler.DeleteTrip)
		trips.GET("/:id/seats", seatHandler.SeatMap)
		trips.POST("/:id/seats/bind", seatHandler.BindSeat)
		trips.GET("/:id/roster", entryHandler.ListRoster)
		trips.PUT("/:id/roster/order", entryHandler.ReorderRoster)
		trips.GET("/:id/cargo", cargoHandler.ListByTrip)
		trips.GET("/:id/manifest/roster", tripHandler.RosterManifest)
		trips.GET("/:id/manifest/cargo", tripHandler.CargoManifest)
	}

	entries := protected.Group("/passenger-entries")
	{
		entries.POST("", entryHandler.CreateEntry)
		entries.GET("/:id", entryHandler.GetEntry)
		entries.PUT("/:id", entryHandler.UpdateEntry)
		entries.DELETE("/:id", entryHandler.DeleteEntry)
		entries.POST("/:id/mark-paid", entryHandler.MarkPaid)
		entries.POST("/:id/release-seat", seatHandler.ReleaseSeat)
		entries.GET("/:id/baggage", baggageHandler.ListByEntry)
	}

	cargo := protected.Group("/cargo-entries")
	{
		cargo.POST("", cargoHandler.CreateEntry)
		cargo.GET("/:id", cargoHandler.GetEntry)
		cargo.PUT("/:id", cargoHandler.UpdateEntry)
		cargo.DELETE("/:id", cargoHandler.DeleteEntry)
		cargo.POST("/:id/mark-paid", cargoHandler.MarkPaid)
	}

	groups := protected.Group("/groups")
	{
		groups.POST("/family", groupHandler.CreateFamilyGroup)
		groups.POST("/bulk-assign", groupHandler.BulkAssign)
	}

	baggage := protected.Group("/baggage")
	{
		baggage.GET("/:id", baggageHandler.GetBaggage)
		baggage.POST("", baggageHandler.CreateBaggage)
		baggage.PUT("/:id", baggageHandler.UpdateBaggage)
		baggage.DELETE("/:id", baggageHandler.DeleteBaggage)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// healthCheckHandler reports process and database health
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
