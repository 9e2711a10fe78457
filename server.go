package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"bitbucket.org/samproxdata/erp_backend/config"
	"bitbucket.org/samproxdata/erp_backend/middlewares"
	"bitbucket.org/samproxdata/erp_backend/models"
	"bitbucket.org/samproxdata/erp_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const defaultPort = "8080"

// ready flips once DB and Redis are connected; the readiness gate
// returns 503 until then so the load balancer keeps traffic away while
// dependencies are still connecting.
var ready atomic.Bool

func correlationIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Correlation-Id", correlationId)
		c.Next()
	}
}

func readinessGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		if !ready.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "starting up"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(correlationIdMiddleware())
	router.Use(readinessGate())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "token", "X-Correlation-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middlewares.SessionMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/material/stock-status", getStockStatusHandler)
		api.GET("/material/stock-status/export", exportStockStatusHandler)
		api.GET("/production/briquette-mix", listProductionHandler)
		api.GET("/production/briquette-mix/:date", getMixDetailHandler)
		api.PUT("/production/briquette-mix/:date", middlewares.RequireSession(), saveMixEntryHandler)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Listen first, connect dependencies after; the readiness gate
	// holds traffic until both are up.
	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
	ready.Store(true)

	scheduler := startRecomputeScheduler()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down")
	if scheduler != nil {
		scheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// startRecomputeScheduler runs a nightly full-history recompute as a
// consistency sweep; edits already recompute inline, so this only
// repairs drift from out-of-band data fixes.
func startRecomputeScheduler() *cron.Cron {
	schedule := os.Getenv("RECOMPUTE_CRON")
	if schedule == "" {
		schedule = "30 1 * * *"
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		logger := config.GetLogger()
		if err := runFullRecompute(context.Background()); err != nil {
			config.LogError(logger, "main", "startRecomputeScheduler", "nightly recompute", nil, err)
		}
	})
	if err != nil {
		log.Printf("invalid RECOMPUTE_CRON %q: %v; scheduler disabled", schedule, err)
		return nil
	}
	c.Start()
	return c
}
