package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/internal/config"
	"catalog-service/internal/handler"
	"catalog-service/internal/realtime"
	"catalog-service/internal/repository"
	"catalog-service/internal/service"
	"catalog-service/pkg/httputil"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Echo Instance ---
	e := echo.New()

	// --- Middleware ---
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{ // Structured logging
		Format: `{"time":"${time_rfc3339_nano}","id":"${id}","remote_ip":"${remote_ip}",` +
			`"host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}",` +
			`"status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}"` +
			`,"bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", cfg.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Centralized translation of errors into the structured response format.
	e.HTTPErrorHandler = customHTTPErrorHandler

	// --- Real-time Hub ---
	hub := realtime.NewHub()
	go hub.Run()
	log.Println("Realtime Hub started.")

	// --- Dependency Injection (Repository, Services, Handlers) ---
	itemRepository := repository.NewMemoryItemRepository(repository.NewRandomFaultPolicy(cfg.FaultRate))
	itemSvc := service.NewItemService(itemRepository, hub)
	itemHdlr := handler.NewItemHandler(itemSvc)

	analyticsSvc := service.NewAnalyticsService(itemRepository)
	analyticsHdlr := handler.NewAnalyticsHandler(analyticsSvc, cfg.LowStockThreshold)

	wsHdlr := handler.NewWebSocketHandler(hub)

	// --- Routes ---
	e.GET("/", healthCheckHandler)

	apiV1 := e.Group("/api/v1")

	itemsGroup := apiV1.Group("/items")
	itemsGroup.POST("", itemHdlr.CreateItem)
	itemsGroup.GET("", itemHdlr.GetItems)
	itemsGroup.GET("/price", itemHdlr.GetItemsByPriceRange)
	itemsGroup.GET("/search", itemHdlr.SearchItems)
	itemsGroup.GET("/category/:category", itemHdlr.GetItemsByCategory)
	itemsGroup.GET("/:id", itemHdlr.GetItemByID)
	itemsGroup.PUT("/:id", itemHdlr.UpdateItem)
	itemsGroup.DELETE("/:id", itemHdlr.DeleteItem)

	analyticsGroup := apiV1.Group("/analytics")
	analyticsGroup.GET("/stock-value", analyticsHdlr.GetTotalStockValue)
	analyticsGroup.GET("/low-stock", analyticsHdlr.GetLowStockItems)
	analyticsGroup.GET("/most-valuable", analyticsHdlr.GetMostValuableItems)

	e.GET("/ws/stock-updates", wsHdlr.HandleConnections)

	// --- Start Server with Graceful Shutdown ---
	go func() {
		log.Printf("Starting server on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal("shutting down the server unexpectedly:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Error during server shutdown:", err)
	}

	log.Println("Server gracefully shut down.")
}

// healthCheckHandler is a simple handler for health checks.
func healthCheckHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"message": "Catalog Service API is running!",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// customHTTPErrorHandler provides centralized error handling for anything the
// handlers did not translate themselves: echo internals (routing, method not
// allowed), validation errors, and domain errors that bubbled up.
func customHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *httputil.HTTPError
	var echoHE *echo.HTTPError

	if errors.As(err, &he) {
		if c.Request().Method == http.MethodHead { // Echo's default behavior
			_ = c.NoContent(he.StatusCode)
		} else {
			_ = httputil.SendErrorResponse(c, he)
		}
		return
	} else if errors.As(err, &echoHE) {
		message := http.StatusText(echoHE.Code)
		if m, ok := echoHE.Message.(string); ok {
			message = m
		}
		_ = httputil.SendErrorResponse(c, httputil.NewHTTPError(echoHE.Code, http.StatusText(echoHE.Code), message))
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		_ = httputil.SendErrorResponse(c, httputil.ValidationError(handler.ParseValidationErrors(err)))
		return
	}

	// Domain errors that bubbled up get their canonical translation; anything
	// uncategorized becomes a generic 500 inside FromDomainError.
	log.Printf("Unhandled error: %v", err)
	_ = httputil.SendErrorResponse(c, httputil.FromDomainError(err))
}
