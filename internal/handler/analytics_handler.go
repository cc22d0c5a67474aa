package handler

import (
	"log"
	"net/http"
	"strconv"

	"catalog-service/internal/domain"
	"catalog-service/pkg/httputil"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler handles HTTP requests for catalog analytics.
type AnalyticsHandler struct {
	analyticsService domain.AnalyticsService
	defaultLowStock  int // Threshold used when the request does not supply one
}

// NewAnalyticsHandler creates a new AnalyticsHandler. defaultLowStock is the
// configured low-stock threshold applied when the query omits one.
func NewAnalyticsHandler(as domain.AnalyticsService, defaultLowStock int) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: as,
		defaultLowStock:  defaultLowStock,
	}
}

// GetTotalStockValue handles GET /analytics/stock-value.
func (h *AnalyticsHandler) GetTotalStockValue(c echo.Context) error {
	value, err := h.analyticsService.CalculateTotalStockValue(c.Request().Context())
	if err != nil {
		log.Printf("GetTotalStockValue: Service error: %v", err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"total_value": value})
}

// GetLowStockItems handles GET /analytics/low-stock.
func (h *AnalyticsHandler) GetLowStockItems(c echo.Context) error {
	threshold := h.defaultLowStock
	if thresholdStr := c.QueryParam("threshold"); thresholdStr != "" {
		if parsed, err := strconv.Atoi(thresholdStr); err == nil && parsed >= 0 {
			threshold = parsed
		}
	}

	items, err := h.analyticsService.ListLowStockItems(c.Request().Context(), threshold)
	if err != nil {
		log.Printf("GetLowStockItems: Service error: %v", err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}
	return c.JSON(http.StatusOK, items)
}

// GetMostValuableItems handles GET /analytics/most-valuable.
func (h *AnalyticsHandler) GetMostValuableItems(c echo.Context) error {
	limit := 5 // Default limit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	items, err := h.analyticsService.ListMostValuableItems(c.Request().Context(), limit)
	if err != nil {
		log.Printf("GetMostValuableItems: Service error: %v", err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}
	return c.JSON(http.StatusOK, items)
}
