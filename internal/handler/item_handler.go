package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"catalog-service/internal/domain"
	"catalog-service/pkg/httputil"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ItemHandler handles HTTP requests for catalog items.
type ItemHandler struct {
	itemService domain.ItemService
	validate    *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(is domain.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: is,
		validate:    validator.New(),
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req domain.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("CreateItem: Bind error: %v", err)
		return httputil.SendErrorResponse(c, httputil.BadRequestError("Invalid request payload: "+err.Error()))
	}

	if err := h.validate.StructCtx(c.Request().Context(), req); err != nil {
		log.Printf("CreateItem: Validation error: %v", err)
		return httputil.SendErrorResponse(c, httputil.ValidationError(ParseValidationErrors(err)))
	}

	item, err := h.itemService.CreateItem(c.Request().Context(), &req)
	if err != nil {
		log.Printf("CreateItem: Service error: %v", err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.JSON(http.StatusCreated, item)
}

// GetItems handles GET /items.
func (h *ItemHandler) GetItems(c echo.Context) error {
	items, err := h.itemService.GetItems(c.Request().Context())
	if err != nil {
		log.Printf("GetItems: Service error: %v", err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}
	return c.JSON(http.StatusOK, items)
}

// GetItemByID handles GET /items/:id.
func (h *ItemHandler) GetItemByID(c echo.Context) error {
	id, err := parseItemID(c.Param("id"))
	if err != nil {
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	item, err := h.itemService.GetItemByID(c.Request().Context(), id)
	if err != nil {
		log.Printf("GetItemByID: Service error for ID %d: %v", id, err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /items/:id.
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id, err := parseItemID(c.Param("id"))
	if err != nil {
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	var req domain.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("UpdateItem: Bind error for ID %d: %v", id, err)
		return httputil.SendErrorResponse(c, httputil.BadRequestError("Invalid request payload: "+err.Error()))
	}

	if err := h.validate.StructCtx(c.Request().Context(), req); err != nil {
		log.Printf("UpdateItem: Validation error for ID %d: %v", id, err)
		return httputil.SendErrorResponse(c, httputil.ValidationError(ParseValidationErrors(err)))
	}

	item, err := h.itemService.UpdateItem(c.Request().Context(), id, &req)
	if err != nil {
		log.Printf("UpdateItem: Service error for ID %d: %v", id, err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /items/:id.
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := parseItemID(c.Param("id"))
	if err != nil {
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	if err := h.itemService.DeleteItem(c.Request().Context(), id); err != nil {
		log.Printf("DeleteItem: Service error for ID %d: %v", id, err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.NoContent(http.StatusNoContent)
}

// GetItemsByCategory handles GET /items/category/:category.
func (h *ItemHandler) GetItemsByCategory(c echo.Context) error {
	category := c.Param("category")

	items, err := h.itemService.GetItemsByCategory(c.Request().Context(), category)
	if err != nil {
		log.Printf("GetItemsByCategory: Service error for category %q: %v", category, err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.JSON(http.StatusOK, items)
}

// GetItemsByPriceRange handles GET /items/price?min=&max=.
func (h *ItemHandler) GetItemsByPriceRange(c echo.Context) error {
	minStr := c.QueryParam("min")
	maxStr := c.QueryParam("max")
	if minStr == "" || maxStr == "" {
		return httputil.SendErrorResponse(c,
			httputil.BadRequestError("Price range requires both 'min' and 'max' query parameters"))
	}

	minPrice, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return httputil.SendErrorResponse(c, httputil.BadRequestError("Invalid 'min' price: "+minStr))
	}
	maxPrice, err := strconv.ParseFloat(maxStr, 64)
	if err != nil {
		return httputil.SendErrorResponse(c, httputil.BadRequestError("Invalid 'max' price: "+maxStr))
	}

	items, err := h.itemService.GetItemsByPriceRange(c.Request().Context(), minPrice, maxPrice)
	if err != nil {
		log.Printf("GetItemsByPriceRange: Service error for [%s, %s]: %v", minStr, maxStr, err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.JSON(http.StatusOK, items)
}

// SearchItems handles GET /items/search?name=.
func (h *ItemHandler) SearchItems(c echo.Context) error {
	fragment := c.QueryParam("name")

	items, err := h.itemService.SearchItemsByName(c.Request().Context(), fragment)
	if err != nil {
		log.Printf("SearchItems: Service error for fragment %q: %v", fragment, err)
		return httputil.SendErrorResponse(c, httputil.FromDomainError(err))
	}

	return c.JSON(http.StatusOK, items)
}

// parseItemID parses a path parameter into an item ID.
func parseItemID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidItemID, raw)
	}
	return id, nil
}

// ParseValidationErrors converts validator.ValidationErrors into field-level
// failures for the error response.
func ParseValidationErrors(err error) []httputil.FieldError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]httputil.FieldError, 0, len(ve))
		for _, fe := range ve {
			out = append(out, httputil.FieldError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("Failed validation on rule '%s'", fe.Tag()),
			})
		}
		return out
	}
	return []httputil.FieldError{{Field: "request", Message: "Invalid input data"}}
}
