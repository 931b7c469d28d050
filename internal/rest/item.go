package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"resellPilot/domain"
	"resellPilot/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type ItemService interface {
	GetAllItems(ctx context.Context, userID uint64) ([]domain.Item, error)
	GetItemByID(ctx context.Context, userID, id uint64) (*domain.Item, error)
	CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)
	UpdateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)
	UpdateStatus(ctx context.Context, userID, id uint64, status string) (*domain.Item, error)
	DeleteItem(ctx context.Context, userID, id uint64) error
}

type ItemHandler struct {
	itemService ItemService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewItemHandler(itemService ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type CreateItemRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price" validate:"gte=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft ready published scheduled sold"`
	Photos      []string `json:"photos"`
}

type UpdateItemRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price" validate:"gte=0"`
	Photos      []string `json:"photos"`
}

type UpdateItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft ready published scheduled sold"`
}

func (h *ItemHandler) GetAllItems(c echo.Context) error {
	userID, _ := currentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.itemService.GetAllItems(ctx, userID)
	if err != nil {
		logger.Error("Failed to find all items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

func (h *ItemHandler) GetItemByID(c echo.Context) error {
	userID, _ := currentUser(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid item id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.itemService.GetItemByID(ctx, userID, itemID)
	if err != nil {
		if err.Error() == "item not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(item))
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	userID, _ := currentUser(c)

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate item request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item := &domain.Item{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Status:      req.Status,
		Photos:      encodeStrings(req.Photos),
	}

	newItem, err := h.itemService.CreateItem(ctx, item)
	if err != nil {
		logger.Error("Failed to create item", err)
		if err.Error() == "title is required" ||
			err.Error() == "price cannot be negative" ||
			err.Error() == "invalid item status" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newItem))
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	userID, _ := currentUser(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid item id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item := &domain.Item{
		ID:          itemID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Photos:      encodeStrings(req.Photos),
	}

	updated, err := h.itemService.UpdateItem(ctx, item)
	if err != nil {
		logger.Error("Failed to update item", err)
		if err.Error() == "item not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if err.Error() == "title is required" || err.Error() == "price cannot be negative" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *ItemHandler) UpdateItemStatus(c echo.Context) error {
	userID, _ := currentUser(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateItemStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.itemService.UpdateStatus(ctx, userID, itemID, req.Status)
	if err != nil {
		logger.Error("Failed to update item status", err)
		if err.Error() == "item not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(item))
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	userID, _ := currentUser(c)

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.itemService.DeleteItem(ctx, userID, itemID); err != nil {
		logger.Error("Failed to delete item", err)
		if err.Error() == "item not found" || err.Error() == "invalid item id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("item deleted"))
}

func encodeStrings(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}

	return datatypes.JSON(b)
}
