package rest

import (
	"context"
	"net/http"
	"time"

	"resellPilot/business/bundle"
	"resellPilot/domain"
	"resellPilot/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type BundleService interface {
	GetAllBundles(ctx context.Context, userID uint64) ([]domain.Bundle, error)
	GetBundleByID(ctx context.Context, userID uint64, id string) (*bundle.BundleWithItems, error)
	DissolveBundle(ctx context.Context, userID uint64, id string) error
}

type BundleHandler struct {
	bundleService BundleService
	timeout       time.Duration
}

func NewBundleHandler(bundleService BundleService) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
		timeout:       10 * time.Second,
	}
}

func (h *BundleHandler) GetAllBundles(c echo.Context) error {
	userID, _ := currentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bundles, err := h.bundleService.GetAllBundles(ctx, userID)
	if err != nil {
		logger.Error("Failed to find all bundles", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bundles))
}

func (h *BundleHandler) GetBundleByID(c echo.Context) error {
	userID, _ := currentUser(c)

	bundleID := c.Param("id")
	if bundleID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing bundle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.bundleService.GetBundleByID(ctx, userID, bundleID)
	if err != nil {
		if err.Error() == "bundle not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *BundleHandler) DissolveBundle(c echo.Context) error {
	userID, _ := currentUser(c)

	bundleID := c.Param("id")
	if bundleID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing bundle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.bundleService.DissolveBundle(ctx, userID, bundleID); err != nil {
		logger.Error("Failed to dissolve bundle", err)
		if err.Error() == "bundle not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("bundle dissolved"))
}
