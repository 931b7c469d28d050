package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"resellPilot/business/advisor"
	"resellPilot/domain"
	"resellPilot/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type AdvisorService interface {
	LoadInsights(ctx context.Context, userID uint64, sessionID string, forceRefresh bool) ([]domain.Insight, error)
	Dismiss(ctx context.Context, userID uint64, sessionID, insightID string) error
	Execute(ctx context.Context, userID uint64, sessionID, insightID string) (advisor.ExecuteResult, error)
	VisibleCount(ctx context.Context, userID uint64, sessionID string) (int, error)
	ClearSession(ctx context.Context, userID uint64, sessionID string) error
}

type AdvisorHandler struct {
	advisorService AdvisorService
	timeout        time.Duration
}

func NewAdvisorHandler(advisorService AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService: advisorService,
		// generation can hit the oracle, so this is generous compared
		// to the plain CRUD handlers
		timeout: 45 * time.Second,
	}
}

func (h *AdvisorHandler) GetInsights(c echo.Context) error {
	userID, sessionID := currentUser(c)
	forceRefresh := c.QueryParam("refresh") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	insights, err := h.advisorService.LoadInsights(ctx, userID, sessionID, forceRefresh)
	if err != nil {
		logger.Error("Failed to load insights", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(insights))
}

func (h *AdvisorHandler) GetInsightCount(c echo.Context) error {
	userID, sessionID := currentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	count, err := h.advisorService.VisibleCount(ctx, userID, sessionID)
	if err != nil {
		logger.Error("Failed to count insights", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]int{"count": count}))
}

func (h *AdvisorHandler) DismissInsight(c echo.Context) error {
	userID, sessionID := currentUser(c)

	insightID := c.Param("id")
	if insightID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing insight id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.advisorService.Dismiss(ctx, userID, sessionID, insightID); err != nil {
		logger.Error("Failed to dismiss insight", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("insight dismissed"))
}

func (h *AdvisorHandler) ExecuteInsight(c echo.Context) error {
	userID, sessionID := currentUser(c)

	insightID := c.Param("id")
	if insightID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing insight id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.advisorService.Execute(ctx, userID, sessionID, insightID)
	if err != nil {
		logger.Error("Failed to execute insight", "insight_id", insightID, "error", err)

		switch {
		case errors.Is(err, advisor.ErrInsightNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		case errors.Is(err, advisor.ErrTooFewBundleItems):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, advisor.ErrConflictDetected):
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}

		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *AdvisorHandler) ClearSession(c echo.Context) error {
	userID, sessionID := currentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.advisorService.ClearSession(ctx, userID, sessionID); err != nil {
		logger.Error("Failed to clear advisor session", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("advisor session cleared"))
}
