package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jacquesvida12/RemindersApp/internal/models"
	"github.com/jacquesvida12/RemindersApp/internal/recurrence"
	"github.com/jacquesvida12/RemindersApp/internal/services"
)

const startDateLayout = "2006-01-02"

type getPatternResponse struct {
	ID              string    `json:"id"`
	RecurringType   string    `json:"recurring_type"`
	SeparationCount int       `json:"separation_count"`
	DayOfWeek       *int      `json:"day_of_week,omitempty"`
	DayOfMonth      *int      `json:"day_of_month,omitempty"`
	StartDate       time.Time `json:"start_date"`
}

func newGetPatternResponse(pattern *models.RecurringPattern) getPatternResponse {
	return getPatternResponse{
		ID:              pattern.ID,
		RecurringType:   pattern.RecurringType,
		SeparationCount: pattern.SeparationCount,
		DayOfWeek:       pattern.DayOfWeek,
		DayOfMonth:      pattern.DayOfMonth,
		StartDate:       pattern.StartDate,
	}
}

type createPatternRequest struct {
	RecurringType   string `json:"recurring_type" binding:"required"`
	SeparationCount int    `json:"separation_count" binding:"required"`
	DayOfWeek       *int   `json:"day_of_week,omitempty"`
	DayOfMonth      *int   `json:"day_of_month,omitempty"`
	StartDate       string `json:"start_date" binding:"required"`
}

func (h *handlerImpl) HandleCreatePattern(c *gin.Context) {
	var req createPatternRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	startDate, err := time.Parse(startDateLayout, req.StartDate)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("start_date", req.StartDate).
			Msg("failed to parse start date")
		abort(c, newBadRequestError("invalid start_date"))
		return
	}

	pattern, err := h.patterns.CreatePattern(c, services.CreatePatternParams{
		RecurringType:   req.RecurringType,
		SeparationCount: req.SeparationCount,
		DayOfWeek:       req.DayOfWeek,
		DayOfMonth:      req.DayOfMonth,
		StartDate:       startDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create pattern")
		switch {
		case errors.Is(err, recurrence.ErrInvalidSeparationCount),
			errors.Is(err, recurrence.ErrUnknownRecurringType):
			abort(c, newBadRequestError(err.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newGetPatternResponse(pattern))
}

func (h *handlerImpl) HandleGetPatterns(c *gin.Context) {
	patterns, err := h.patterns.ListPatterns(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list patterns")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getPatternResponse, len(patterns))
	for i, pattern := range patterns {
		response[i] = newGetPatternResponse(&pattern)
	}

	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleDeletePattern(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	patternID := c.Param("id")
	if patternID == "" {
		h.logger.Error().Msg("no pattern id provided")
		abort(c, newBadRequestError("no pattern id provided"))
		return
	}

	err := h.patterns.DeletePattern(c, userID, patternID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete pattern")
		switch {
		case errors.Is(err, services.ErrPatternNotFound):
			abort(c, newNotFoundError(services.ErrPatternNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
