package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jacquesvida12/RemindersApp/internal/models"
	"github.com/jacquesvida12/RemindersApp/internal/recurrence"
	"github.com/jacquesvida12/RemindersApp/internal/services"
	"github.com/jacquesvida12/RemindersApp/internal/taskquery"
)

// dueDateLayout is the format task forms submit, a datetime-local value.
const dueDateLayout = "2006-01-02T15:04"

type getTaskResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	DueDate            time.Time `json:"due_date"`
	IsCompleted        bool      `json:"is_completed"`
	RecurringPatternID *string   `json:"recurring_pattern_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		DueDate:            task.DueDate,
		IsCompleted:        task.IsCompleted,
		RecurringPatternID: task.RecurringPatternID,
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title              string  `json:"title" binding:"required,max=255"`
	DueDate            string  `json:"due_date" binding:"required"`
	RecurringPatternID *string `json:"recurring_pattern_id,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("due_date", req.DueDate).
			Msg("failed to parse due date")
		abort(c, newBadRequestError("invalid due_date"))
		return
	}

	result, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:             userID,
		Title:              req.Title,
		DueDate:            dueDate,
		RecurringPatternID: req.RecurringPatternID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		switch {
		case errors.Is(err, services.ErrPatternNotFound):
			abort(c, newBadRequestError(services.ErrPatternNotFound.Error()))
		case errors.Is(err, recurrence.ErrInvalidSeparationCount),
			errors.Is(err, recurrence.ErrUnknownRecurringType):
			abort(c, newBadRequestError(err.Error()))
		case errors.Is(err, services.ErrEmptyTaskTitle):
			abort(c, newBadRequestError(services.ErrEmptyTaskTitle.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"task":        newGetTaskResponse(result.Task),
		"occurrences": result.Occurrences,
	})
}

// parseCriteria reads the filter query parameters shared by the listing and
// export endpoints. Status defaults to active, matching the listing view.
func (h *handlerImpl) parseCriteria(c *gin.Context) (taskquery.Criteria, bool) {
	status := c.DefaultQuery("status", taskquery.StatusActive)

	criteria, err := taskquery.ParseCriteria(
		c.Query("search"),
		status,
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse filter criteria")
		abort(c, newBadRequestError(err.Error()))
		return taskquery.Criteria{}, false
	}
	return criteria, true
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	criteria, ok := h.parseCriteria(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, userID, criteria)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(&task)
	}

	c.JSON(http.StatusOK, response)
}

type updateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	DueDate     string `json:"due_date" binding:"required"`
	IsCompleted bool   `json:"is_completed"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	dueDate, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("due_date", req.DueDate).
			Msg("failed to parse due date")
		abort(c, newBadRequestError("invalid due_date"))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		DueDate:     dueDate,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrEmptyTaskTitle):
			abort(c, newBadRequestError(services.ErrEmptyTaskTitle.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleSetTaskCompletion(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	completed := c.Query("completed")
	isCompleted, err := strconv.ParseBool(completed)
	if err != nil {
		h.logger.Error().
			Str("completed", completed).
			Msg("invalid completed value")
		abort(c, newBadRequestError("invalid completed value"))
		return
	}

	task, err := h.tasks.SetTaskCompleted(c, services.SetTaskCompletedParams{
		ID:          taskID,
		UserID:      userID,
		IsCompleted: isCompleted,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update task completion")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError("no task id provided"))
		return
	}

	err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		ID:     taskID,
		UserID: userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleExportTasks(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	criteria, ok := h.parseCriteria(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="tasks.csv"`)
	c.Status(http.StatusOK)

	err := h.tasks.ExportTasks(c, userID, criteria, c.Writer)
	if err != nil {
		// Headers are already out, the truncated body is all we can signal.
		h.logger.Error().
			Err(err).
			Msg("failed to export tasks")
	}
}

func (h *handlerImpl) HandleImportTasks(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("no file in request")
		abort(c, newBadRequestError("no file in request"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to open uploaded file")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.tasks.ImportTasks(c, userID, file)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to import tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	rowErrors := make([]string, len(result.RowErrors))
	for i, rowErr := range result.RowErrors {
		rowErrors[i] = rowErr.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"imported":   result.Imported,
		"row_errors": rowErrors,
	})
}
