package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jacquesvida12/RemindersApp/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskCompletion(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleExportTasks(c *gin.Context)
	HandleImportTasks(c *gin.Context)

	HandleCreatePattern(c *gin.Context)
	HandleGetPatterns(c *gin.Context)
	HandleDeletePattern(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUploadAvatar(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
	patterns services.PatternService
	users    services.UserService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	patternService services.PatternService,
	userService services.UserService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		tasks:    taskService,
		patterns: patternService,
		users:    userService,
	}
}
