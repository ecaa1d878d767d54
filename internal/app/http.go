package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/jacquesvida12/RemindersApp/internal/config"
	v1 "github.com/jacquesvida12/RemindersApp/internal/delivery/http/v1"
	"github.com/jacquesvida12/RemindersApp/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	cfg := config.Global()
	jwtCfg := cfg.JWT

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	patternService := services.NewPatternService(globalLogger, globalPostgresPool)
	userService := services.NewUserService(
		globalLogger,
		globalPostgresPool,
		cfg.Uploads.Dir,
		cfg.Uploads.MaxFileSize,
	)

	v1Handler := v1.New(
		globalLogger,
		authService,
		sessionService,
		taskService,
		patternService,
		userService,
	)
	router.Static("/static", "static")

	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.POST("/refresh", v1Handler.HandleRefresh)
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/logout", v1Handler.HandleAuthMiddleware, v1Handler.HandleLogout)

	taskRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.GET("/export", v1Handler.HandleExportTasks)
	taskRouter.POST("/import", v1Handler.HandleImportTasks)
	taskRouter.PUT("/:id", v1Handler.HandleUpdateTask)
	taskRouter.PATCH("/:id/completion", v1Handler.HandleSetTaskCompletion)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)

	patternRouter := router.Group("/patterns", v1Handler.HandleAuthMiddleware)
	patternRouter.POST("", v1Handler.HandleCreatePattern)
	patternRouter.GET("", v1Handler.HandleGetPatterns)
	patternRouter.DELETE("/:id", v1Handler.HandleDeletePattern)

	profileRouter := router.Group("/profile", v1Handler.HandleAuthMiddleware)
	profileRouter.GET("", v1Handler.HandleGetProfile)
	profileRouter.POST("/avatar", v1Handler.HandleUploadAvatar)
}
