package api

import (
	"errors"
	"fmt"
	"net/http"

	"solder"
	"solder/agent"
	"solder/common"
	"solder/srv"
	"solder/store"
	"solder/toolchain"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
)

func RunServer() *http.Server {
	gin.SetMode(gin.ReleaseMode)
	ctrl, err := NewController()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize controller")
	}
	router, err := DefineRoutes(ctrl)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to define routes")
	}

	srv := &http.Server{
		Addr:    common.GetServerHostPort(),
		Handler: router.Handler(),
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	return srv
}

type Controller struct {
	store   *store.ProjectStore
	runner  *toolchain.Runner
	agent   *agent.Client
	storage srv.Storage
	config  common.LocalConfig
	hub     *eventHub
}

func NewController() (Controller, error) {
	config, err := common.GetSolderConfig(common.GetDefaultConfigPath())
	if err != nil {
		return Controller{}, fmt.Errorf("failed to load config: %w", err)
	}

	projectsDir, err := common.GetProjectsDir()
	if err != nil {
		return Controller{}, fmt.Errorf("failed to resolve projects directory: %w", err)
	}

	storage, err := solder.GetStorage()
	if err != nil {
		return Controller{}, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Controller{
		store:   store.NewProjectStore(projectsDir),
		runner:  toolchain.NewRunner(config.Toolchain),
		agent:   agent.NewClientWithURL(config.AgentURL),
		storage: storage,
		config:  config,
		hub:     newEventHub(),
	}, nil
}

func DefineRoutes(ctrl Controller) (*gin.Engine, error) {
	r := gin.Default()
	r.ForwardedByClientIP = true
	r.SetTrustedProxies(nil)

	allowedOrigins, err := GetAllowedOrigins()
	if err != nil {
		return nil, fmt.Errorf("failed to parse allowed origins: %w", err)
	}
	r.Use(CORSMiddleware(allowedOrigins))

	apiRoutes := r.Group("/api/v1")

	projectRoutes := apiRoutes.Group("/projects")
	projectRoutes.GET("", ctrl.ListProjectsHandler)
	projectRoutes.POST("", ctrl.CreateProjectHandler)
	projectRoutes.DELETE("/:name", ctrl.DeleteProjectHandler)
	projectRoutes.GET("/:name/files", ctrl.GetTreeHandler)
	projectRoutes.GET("/:name/files/*path", ctrl.ReadFileHandler)
	projectRoutes.POST("/:name/files/*path", ctrl.WriteFileHandler)
	projectRoutes.PUT("/:name/files/*path", ctrl.RenameEntryHandler)
	projectRoutes.DELETE("/:name/files/*path", ctrl.DeleteEntryHandler)
	projectRoutes.POST("/:name/directories/*path", ctrl.MakeDirectoryHandler)
	projectRoutes.POST("/:name/compile", ctrl.CompileHandler)
	projectRoutes.POST("/:name/deploy", ctrl.DeployHandler)
	projectRoutes.GET("/:name/deploys", ctrl.GetDeploysHandler)

	sessionRoutes := apiRoutes.Group("/session")
	sessionRoutes.GET("", ctrl.GetSessionHandler)
	sessionRoutes.PUT("", ctrl.PutSessionHandler)
	sessionRoutes.POST("/accounts", ctrl.CreateAccountHandler)

	apiRoutes.GET("/networks", ctrl.GetNetworksHandler)

	wsRoutes := r.Group("/ws/v1")
	wsRoutes.GET("/projects/:name/events", func(c *gin.Context) {
		ctrl.ProjectEventsWebsocketHandler(c, allowedOrigins)
	})

	return r, nil
}

// ErrorHandler maps a store/toolchain error to the HTTP status and JSON
// error envelope every handler uses.
func (ctrl *Controller) ErrorHandler(c *gin.Context, err error) {
	zlog.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrInvalidPath),
		errors.Is(err, store.ErrIsDirectory):
		return http.StatusBadRequest
	case errors.Is(err, toolchain.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
