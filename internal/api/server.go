package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/adarshamigo11/task-portal/docs"
	v1 "github.com/adarshamigo11/task-portal/internal/api/handler/v1"
	"github.com/adarshamigo11/task-portal/internal/api/middleware"
	"github.com/adarshamigo11/task-portal/internal/config"
	"github.com/adarshamigo11/task-portal/internal/store"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, st *store.Store) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := v1.NewAuthHandler(s.Config.API, st)
	userHandler := v1.NewUserHandler(st)
	campaignHandler := v1.NewCampaignHandler(st)
	taskHandler := v1.NewTaskHandler(st)
	submissionHandler := v1.NewSubmissionHandler(st)
	updateHandler := v1.NewUpdateHandler(st)
	eventsHandler := v1.NewEventsHandler(st)
	go eventsHandler.Run()

	s.MountHandlers(authHandler, userHandler, campaignHandler, taskHandler, submissionHandler, updateHandler, eventsHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	campaignHandler *v1.CampaignHandler,
	taskHandler *v1.TaskHandler,
	submissionHandler *v1.SubmissionHandler,
	updateHandler *v1.UpdateHandler,
	eventsHandler *v1.EventsHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	users := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		users.POST("/auth/logout", authHandler.HandleLogout)
		users.GET("/me", userHandler.HandleGetMe)
		users.GET("/leaderboard", userHandler.HandleGetLeaderboard)

		users.GET("/campaigns", campaignHandler.HandleListCampaigns)
		users.GET("/categories", campaignHandler.HandleListCategories)
		users.GET("/tasks", taskHandler.HandleListTasks)
		users.GET("/tasks/:taskID", taskHandler.HandleGetTask)
		users.POST("/tasks/:taskID/visit", taskHandler.HandleVisitTask)
		users.POST("/tasks/:taskID/submissions", taskHandler.HandleSubmitTask)
		users.GET("/submissions/mine", submissionHandler.HandleListMySubmissions)
		users.GET("/updates", updateHandler.HandleListUpdates)

		users.GET("/state", eventsHandler.HandleGetState)
		users.GET("/state/events", eventsHandler.HandleWebSocket)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), middleware.AdminOnly())
	{
		admin.POST("/campaigns", campaignHandler.HandleCreateCampaign)
		admin.PUT("/campaigns/:campaignID", campaignHandler.HandleEditCampaign)
		admin.DELETE("/campaigns/:campaignID", campaignHandler.HandleDeleteCampaign)

		admin.POST("/categories", campaignHandler.HandleCreateCategory)
		admin.PUT("/categories/:categoryID", campaignHandler.HandleEditCategory)
		admin.DELETE("/categories/:categoryID", campaignHandler.HandleDeleteCategory)

		admin.POST("/tasks", taskHandler.HandlePublishTask)
		admin.PUT("/tasks/:taskID", taskHandler.HandleEditTask)
		admin.DELETE("/tasks/:taskID", taskHandler.HandleDeleteTask)

		admin.GET("/submissions", submissionHandler.HandleListSubmissions)
		admin.POST("/submissions/:submissionID/approve", submissionHandler.HandleApproveSubmission)
		admin.POST("/submissions/:submissionID/reject", submissionHandler.HandleRejectSubmission)

		admin.POST("/updates", updateHandler.HandlePublishUpdate)
		admin.DELETE("/updates/:updateID", updateHandler.HandleDeleteUpdate)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Task Portal API"
	docs.SwaggerInfo.Description = "Campaign and task platform with point rewards."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
