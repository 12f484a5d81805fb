package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/minhvu2904/blindbox-api/docs"
	v1 "github.com/minhvu2904/blindbox-api/internal/api/handler/v1"
	"github.com/minhvu2904/blindbox-api/internal/api/middleware"
	"github.com/minhvu2904/blindbox-api/internal/config"
	"github.com/minhvu2904/blindbox-api/internal/repository"
	"github.com/minhvu2904/blindbox-api/internal/repository/dao"
	"github.com/minhvu2904/blindbox-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	boxHandler := s.initBlindBoxHandler(db)
	commentHandler := s.initCommentHandler(db)
	s.MountHandlers(authHandler, userHandler, boxHandler, commentHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initBlindBoxHandler(db *gorm.DB) *v1.BlindBoxHandler {
	boxDAO := dao.NewBlindBoxDAO(db)
	repo := repository.NewBlindBoxRepository(boxDAO)
	svc := service.NewBlindBoxService(repo, nil)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewBlindBoxHandler(svc, uSvc)

	return handler
}

func (s *Server) initCommentHandler(db *gorm.DB) *v1.CommentHandler {
	commentDAO := dao.NewCommentDAO(db)
	repo := repository.NewCommentRepository(commentDAO)
	boxRepo := repository.NewBlindBoxRepository(dao.NewBlindBoxDAO(db))
	svc := service.NewCommentService(repo, boxRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewCommentHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, boxHandler *v1.BlindBoxHandler, commentHandler *v1.CommentHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	// Catalog browsing and comments are readable without a token.
	catalog := s.Router.Group(basePath)
	{
		catalog.GET("/blind-boxes", boxHandler.HandleGetBlindBoxes)
		catalog.GET("/blind-boxes/merchant/:merchantID", boxHandler.HandleGetMerchantBlindBoxes)
		catalog.GET("/blind-boxes/:boxID", boxHandler.HandleGetBlindBox)
		catalog.GET("/blind-boxes/:boxID/comments", commentHandler.HandleGetComments)
	}

	users := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.GET("/users/me/boxes", boxHandler.HandleGetOwnedBoxes)
		users.GET("/users/me/draws", boxHandler.HandleGetUserDraws)
	}

	boxes := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		boxes.POST("/blind-boxes", boxHandler.HandleCreateBlindBox)
		boxes.POST("/blind-boxes/:boxID/purchase", boxHandler.HandlePurchase)
		boxes.POST("/blind-boxes/:boxID/draw", boxHandler.HandleDraw)
		boxes.POST("/blind-boxes/:boxID/draw-batch", boxHandler.HandleDraw)
		boxes.POST("/blind-boxes/draws/:drawID/ship", boxHandler.HandleShip)
		boxes.POST("/blind-boxes/:boxID/delist", boxHandler.HandleDelist)
		boxes.POST("/blind-boxes/:boxID/relist", boxHandler.HandleRelist)
		boxes.GET("/blind-boxes/:boxID/owned", boxHandler.HandleGetOwnedQuantity)
		boxes.GET("/blind-boxes/:boxID/orders", boxHandler.HandleGetOrders)
		boxes.POST("/blind-boxes/:boxID/comments", commentHandler.HandleAddComment)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Blind Box API"
	docs.SwaggerInfo.Description = "Blind box marketplace: listings, purchases, draws and shipping."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
