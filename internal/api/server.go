package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/edcastillob/rifas/docs"
	v1 "github.com/edcastillob/rifas/internal/api/handler/v1"
	"github.com/edcastillob/rifas/internal/api/middleware"
	"github.com/edcastillob/rifas/internal/config"
	"github.com/edcastillob/rifas/internal/repository"
	"github.com/edcastillob/rifas/internal/repository/dao"
	"github.com/edcastillob/rifas/internal/service"
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

	feed := v1.NewTicketFeed()
	go feed.Run()

	identitySvc := s.initIdentityService(db)
	authHandler := s.initAuthHandler(db, identitySvc)
	raffleHandler := s.initRaffleHandler(db)
	ticketHandler := s.initTicketHandler(db, feed)
	adminRaffleHandler := s.initAdminRaffleHandler(db)
	adminRoleHandler := s.initAdminRoleHandler(db)
	s.MountHandlers(identitySvc, feed, authHandler, raffleHandler, ticketHandler, adminRaffleHandler, adminRoleHandler)

	return s
}

func (s *Server) initIdentityService(db *gorm.DB) *service.IdentityService {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	roleRepo := repository.NewRoleRepository(dao.NewRoleDAO(db))

	return service.NewIdentityService(userRepo, roleRepo)
}

func (s *Server) initAuthHandler(db *gorm.DB, identitySvc *service.IdentityService) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc, identitySvc)

	return handler
}

func (s *Server) initRaffleHandler(db *gorm.DB) *v1.RaffleHandler {
	repo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	svc := service.NewRaffleService(repo, ticketRepo)
	ticketSvc := service.NewTicketService(ticketRepo, repo)
	handler := v1.NewRaffleHandler(svc, ticketSvc)

	return handler
}

func (s *Server) initTicketHandler(db *gorm.DB, feed *v1.TicketFeed) *v1.TicketHandler {
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	svc := service.NewTicketService(ticketRepo, raffleRepo)
	handler := v1.NewTicketHandler(svc, feed)

	return handler
}

func (s *Server) initAdminRaffleHandler(db *gorm.DB) *v1.AdminRaffleHandler {
	repo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db))
	svc := service.NewRaffleService(repo, ticketRepo)
	ticketSvc := service.NewTicketService(ticketRepo, repo)
	handler := v1.NewAdminRaffleHandler(svc, ticketSvc)

	return handler
}

func (s *Server) initAdminRoleHandler(db *gorm.DB) *v1.AdminRoleHandler {
	roleRepo := repository.NewRoleRepository(dao.NewRoleDAO(db))
	svc := service.NewAdminService(roleRepo)
	handler := v1.NewAdminRoleHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	identitySvc *service.IdentityService,
	feed *v1.TicketFeed,
	authHandler *v1.AuthHandler,
	raffleHandler *v1.RaffleHandler,
	ticketHandler *v1.TicketHandler,
	adminRaffleHandler *v1.AdminRaffleHandler,
	adminRoleHandler *v1.AdminRoleHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	guard := middleware.NewAuthGuard(identitySvc)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/raffles", raffleHandler.HandleListActiveRaffles)
		public.GET("/raffles/:raffleID", raffleHandler.HandleGetRaffle)
		public.GET("/raffles/:raffleID/tickets", ticketHandler.HandleListTickets)
		public.POST("/raffles/:raffleID/tickets/:number/reserve", ticketHandler.HandleReserveTicket)
		public.GET("/raffles/:raffleID/tickets/feed", feed.HandleTicketFeed)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.POST("/auth/change-password", authHandler.HandleChangePassword)
	}

	admin := s.Router.Group(basePath+"/admin", authenticator.VerifyJWT(), guard.RequireAdmin())
	{
		admin.GET("/raffles", adminRaffleHandler.HandleListRaffles)
		admin.POST("/raffles", adminRaffleHandler.HandleCreateRaffle)
		admin.PUT("/raffles/:raffleID", adminRaffleHandler.HandleUpdateRaffle)
		admin.DELETE("/raffles/:raffleID", adminRaffleHandler.HandleDeleteRaffle)
		admin.POST("/raffles/:raffleID/winner", adminRaffleHandler.HandleDrawWinner)
		admin.GET("/raffles/:raffleID/buyers.csv", adminRaffleHandler.HandleExportBuyers)
	}

	superAdmin := s.Router.Group(basePath+"/admin", authenticator.VerifyJWT(), guard.RequireSuperAdmin())
	{
		superAdmin.GET("/users", adminRoleHandler.HandleListAdmins)
		superAdmin.POST("/users", adminRoleHandler.HandleCreateAdmin)
		superAdmin.PUT("/users/:userID/role", adminRoleHandler.HandleSetRole)
		superAdmin.DELETE("/users/:userID/role", adminRoleHandler.HandleRevokeRole)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Raffle API"
	docs.SwaggerInfo.Description = "Raffle ticket sales and administration API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
