package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/acmecorp/user-management-api/docs"
	"github.com/acmecorp/user-management-api/internal/api/handler"
	"github.com/acmecorp/user-management-api/internal/api/middleware"
	"github.com/acmecorp/user-management-api/internal/core/service"
	"github.com/acmecorp/user-management-api/internal/infrastructure/config"
	mongodb "github.com/acmecorp/user-management-api/internal/infrastructure/db/mongo"
	redisdb "github.com/acmecorp/user-management-api/internal/infrastructure/db/redis"
	"github.com/acmecorp/user-management-api/internal/infrastructure/http/handlers"
	"github.com/acmecorp/user-management-api/internal/pkg/password"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("usermgmt"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	denylist := redisdb.NewTokenDenylist(rdb)
	hasher := password.NewHasher(cfg.BcryptCost)

	roleService := service.NewRoleService(roleRepo, userRepo, log)
	userService := service.NewUserService(userRepo, roleRepo, hasher, log)
	authService := service.NewAuthService(userService, userRepo, hasher, denylist, cfg.JWTSecret, cfg.JWTTTL, log)

	authHandler := handler.NewAuthHandler(authService)
	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)

	authMiddleware := middleware.Auth(cfg.JWTSecret, denylist)
	apiKeyMiddleware := middleware.APIKey(cfg.APIKey)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authMiddleware)

	// --- Role routes (machine-to-machine, API key guarded) ---
	role := e.Group("/role", apiKeyMiddleware)
	role.GET("/all", roleHandler.List)
	role.POST("/create", roleHandler.Create)
	role.PUT("/update/:id", roleHandler.Update)
	role.DELETE("/remove/:id", roleHandler.Delete)
	role.PATCH("/:id/access-module/add", roleHandler.AddModule)
	role.PATCH("/:id/access-module/remove", roleHandler.RemoveModule)

	// --- User routes (bearer token guarded) ---
	user := e.Group("/user", authMiddleware)
	user.GET("/all", userHandler.List)
	user.GET("/search", userHandler.Search)
	user.POST("/create", userHandler.Create)
	user.PUT("/update/:id", userHandler.Update)
	user.DELETE("/remove/:id", userHandler.Delete)
	user.GET("/:id/module-access/:module", userHandler.ModuleAccess)
	user.PATCH("/bulk-update-same-payload", userHandler.BulkUpdateSame)
	user.PATCH("/bulk-update-different-payload", userHandler.BulkUpdateDifferent)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// Swagger UI stays off in production.
	if cfg.Env != "production" {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}
