package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pabloh4516/sellx-sub001/internal/config"
	"github.com/pabloh4516/sellx-sub001/internal/handler"
	"github.com/pabloh4516/sellx-sub001/internal/middleware"
	"github.com/pabloh4516/sellx-sub001/internal/model"
	"github.com/pabloh4516/sellx-sub001/internal/repository"
	"github.com/pabloh4516/sellx-sub001/internal/service"
	"github.com/pabloh4516/sellx-sub001/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	cashierSvc := service.NewCashierService(sessionRepo, saleRepo, methodRepo, cfg.SessionScope, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cashierH := handler.NewCashierHandler(cashierSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole(model.RoleOperator, model.RoleManager, model.RoleAdmin)

		cashier := v1.Group("/cashier")
		{
			// Per-mode authorization (who may open/close which drawer) is
			// decided in the service; the route gate only keeps anonymous
			// roles out.
			cashier.POST("/open", anyRole, cashierH.Open)
			cashier.POST("/movement", anyRole, cashierH.RecordMovement)
			cashier.POST("/close", anyRole, cashierH.Close)
			cashier.GET("/active", anyRole, cashierH.Active)
			cashier.GET("/:id/snapshot", anyRole, cashierH.Snapshot)
			cashier.GET("/:id/report", anyRole, cashierH.Report)
			cashier.GET("/history", middleware.RequireRole(model.RoleManager, model.RoleAdmin), cashierH.History)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
