package router

import (
	"fmt"
	"time"

	"moneybook/internal/config"
	"moneybook/internal/handler"
	"moneybook/internal/metrics"
	"moneybook/internal/middleware"
	"moneybook/internal/store"
	"moneybook/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the collaborators built by main. Cache and Limiter may be nil.
type Deps struct {
	DB      *gorm.DB
	Cache   store.Cache
	Limiter *middleware.RateLimiter
}

// SetupRouter wires middleware, handlers and routes.
func SetupRouter(cfg *config.Config, deps Deps) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	db := deps.DB

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	r.GET("/health", handler.Health(sqlDB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	cipher := util.NewCipher(cfg.Security.EncryptionKey)

	accounts := store.NewAccounts(db, cfg.Security.BcryptCost)
	sessions := store.NewSessions(db)
	cashbook := store.NewCashbook(db, deps.Cache)
	expenses := store.NewExpenses(db)
	notebooks := store.NewNotebooks(db)
	spins := store.NewSpins(db, nil)
	backups := store.NewBackups(db)

	authMW := middleware.AuthMiddleware(cfg.JWT.Secret, accounts, sessions)
	auditMW := middleware.AuditMiddleware(db, cipher)

	authHandler := handler.NewAuthHandler(accounts, sessions, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, cfg.Server.Production())

	api := r.Group("/api")

	// login and register are open but rate limited per client IP
	open := api.Group("/auth")
	if deps.Limiter != nil {
		open.Use(deps.Limiter.Handler())
	}
	open.POST("/register", authHandler.Register)
	open.POST("/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authMW, auditMW)

	protected.GET("/auth/profile", authHandler.Profile)
	protected.PUT("/auth/profile", authHandler.UpdateProfile)
	protected.POST("/auth/profile/password", authHandler.ChangePassword)
	r.GET("/authCheck", authMW, authHandler.AuthCheck)

	cashbookHandler := handler.NewCashbookHandler(cashbook)
	exportHandler := handler.NewExportHandler(cashbook)
	cb := protected.Group("/cashbook")
	cb.POST("/create", cashbookHandler.Create)
	cb.GET("", cashbookHandler.List)
	cb.GET("/", cashbookHandler.List)
	cb.GET("/single/:id", cashbookHandler.Get)
	cb.GET("/summary", cashbookHandler.Summary)
	cb.GET("/cash-in", cashbookHandler.View(store.ViewAwaitingCashIn, "cashIn", ""))
	cb.GET("/cash-out", cashbookHandler.View(store.ViewAwaitingCashOut, "cashOut", ""))
	cb.GET("/cash-received", cashbookHandler.View(store.ViewReceived, "cashReceived", "cash_out"))
	cb.GET("/cash-paid", cashbookHandler.View(store.ViewPaid, "cashPaid", "cash_in"))
	cb.GET("/export/csv", exportHandler.ExportCSV)
	cb.GET("/export/xlsx", exportHandler.ExportXLSX)
	cb.PUT("/:id", cashbookHandler.Update)
	cb.DELETE("/:id", cashbookHandler.Delete)

	expenseHandler := handler.NewExpenseHandler(expenses)
	ex := protected.Group("/expense")
	ex.POST("/create", expenseHandler.Create)
	ex.GET("", expenseHandler.List)
	ex.GET("/", expenseHandler.List)
	ex.GET("/single/:id", expenseHandler.Get)
	ex.GET("/expenses/single/view/:id", expenseHandler.GetItem)
	ex.PUT("/expenses/:id", expenseHandler.UpdateItem)
	ex.POST("/expenses/add/:id", expenseHandler.AddItem)
	ex.DELETE("/:id", expenseHandler.Delete)
	ex.DELETE("/expenses/:id", expenseHandler.DeleteItem)

	notebookHandler := handler.NewNotebookHandler(notebooks)
	nb := protected.Group("/notebook")
	nb.POST("/create", notebookHandler.Create)
	nb.GET("", notebookHandler.List)
	nb.GET("/", notebookHandler.List)
	nb.GET("/single/:id", notebookHandler.Get)
	nb.PUT("/:id", notebookHandler.Update)
	nb.DELETE("/:id", notebookHandler.Delete)

	spinHandler := handler.NewSpinHandler(spins)
	sp := protected.Group("/spin")
	sp.POST("/create", spinHandler.Create)
	sp.GET("", spinHandler.List)
	sp.GET("/", spinHandler.List)
	sp.GET("/single/:id", spinHandler.Get)
	sp.POST("/single/participants/add/:id", spinHandler.AddParticipant)
	sp.GET("/winner/:id", spinHandler.Winner)
	sp.PUT("/SpinGroup/:id", spinHandler.Update)
	sp.DELETE("/spinGroup/:id", spinHandler.Delete)
	sp.DELETE("/spinGroupUser/:spinId/:spinGroupUserId", spinHandler.DeleteParticipant)

	backupHandler := handler.NewBackupHandler(backups, cashbook, cipher, cfg.Backup.Dir)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(db, cipher)
	protected.GET("/logs", logHandler.ListLogs)
	protected.GET("/history", logHandler.ListCashbookHistory)

	return r, nil
}
