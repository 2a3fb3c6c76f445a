package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/barangaylink/barangaylink-backend/internal/config"
	"github.com/barangaylink/barangaylink-backend/internal/handlers"
	"github.com/barangaylink/barangaylink-backend/internal/middleware"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type RouterConfig struct {
	ServerConfig *config.ServerConfig

	AuthMiddleware *middleware.AuthMiddleware

	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	ResidentHandler    *handlers.ResidentHandler
	OrdinanceHandler   *handlers.OrdinanceHandler
	MinutesHandler     *handlers.MinutesHandler
	MaternalHandler    *handlers.MaternalHandler
	MedicineHandler    *handlers.MedicineHandler
	SummonHandler      *handlers.SummonHandler
	TreasuryHandler    *handlers.TreasuryHandler
	DashboardHandler   *handlers.DashboardHandler
	SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("barangaylink"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ServerConfig.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.GET("/dashboard/counts", cfg.DashboardHandler.Counts)

	residents := protected.Group("/residents")
	{
		residents.POST("", cfg.ResidentHandler.Create)
		residents.GET("", cfg.ResidentHandler.List)
		residents.GET("/:id", cfg.ResidentHandler.Get)
		residents.PUT("/:id", cfg.ResidentHandler.Update)
		residents.DELETE("/:id", cfg.ResidentHandler.Delete)
	}

	ordinances := protected.Group("/ordinances")
	ordinances.Use(cfg.AuthMiddleware.RequireRole(types.RoleSecretary, types.RoleStaff))
	{
		ordinances.POST("", cfg.OrdinanceHandler.Create)
		ordinances.GET("", cfg.OrdinanceHandler.List)
		ordinances.GET("/folders", cfg.OrdinanceHandler.Folders)
		ordinances.GET("/:id", cfg.OrdinanceHandler.Get)
		ordinances.PUT("/:id", cfg.OrdinanceHandler.Update)
		ordinances.POST("/:id/amend", cfg.OrdinanceHandler.Amend)
		ordinances.POST("/:id/repeal", cfg.OrdinanceHandler.Repeal)
		ordinances.DELETE("/:id", cfg.OrdinanceHandler.Delete)
	}

	minutes := protected.Group("/minutes")
	minutes.Use(cfg.AuthMiddleware.RequireRole(types.RoleSecretary, types.RoleStaff))
	{
		minutes.POST("", cfg.MinutesHandler.Create)
		minutes.GET("", cfg.MinutesHandler.List)
		minutes.GET("/:id", cfg.MinutesHandler.Get)
		minutes.PUT("/:id", cfg.MinutesHandler.Update)
		minutes.DELETE("/:id", cfg.MinutesHandler.Delete)
	}

	maternal := protected.Group("/maternal")
	maternal.Use(cfg.AuthMiddleware.RequireRole(types.RoleHealth))
	{
		maternal.POST("/pregnancies", cfg.MaternalHandler.RegisterPregnancy)
		maternal.GET("/pregnancies/grouped", cfg.MaternalHandler.Grouped)
		maternal.GET("/pregnancies/:id", cfg.MaternalHandler.GetPregnancy)
		maternal.POST("/pregnancies/:id/records", cfg.MaternalHandler.AddRecord)
		maternal.POST("/pregnancies/:id/complete", cfg.MaternalHandler.MarkCompleted)
		maternal.POST("/pregnancies/:id/loss", cfg.MaternalHandler.MarkLoss)
	}

	medicine := protected.Group("/medicine")
	medicine.Use(cfg.AuthMiddleware.RequireRole(types.RoleHealth, types.RoleStaff))
	{
		medicine.POST("/items", cfg.MedicineHandler.CreateItem)
		medicine.GET("/items", cfg.MedicineHandler.ListItems)
		medicine.GET("/items/:id", cfg.MedicineHandler.GetItem)
		medicine.PUT("/items/:id", cfg.MedicineHandler.UpdateItem)
		medicine.DELETE("/items/:id", cfg.MedicineHandler.DeleteItem)

		medicine.GET("/draft", cfg.MedicineHandler.GetDraft)
		medicine.PUT("/draft", cfg.MedicineHandler.SaveDraft)
		medicine.DELETE("/draft", cfg.MedicineHandler.ClearDraft)

		medicine.POST("/requests", cfg.MedicineHandler.SubmitRequest)
		medicine.GET("/requests", cfg.MedicineHandler.ListRequests)
		medicine.GET("/requests/:id", cfg.MedicineHandler.GetRequest)
		medicine.POST("/requests/:id/approve", cfg.MedicineHandler.ApproveRequest)
		medicine.POST("/requests/:id/release", cfg.MedicineHandler.ReleaseRequest)
		medicine.POST("/requests/:id/reject", cfg.MedicineHandler.RejectRequest)
	}

	summons := protected.Group("/summons")
	summons.Use(cfg.AuthMiddleware.RequireRole(types.RoleSecretary, types.RoleStaff))
	{
		summons.POST("/cases", cfg.SummonHandler.FileCase)
		summons.GET("/cases", cfg.SummonHandler.List)
		summons.GET("/cases/:id", cfg.SummonHandler.Get)
		summons.POST("/cases/:id/hearings", cfg.SummonHandler.ScheduleHearing)
		summons.PUT("/cases/:id/hearings/:hearingId", cfg.SummonHandler.RecordOutcome)
		summons.POST("/cases/:id/settle", cfg.SummonHandler.Settle)
		summons.POST("/cases/:id/escalate", cfg.SummonHandler.Escalate)
		summons.GET("/cases/:id/notice", cfg.SummonHandler.Notice)
	}

	treasury := protected.Group("/treasury")
	treasury.Use(cfg.AuthMiddleware.RequireRole(types.RoleTreasurer))
	{
		treasury.POST("/albums", cfg.TreasuryHandler.CreateAlbum)
		treasury.GET("/albums", cfg.TreasuryHandler.ListAlbums)
		treasury.GET("/albums/:id", cfg.TreasuryHandler.GetAlbum)
		treasury.PUT("/albums/:id", cfg.TreasuryHandler.UpdateAlbum)
		treasury.DELETE("/albums/:id", cfg.TreasuryHandler.DeleteAlbum)
		treasury.POST("/albums/:id/documents", cfg.TreasuryHandler.AddDocument)
		treasury.GET("/albums/:id/documents", cfg.TreasuryHandler.ListDocuments)
		treasury.DELETE("/albums/:id/documents/:docId", cfg.TreasuryHandler.DeleteDocument)
	}

	return router
}
