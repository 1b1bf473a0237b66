package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tam/internal/app/controllers"
	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/models/dto"
	"github.com/yigit/tam/internal/middleware"
	"github.com/yigit/tam/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Checkin      *controllers.CheckinController
	Payment      *controllers.PaymentController
	Export       *controllers.ExportController
	Notification *controllers.NotificationController
	LiveFeed     *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewStructuredResponse(gin.H{"status": "ok"}, "Service is healthy"))
	})

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	events := v1.Group("/events")
	{
		events.GET("", c.Event.ListActiveEvents)
		events.GET("/:id", c.Event.GetEvent)
		events.POST("/:id/registrations", c.Registration.Register)
	}

	v1.GET("/registrations/:id", c.Registration.GetRegistration)

	// Door scanners post here without a console session
	v1.POST("/checkin", c.Checkin.CheckIn)

	// --- Admin console ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(string(models.RoleAdmin)))

	adminEvents := admin.Group("/events")
	{
		adminEvents.GET("", c.Event.ListAllEvents)
		adminEvents.POST("", c.Event.CreateEvent)
		adminEvents.PUT("/:id", c.Event.UpdateEvent)
		adminEvents.DELETE("/:id", c.Event.DeleteEvent)
		adminEvents.PATCH("/:id/toggle", c.Event.ToggleEvent)
		adminEvents.POST("/:id/poster", c.Event.UploadPoster)
		adminEvents.GET("/:id/stats", c.Event.EventStats)
	}

	adminRegistrations := admin.Group("/registrations")
	{
		adminRegistrations.GET("", c.Registration.ListRegistrations)
		adminRegistrations.POST("/export", c.Export.ExportRegistrations)
		adminRegistrations.GET("/pending-cash", c.Registration.ListPendingCash)
		adminRegistrations.PUT("/:id", c.Registration.UpdateRegistration)
	}

	payments := admin.Group("/payments")
	{
		payments.POST("/:id/approve", c.Payment.ApprovePayment)
		payments.POST("/:id/reject", c.Payment.RejectPayment)
	}

	checkins := admin.Group("/checkins")
	{
		checkins.GET("", c.Checkin.ListCheckins)
		checkins.POST("/export", c.Export.ExportCheckins)
		checkins.GET("/live", c.LiveFeed.HandleConnection)
	}

	admin.POST("/notifications/confirmation", c.Notification.ResendConfirmation)
}
