package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/phoenixvc/chaufher/internal/handler"
	"github.com/phoenixvc/chaufher/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler     *handler.UserHandler
	RideHandler     *handler.RideHandler
	DriverHandler   *handler.DriverHandler
	DocumentHandler *handler.DocumentHandler
	PaymentHandler  *handler.PaymentHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.RegisterUser)
			users.GET("/:id", deps.UserHandler.GetUser)
			users.PUT("/:id/profile", deps.UserHandler.UpdateProfile)
			users.PUT("/:id/notifications", deps.UserHandler.UpdateNotificationPreferences)
			users.POST("/:id/deactivate", deps.UserHandler.DeactivateUser)
			users.POST("/:id/reactivate", deps.UserHandler.ReactivateUser)
		}

		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.GET("/number/:number", deps.RideHandler.GetRideByNumber)
			rides.POST("/:id/assign", deps.RideHandler.AssignDriver)
			rides.POST("/:id/no-driver", deps.RideHandler.NoDriverFound)
			rides.POST("/:id/en-route", deps.RideHandler.DriverEnRoute)
			rides.POST("/:id/arrived", deps.RideHandler.DriverArrived)
			rides.POST("/:id/start", deps.RideHandler.StartRide)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.POST("/:id/rate", deps.RideHandler.RateRide)
			rides.GET("/:id/payment", deps.PaymentHandler.GetRidePayment)
		}

		riders := v1.Group("/riders")
		{
			riders.GET("/:id/rides", deps.RideHandler.ListByRider)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.RegisterDriver)
			drivers.GET("/search", deps.DriverHandler.SearchDrivers)
			drivers.GET("/pending-review", deps.DriverHandler.PendingReview)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.GET("/:id/rides", deps.RideHandler.ListByDriver)
			drivers.POST("/:id/submit-documents", deps.DriverHandler.SubmitDocuments)
			drivers.POST("/:id/start-review", deps.DriverHandler.StartReview)
			drivers.POST("/:id/approve", deps.DriverHandler.ApproveDriver)
			drivers.POST("/:id/reject", deps.DriverHandler.RejectDriver)
			drivers.POST("/:id/suspend", deps.DriverHandler.SuspendDriver)
			drivers.POST("/:id/online", deps.DriverHandler.GoOnline)
			drivers.POST("/:id/offline", deps.DriverHandler.GoOffline)
			drivers.POST("/:id/available", deps.DriverHandler.SetAvailable)
			drivers.PUT("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.POST("/:id/windows", deps.DriverHandler.AddWindow)
			drivers.GET("/:id/windows", deps.DriverHandler.ListWindows)
			drivers.GET("/:id/documents", deps.DocumentHandler.ListByDriver)
			drivers.GET("/:id/payouts", deps.PaymentHandler.DriverPayouts)
		}

		windows := v1.Group("/windows")
		{
			windows.PUT("/:id", deps.DriverHandler.UpdateWindow)
			windows.DELETE("/:id", deps.DriverHandler.DeleteWindow)
		}

		documents := v1.Group("/documents")
		{
			documents.POST("", deps.DocumentHandler.UploadDocument)
			documents.GET("/expiring", deps.DocumentHandler.ListExpiring)
			documents.GET("/:id", deps.DocumentHandler.GetDocument)
			documents.POST("/:id/approve", deps.DocumentHandler.ApproveDocument)
			documents.POST("/:id/reject", deps.DocumentHandler.RejectDocument)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
			payments.POST("/:id/processing", deps.PaymentHandler.MarkProcessing)
			payments.POST("/:id/succeeded", deps.PaymentHandler.MarkSucceeded)
			payments.POST("/:id/failed", deps.PaymentHandler.MarkFailed)
			payments.POST("/:id/refund", deps.PaymentHandler.RefundPayment)
		}
	}

	return router
}
