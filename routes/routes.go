package routes

import (
	"application-tracking-api/controllers"
	"application-tracking-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"success": true,
					"message": "Application Tracking API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Catalog browse (read-only mirror)
			catalog := protected.Group("/catalog")
			{
				catalog.GET("/scholarships", controllers.ListCatalogScholarships)
				catalog.GET("/institutions", controllers.ListCatalogInstitutions)
			}

			// Scholarship tracking
			scholarships := protected.Group("/scholarship-tracking")
			{
				scholarships.GET("/dashboard", controllers.GetScholarshipDashboard)

				applications := scholarships.Group("/applications")
				{
					applications.GET("", controllers.ListScholarshipTracking)
					applications.POST("", controllers.CreateScholarshipTracking)
					applications.GET("/:id", controllers.GetScholarshipTracking)
					applications.PUT("/:id", controllers.UpdateScholarshipTracking)
					applications.DELETE("/:id", controllers.DeleteScholarshipTracking)

					// Quick status actions
					applications.POST("/:id/mark-submitted", controllers.MarkScholarshipSubmitted)
					applications.POST("/:id/mark-accepted", controllers.MarkScholarshipAccepted)
					applications.POST("/:id/mark-rejected", controllers.MarkScholarshipRejected)
				}
			}

			// College tracking
			colleges := protected.Group("/college-tracking")
			{
				colleges.GET("/dashboard", controllers.GetCollegeDashboard)

				applications := colleges.Group("/applications")
				{
					applications.GET("", controllers.ListCollegeTracking)
					applications.POST("", controllers.CreateCollegeTracking)
					applications.GET("/:id", controllers.GetCollegeTracking)
					applications.PUT("/:id", controllers.UpdateCollegeTracking)
					applications.DELETE("/:id", controllers.DeleteCollegeTracking)

					// Quick status actions
					applications.POST("/:id/mark-submitted", controllers.MarkCollegeSubmitted)
					applications.POST("/:id/mark-accepted", controllers.MarkCollegeAccepted)
					applications.POST("/:id/mark-rejected", controllers.MarkCollegeRejected)
					applications.POST("/:id/mark-waitlisted", controllers.MarkCollegeWaitlisted)
				}
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/count", controllers.GetNotificationCounter)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/catalog/reload", controllers.ReloadCatalog)
			}
		}
	}
}
