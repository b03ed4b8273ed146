package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/courseport/courseport/internal/app/controllers"
	"github.com/courseport/courseport/internal/app/models/dto"
	"github.com/courseport/courseport/internal/middleware"
	"github.com/courseport/courseport/internal/pkg/metrics"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	internshipController *controllers.InternshipController,
	instructorController *controllers.InstructorController,
	reviewController *controllers.ReviewController,
	enrollmentController *controllers.EnrollmentController,
	applicationController *controllers.ApplicationController,
	managerController *controllers.ManagerController,
	uploadController *controllers.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cache *middleware.ResponseCache,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	// Catalog reads go through the response cache when it is enabled.
	catalog := v1.Group("")
	if cache != nil {
		catalog.Use(cache.Middleware())
	}
	{
		catalog.GET("/courses", courseController.List)
		catalog.GET("/courses/:id", courseController.Get)
		catalog.GET("/courses/:id/reviews", reviewController.ListByCourse)
		catalog.GET("/internships", internshipController.List)
		catalog.GET("/internships/:id", internshipController.Get)
		catalog.GET("/instructors", instructorController.List)
		catalog.GET("/instructors/:id", instructorController.Get)
	}

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		// Candidate enrollment routes
		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.GET("/my", enrollmentController.ListMine)
			enrollments.GET("/status/:courseId", enrollmentController.StatusForCourse)
			enrollments.POST("/:id/payment", enrollmentController.SubmitPayment)
			enrollments.DELETE("/:id", enrollmentController.Cancel)
		}

		// Candidate application routes
		applications := authenticated.Group("/applications")
		{
			applications.POST("", applicationController.Apply)
			applications.GET("/my", applicationController.ListMine)
			applications.DELETE("/:id", applicationController.Withdraw)
		}

		// Reviews
		authenticated.POST("/courses/:id/reviews", reviewController.Create)
		authenticated.DELETE("/reviews/:id", reviewController.Delete)

		// Uploads
		authenticated.POST("/uploads/payment-proof", uploadController.UploadPaymentProof)

		// --- Manager routes ---
		manager := authenticated.Group("/manager")
		manager.Use(authMiddleware.ManagerRequired())
		{
			// Catalog maintenance
			manager.POST("/courses", courseController.Create)
			manager.PUT("/courses/:id", courseController.Update)
			manager.DELETE("/courses/:id", courseController.Delete)

			manager.POST("/internships", internshipController.Create)
			manager.PUT("/internships/:id", internshipController.Update)
			manager.DELETE("/internships/:id", internshipController.Delete)

			manager.POST("/instructors", instructorController.Create)
			manager.PUT("/instructors/:id", instructorController.Update)
			manager.DELETE("/instructors/:id", instructorController.Delete)

			// Application review
			manager.GET("/applications", applicationController.List)
			manager.GET("/applications/:id", applicationController.Get)
			manager.POST("/applications/:id/accept", applicationController.Accept)
			manager.POST("/applications/:id/reject", applicationController.Reject)

			// Manager administration
			manager.POST("/managers", managerController.Create)
			manager.GET("/managers", managerController.List)
			manager.PUT("/managers/:id/permission", managerController.UpdatePermission)
			manager.DELETE("/managers/:id", managerController.Delete)

			// Enrollment review requires the extra permission flag
			managerEnrollments := manager.Group("/enrollments")
			managerEnrollments.Use(authMiddleware.EnrollmentPermissionRequired())
			{
				managerEnrollments.GET("", enrollmentController.List)
				managerEnrollments.GET("/:id", enrollmentController.Get)
				managerEnrollments.PUT("/:id/approve", enrollmentController.Approve)
				managerEnrollments.PUT("/:id/accept", enrollmentController.Accept)
				managerEnrollments.PUT("/:id/reject", enrollmentController.Reject)
				managerEnrollments.DELETE("/:id/unenroll", enrollmentController.Unenroll)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}

// SetupMetrics mounts the Prometheus scrape endpoint.
func SetupMetrics(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
