package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(securityHeaders())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Not found"})
	})

	health := NewHealthController(cfg.Database, cfg.Queue, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	members := NewMembersController(cfg.Members)
	api.GET("/students", members.ListStudents)
	api.POST("/students", members.CreateStudent)
	api.GET("/students/list", members.ListStudentOptions)
	api.DELETE("/students/:id", members.DeleteStudent)
	api.PATCH("/students/:id/billing", members.UpdateBilling)
	api.GET("/subscriptions", members.ListSubscriptions)
	api.POST("/subscriptions", members.CreateSubscription)
	api.POST("/enroll-student", members.Enroll)

	catalog := NewCatalogController(cfg.Catalog)
	api.GET("/books", catalog.ListBooks)
	api.POST("/books", catalog.CreateBook)
	api.GET("/books/available", catalog.ListAvailableBooks)
	api.GET("/subscription-plans", catalog.ListPlans)
	api.POST("/subscription-plans", catalog.CreatePlan)

	checkouts := NewCheckoutsController(cfg.Lending)
	api.GET("/checkouts", checkouts.List)
	api.POST("/checkouts", checkouts.Create)
	api.PATCH("/checkouts/:id/return", checkouts.Return)

	billing := NewBillingController(cfg.Billing)
	api.GET("/fees", billing.ListFees)
	api.POST("/fees", billing.CreateFee)
	api.GET("/payments", billing.ListPayments)
	api.POST("/payments", billing.CreatePayment)
	api.PATCH("/payments/:id/mark-pending", billing.MarkPaymentPending)

	dashboard := NewDashboardController(cfg.Dashboard, cfg.Renewals)
	api.GET("/dashboard/stats", dashboard.Stats)
	api.GET("/dashboard/revenue", dashboard.Revenue)
	api.GET("/dashboard/recent-students", dashboard.RecentStudents)
	api.GET("/dashboard/upcoming-fees", dashboard.UpcomingFees)
	api.GET("/dashboard/students-with-fees", dashboard.StudentsWithFees)
	api.GET("/renewal-reminders", dashboard.RenewalReminders)

	if cfg.Reminders != nil {
		reminders := NewRemindersController(cfg.Reminders)
		api.POST("/reminders/run", reminders.Run)
		api.GET("/reminders/status", reminders.Status)
	}

	if cfg.Tasks != nil {
		tasks := NewTasksController(cfg.Tasks)
		api.GET("/tasks/:id", tasks.GetTaskStatus)
	}

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}

// securityHeaders sets conservative headers on every API response.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
