package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardController serves the summary widgets of the back office.
type DashboardController struct {
	dashboard Dashboard
	renewals  Renewals
}

func NewDashboardController(dashboard Dashboard, renewals Renewals) *DashboardController {
	return &DashboardController{dashboard: dashboard, renewals: renewals}
}

// Stats handles GET /api/dashboard/stats
func (dc *DashboardController) Stats(c *gin.Context) {
	stats, err := dc.dashboard.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Revenue handles GET /api/dashboard/revenue
func (dc *DashboardController) Revenue(c *gin.Context) {
	revenue, err := dc.dashboard.Revenue(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch revenue")
		return
	}
	c.JSON(http.StatusOK, revenue)
}

// RecentStudents handles GET /api/dashboard/recent-students
func (dc *DashboardController) RecentStudents(c *gin.Context) {
	students, err := dc.dashboard.RecentStudents(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch recent students")
		return
	}
	c.JSON(http.StatusOK, students)
}

// UpcomingFees handles GET /api/dashboard/upcoming-fees
func (dc *DashboardController) UpcomingFees(c *gin.Context) {
	fees, err := dc.dashboard.UpcomingFees(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch upcoming fees")
		return
	}
	c.JSON(http.StatusOK, fees)
}

// StudentsWithFees handles GET /api/dashboard/students-with-fees
func (dc *DashboardController) StudentsWithFees(c *gin.Context) {
	rows, err := dc.dashboard.StudentsWithFees(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch students with fees")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// RenewalReminders handles GET /api/renewal-reminders
func (dc *DashboardController) RenewalReminders(c *gin.Context) {
	reminders, err := dc.renewals.Upcoming(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch renewal reminders")
		return
	}
	c.JSON(http.StatusOK, reminders)
}
