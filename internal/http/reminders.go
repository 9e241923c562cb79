package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/scheduler"
)

// RemindersController triggers and reports fee reminder sweeps.
type RemindersController struct {
	trigger ReminderTrigger
}

func NewRemindersController(trigger ReminderTrigger) *RemindersController {
	return &RemindersController{trigger: trigger}
}

// Run handles POST /api/reminders/run
// Performs a sweep synchronously and returns its counts.
func (rc *RemindersController) Run(c *gin.Context) {
	result, err := rc.trigger.RunNow()
	if errors.Is(err, scheduler.ErrSweepInProgress) {
		c.JSON(http.StatusConflict, ErrorResponse{Message: "A reminder sweep is already running"})
		return
	}
	if err != nil {
		respondInternalError(c, err, "Failed to run fee reminders")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Status handles GET /api/reminders/status
func (rc *RemindersController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"lastRun": rc.trigger.LastRun(),
		"nextRun": rc.trigger.GetNextRunTime(),
	})
}
