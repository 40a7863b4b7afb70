// controllers/reminder.go
package controllers

import (
	"net/http"

	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	Reminders *services.ReminderService
}

// RunReminders sends tomorrow's reservation reminders now instead of waiting for the cron job
func (rc *ReminderController) RunReminders(c *gin.Context) {
	if principal(c) == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sent, err := rc.Reminders.SendDailyReminders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
