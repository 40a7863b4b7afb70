// controllers/reservation.go
package controllers

import (
	"net/http"

	"eataliano-backend/models"
	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationResponse struct {
	*models.Reservation
	Message string `json:"message"`
}

type ReservationController struct {
	Reservations *services.ReservationService
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var input services.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := rc.Reservations.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ReservationResponse{Reservation: result.Reservation, Message: result.Message})
}

// GetReservations lists reservations by date then time, with an inclusive date range
func (rc *ReservationController) GetReservations(c *gin.Context) {
	filter := services.ReservationFilter{
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid location_id")
			return
		}
		filter.LocationID = &id
	}
	if filter.DateFrom != "" && !utils.IsDateLiteral(filter.DateFrom) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date_from")
		return
	}
	if filter.DateTo != "" && !utils.IsDateLiteral(filter.DateTo) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date_to")
		return
	}

	reservations, err := rc.Reservations.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reservation, err := rc.Reservations.UpdateStatus(c.Request.Context(), principal(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}
