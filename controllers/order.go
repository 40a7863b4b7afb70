// controllers/order.go
package controllers

import (
	"net/http"
	"time"

	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UpdateStatusInput struct {
	Status string `json:"status"`
}

type OrderController struct {
	Orders   *services.OrderService
	Timezone *time.Location
}

// CreateOrder is the public order form endpoint
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders lists orders newest first, filtered by location, status and creation date
func (oc *OrderController) GetOrders(c *gin.Context) {
	var filter services.OrderFilter

	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid location_id")
			return
		}
		filter.LocationID = &id
	}
	filter.Status = c.Query("status")

	if raw := c.Query("date_from"); raw != "" {
		from, err := parseBound(raw, oc.timezone(), false)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date_from")
			return
		}
		filter.From = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := parseBound(raw, oc.timezone(), true)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date_to")
			return
		}
		filter.To = &to
	}

	orders, err := oc.Orders.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.Orders.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), principal(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) timezone() *time.Location {
	if oc.Timezone == nil {
		return time.UTC
	}
	return oc.Timezone
}

// parseBound accepts RFC3339 or a plain date. A plain upper bound covers the whole day.
func parseBound(raw string, loc *time.Location, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	day, err := time.ParseInLocation(utils.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return utils.EndOfDay(day), nil
	}
	return utils.BeginningOfDay(day), nil
}
