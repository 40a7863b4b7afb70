// controllers/location.go
package controllers

import (
	"net/http"

	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
)

type LocationController struct {
	Locations *services.LocationService
}

func (lc *LocationController) GetLocations(c *gin.Context) {
	locations, err := lc.Locations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (lc *LocationController) AdminGetLocations(c *gin.Context) {
	locations, err := lc.Locations.AdminList(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (lc *LocationController) CreateLocation(c *gin.Context) {
	var input services.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	location, err := lc.Locations.Create(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (lc *LocationController) UpdateLocation(c *gin.Context) {
	var input services.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	location, err := lc.Locations.Update(c.Request.Context(), principal(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, location)
}
