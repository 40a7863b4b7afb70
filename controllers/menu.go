// controllers/menu.go
package controllers

import (
	"net/http"

	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Menu *services.MenuService
}

// GetMenu returns available items, optionally for one category
func (mc *MenuController) GetMenu(c *gin.Context) {
	items, err := mc.Menu.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (mc *MenuController) GetMenuItem(c *gin.Context) {
	item, err := mc.Menu.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (mc *MenuController) GetCategories(c *gin.Context) {
	categories, err := mc.Menu.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Admin endpoints

func (mc *MenuController) AdminGetMenu(c *gin.Context) {
	items, err := mc.Menu.AdminList(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var input services.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item, err := mc.Menu.CreateItem(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var input services.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item, err := mc.Menu.UpdateItem(c.Request.Context(), principal(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem hides the item; order history keeps its snapshot
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	if err := mc.Menu.DeleteItem(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item removed successfully"})
}

func (mc *MenuController) CreateCategory(c *gin.Context) {
	var input services.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	category, err := mc.Menu.CreateCategory(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}
