package controllers

import (
	"net/http"

	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
)

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindInvalid:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case services.KindUnavailable:
		return http.StatusServiceUnavailable
	case services.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a domain error as {"error", "code", "details"}. Anything else becomes a bare 500.
func respondError(c *gin.Context, err error) {
	e, ok := services.AsError(err)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	body := gin.H{"error": e.Message, "code": e.Code}
	if e.Details != nil {
		body["details"] = e.Details
	}
	c.AbortWithStatusJSON(statusFor(e.Kind), body)
}

// principal returns the admin set by utils.AuthMiddleware, or nil on public routes.
func principal(c *gin.Context) *services.Principal {
	userID := c.GetString(utils.ContextUserID)
	if userID == "" {
		return nil
	}
	return &services.Principal{UserID: userID, Email: c.GetString(utils.ContextEmail)}
}
