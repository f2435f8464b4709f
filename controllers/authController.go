package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/balcao/backend/apperr"
	"github.com/balcao/backend/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user, err := h.repos.Users.FindByUsername(ctx, input.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if user == nil || utils.VerifyPassword(user.Password, input.Password) != nil {
		h.log.Warn("login rejected", zap.String("username", input.Username), zap.String("client_ip", c.ClientIP()))
		h.respondError(c, apperr.ErrInvalidCredentials)
		return
	}

	token, expires, err := h.issuer.GenerateToken(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while generating token"})
		return
	}

	c.SetCookie("token", token, int(time.Until(expires).Seconds()), "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"expires_at":  expires,
		"user_id":     user.ID.Hex(),
		"role":        user.Role,
		"employee_id": user.EmployeeID,
	})
}
