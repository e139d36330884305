package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docinsight-be/types"
	"github.com/tieubaoca/docinsight-be/utils"
)

type LoginHandler interface {
	HandleLogin(c *gin.Context)
}

type loginHandler struct {
	adminUsername string
	adminPassword string
}

func NewLoginHandler(adminUsername, adminPassword string) LoginHandler {
	return &loginHandler{
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

func (h *loginHandler) HandleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if h.adminPassword == "" {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: "Admin credentials not configured",
		})
		return
	}
	if req.Username != h.adminUsername || req.Password != h.adminPassword {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid credentials",
		})
		return
	}

	token, err := utils.GenerateAdminToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: map[string]string{
			"access_token": token,
		},
	})
}
