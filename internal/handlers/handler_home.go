package handlers

import (
	"net/http"

	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} dto.Response
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OKMessage("Invoice management API v1"))
}

func getHealth(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}
