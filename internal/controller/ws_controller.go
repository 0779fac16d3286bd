package controller

import (
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WSController struct {
	Hub *service.VideoStatusHub
}

func NewWSController(hub *service.VideoStatusHub) *WSController {
	return &WSController{Hub: hub}
}

// VideoStatus godoc
// @Summary 视频状态推送通道
// @Description 升级为WebSocket连接，服务端按 videoId 推送状态事件
// @Tags 视频
// @Success 101 "Switching Protocols"
// @Security BearerAuth
// @Router /api/ws/video-status [get]
func (wc *WSController) VideoStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(wc.Hub, ctx.Writer, ctx.Request, claims.UserID)
}
