package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
	StudentService     *service.StudentService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService, studentService *service.StudentService) *LeaderboardController {
	return &LeaderboardController{
		LeaderboardService: leaderboardService,
		StudentService:     studentService,
	}
}

// Leaderboard godoc
// @Summary 排行榜
// @Description 按积分降序；学生有学校编码时只显示同校学生
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Leaderboard(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	entries, err := c.LeaderboardService.BuildLeaderboard(ctx.Request.Context(), student.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// AdminLeaderboard godoc
// @Summary 全站排行榜（管理员）
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/admin/leaderboard [get]
func (c *LeaderboardController) AdminLeaderboard(ctx *gin.Context) {
	entries, err := c.LeaderboardService.BuildLeaderboard(ctx.Request.Context(), 0)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
