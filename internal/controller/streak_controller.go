package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StreakController 每日挑战
type StreakController struct {
	DailyService   *service.DailyQuestionService
	AnswerService  *service.AnswerService
	StreakService  *service.StreakService
	StudentService *service.StudentService
}

func NewStreakController(
	dailyService *service.DailyQuestionService,
	answerService *service.AnswerService,
	streakService *service.StreakService,
	studentService *service.StudentService,
) *StreakController {
	return &StreakController{
		DailyService:   dailyService,
		AnswerService:  answerService,
		StreakService:  streakService,
		StudentService: studentService,
	}
}

// Today godoc
// @Summary 今日挑战
// @Description 今天排课科目的题目；未作答时不含答案。没有排课时 available=false
// @Tags 每日挑战
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ChallengeDay}
// @Failure 401 {object} util.Response
// @Router /api/streak/today [get]
func (c *StreakController) Today(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	day, err := c.DailyService.TodayChallenge(ctx.Request.Context(), student.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, day)
}

// Week godoc
// @Summary 本周挑战
// @Description 本周（周日起）到今天每一天的题目与作答情况，漏答的日期可以补答
// @Tags 每日挑战
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ChallengeDay}
// @Router /api/streak/week [get]
func (c *StreakController) Week(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	days, err := c.DailyService.WeekChallenges(ctx.Request.Context(), student.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, days)
}

// Answer godoc
// @Summary 提交答案
// @Description 今天答对 200 分、答错 100 分；补答本周更早的日期 100 分
// @Tags 每日挑战
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.AnswerRequest true "作答"
// @Success 200 {object} util.Response{data=model.StreakRecord}
// @Failure 400 {object} util.Response "选项或日期非法"
// @Failure 404 {object} util.Response "当天没有题目"
// @Router /api/streak/answer [post]
func (c *StreakController) Answer(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	var req service.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rec, err := c.AnswerService.AnswerChallenge(ctx.Request.Context(), student.ID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rec)
}

// Summary godoc
// @Summary 连续作答概况
// @Description 同时返回按记录重算的值和存储的值
// @Tags 每日挑战
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StreakSummary}
// @Router /api/streak/summary [get]
func (c *StreakController) Summary(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	summary, err := c.StreakService.Summary(ctx.Request.Context(), student.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
