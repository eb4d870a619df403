package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService    *service.QuizService
	StudentService *service.StudentService
}

func NewQuizController(quizService *service.QuizService, studentService *service.StudentService) *QuizController {
	return &QuizController{
		QuizService:    quizService,
		StudentService: studentService,
	}
}

// SubmitQuizRequest 题目下标 -> 选项
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// ListOpen godoc
// @Summary 开放中的测验
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.QuizView}
// @Router /api/quizzes [get]
func (c *QuizController) ListOpen(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	quizzes, err := c.QuizService.ListOpen(ctx.Request.Context(), student.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Get godoc
// @Summary 获取测验题目
// @Description 不含答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 403 {object} util.Response "测验未开放"
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.QuizService.GetForStudent(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Submit godoc
// @Summary 提交测验
// @Description 每个测验只能提交一次
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body SubmitQuizRequest true "答案"
// @Success 201 {object} util.Response{data=service.QuizResult}
// @Failure 409 {object} util.Response "已提交过"
// @Router /api/quizzes/{id}/attempts [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitAttempt(ctx.Request.Context(), id, student.ID, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// MyAttempts godoc
// @Summary 我的测验记录
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/attempts/me [get]
func (c *QuizController) MyAttempts(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	attempts, err := c.QuizService.MyAttempts(ctx.Request.Context(), student.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// AdminList godoc
// @Summary 测验列表（管理）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/admin/quizzes [get]
func (c *QuizController) AdminList(ctx *gin.Context) {
	quizzes, err := c.QuizService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Create godoc
// @Summary 创建测验
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuizRequest true "测验"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "题目格式错误"
// @Router /api/admin/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Update godoc
// @Summary 更新测验
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QuizRequest true "测验"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary 删除测验
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := c.QuizService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Attempts godoc
// @Summary 测验提交记录（管理）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/admin/quizzes/{id}/attempts [get]
func (c *QuizController) Attempts(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.QuizService.Attempts(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
