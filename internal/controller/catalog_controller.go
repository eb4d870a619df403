package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CatalogController 科目与题库管理
type CatalogController struct {
	SubjectService  *service.SubjectService
	QuestionService *service.QuestionService
}

func NewCatalogController(subjectService *service.SubjectService, questionService *service.QuestionService) *CatalogController {
	return &CatalogController{
		SubjectService:  subjectService,
		QuestionService: questionService,
	}
}

// ListSubjects godoc
// @Summary 科目列表
// @Description 每个科目排在一周中的某一天
// @Tags 题库
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.SubjectService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// CreateSubject godoc
// @Summary 创建科目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubjectRequest true "科目"
// @Success 201 {object} util.Response{data=model.Subject}
// @Failure 400 {object} util.Response "scheduledDay 非法"
// @Router /api/admin/subjects [post]
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// UpdateSubject godoc
// @Summary 更新科目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "科目ID"
// @Param   body body service.SubjectRequest true "科目"
// @Success 200 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects/{id} [put]
func (c *CatalogController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// DeleteSubject godoc
// @Summary 删除科目
// @Description 科目下的题目不会被删除
// @Tags 题库
// @Security ApiKeyAuth
// @Param   id path int true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/subjects/{id} [delete]
func (c *CatalogController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SubjectService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListQuestions godoc
// @Summary 科目题目列表
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "科目ID"
// @Success 200 {object} util.Response{data=[]service.QuestionView}
// @Router /api/admin/subjects/{id}/questions [get]
func (c *CatalogController) ListQuestions(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.QuestionService.ListBySubject(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 新增题目
// @Description options 支持 {"a".."d"}、{"A".."D"}、数字键或长度为 4 的数组
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "科目ID"
// @Param   body body service.QuestionRequest true "题目"
// @Success 201 {object} util.Response{data=service.QuestionView}
// @Failure 400 {object} util.Response "题目格式错误"
// @Router /api/admin/subjects/{id}/questions [post]
func (c *CatalogController) CreateQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Create(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// GetQuestion godoc
// @Summary 题目详情
// @Tags 题库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionView}
// @Router /api/admin/questions/{id} [get]
func (c *CatalogController) GetQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	q, err := c.QuestionService.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body service.QuestionRequest true "题目"
// @Success 200 {object} util.Response{data=service.QuestionView}
// @Router /api/admin/questions/{id} [put]
func (c *CatalogController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 题库
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *CatalogController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuestionService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadImage godoc
// @Summary 上传题目图片
// @Description 返回可以直接写进题干 HTML 的地址
// @Tags 题库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "图片"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "格式或大小不符"
// @Router /api/admin/uploads/image [post]
func (c *CatalogController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "请选择要上传的图片")
		return
	}

	url, err := c.QuestionService.UploadImage(ctx.Request.Context(), file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
