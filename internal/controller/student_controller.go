package controller

import (
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService *service.StudentService
}

func NewStudentController(studentService *service.StudentService) *StudentController {
	return &StudentController{StudentService: studentService}
}

// currentStudent 取当前登录学生，失败时已写入响应
func currentStudent(ctx *gin.Context, students *service.StudentService) (*model.Student, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	student, err := students.ByUserID(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	return student, true
}

// GetProfile godoc
// @Summary 获取个人资料
// @Description 学生资料、连续作答天数、积分和徽章
// @Tags 学生
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response "学生资料不存在"
// @Router /api/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.StudentService.Profile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 学生
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ProfileUpdateRequest true "资料，空字段不修改"
// @Success 200 {object} util.Response{data=model.Student}
// @Router /api/profile [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	student, err := c.StudentService.UpdateProfile(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, student)
}

// ListStudents godoc
// @Summary 学生列表（管理员）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Student}
// @Router /api/admin/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	students, err := c.StudentService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, students)
}
