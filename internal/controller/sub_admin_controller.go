package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubAdminController struct {
	SubAdminService *service.SubAdminService
}

func NewSubAdminController(subAdminService *service.SubAdminService) *SubAdminController {
	return &SubAdminController{SubAdminService: subAdminService}
}

// Create godoc
// @Summary 创建子管理员
// @Description 权限可选 catalog/quizzes/events/inquiries，不传则全部授予
// @Tags 子管理员
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubAdminRequest true "子管理员"
// @Success 201 {object} util.Response{data=model.SubAdmin}
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/admin/sub-admins [post]
func (c *SubAdminController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sa, err := c.SubAdminService.Create(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, sa)
}

// List godoc
// @Summary 子管理员列表
// @Tags 子管理员
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.SubAdmin}
// @Router /api/admin/sub-admins [get]
func (c *SubAdminController) List(ctx *gin.Context) {
	list, err := c.SubAdminService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// UpdatePermissions godoc
// @Summary 修改子管理员权限
// @Description 整体替换权限，可选 catalog/quizzes/events/inquiries，空数组收回全部权限
// @Tags 子管理员
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "子管理员ID"
// @Param   body body service.PermissionsRequest true "权限"
// @Success 200 {object} util.Response{data=model.SubAdmin}
// @Failure 400 {object} util.Response "权限名非法"
// @Failure 404 {object} util.Response "子管理员不存在"
// @Router /api/admin/sub-admins/{id} [put]
func (c *SubAdminController) UpdatePermissions(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.PermissionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sa, err := c.SubAdminService.UpdatePermissions(ctx.Request.Context(), id, req.Permissions)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sa)
}

// Delete godoc
// @Summary 删除子管理员
// @Description 同时删除其登录账号
// @Tags 子管理员
// @Security ApiKeyAuth
// @Param   id path int true "子管理员ID"
// @Success 200 {object} util.Response
// @Router /api/admin/sub-admins/{id} [delete]
func (c *SubAdminController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SubAdminService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
