package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EventController 讲座与工作坊
type EventController struct {
	EventService *service.EventService
}

func NewEventController(eventService *service.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// PublicWebinars godoc
// @Summary 讲座列表
// @Description 已发布的讲座，按即将开始/往期分组
// @Tags 活动
// @Produce  json
// @Success 200 {object} util.Response{data=service.WebinarListing}
// @Router /api/webinars [get]
func (c *EventController) PublicWebinars(ctx *gin.Context) {
	listing, err := c.EventService.PublicWebinars(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, listing)
}

// PublicWorkshops godoc
// @Summary 工作坊列表
// @Tags 活动
// @Produce  json
// @Success 200 {object} util.Response{data=service.WorkshopListing}
// @Router /api/workshops [get]
func (c *EventController) PublicWorkshops(ctx *gin.Context) {
	listing, err := c.EventService.PublicWorkshops(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, listing)
}

// ListWebinars godoc
// @Summary 讲座列表（管理，含未发布）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Webinar}
// @Router /api/admin/webinars [get]
func (c *EventController) ListWebinars(ctx *gin.Context) {
	list, err := c.EventService.ListWebinars(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// CreateWebinar godoc
// @Summary 创建讲座
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.WebinarRequest true "讲座"
// @Success 201 {object} util.Response{data=model.Webinar}
// @Router /api/admin/webinars [post]
func (c *EventController) CreateWebinar(ctx *gin.Context) {
	var req service.WebinarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	w, err := c.EventService.SaveWebinar(ctx.Request.Context(), 0, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, w)
}

// UpdateWebinar godoc
// @Summary 更新讲座
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "讲座ID"
// @Param   body body service.WebinarRequest true "讲座"
// @Success 200 {object} util.Response{data=model.Webinar}
// @Router /api/admin/webinars/{id} [put]
func (c *EventController) UpdateWebinar(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.WebinarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	w, err := c.EventService.SaveWebinar(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, w)
}

// DeleteWebinar godoc
// @Summary 删除讲座
// @Tags 管理
// @Security ApiKeyAuth
// @Param   id path int true "讲座ID"
// @Success 200 {object} util.Response
// @Router /api/admin/webinars/{id} [delete]
func (c *EventController) DeleteWebinar(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EventService.DeleteWebinar(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadRecording godoc
// @Summary 上传讲座录播
// @Description 上传后自动读取时长并生成封面
// @Tags 管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "讲座ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Webinar}
// @Failure 400 {object} util.Response "文件格式错误"
// @Router /api/admin/webinars/{id}/recording [post]
func (c *EventController) UploadRecording(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "请选择要上传的视频文件")
		return
	}

	w, err := c.EventService.UploadRecording(ctx.Request.Context(), id, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, w)
}

// ListWorkshops godoc
// @Summary 工作坊列表（管理，含未发布）
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Workshop}
// @Router /api/admin/workshops [get]
func (c *EventController) ListWorkshops(ctx *gin.Context) {
	list, err := c.EventService.ListWorkshops(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// CreateWorkshop godoc
// @Summary 创建工作坊
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.WorkshopRequest true "工作坊"
// @Success 201 {object} util.Response{data=model.Workshop}
// @Router /api/admin/workshops [post]
func (c *EventController) CreateWorkshop(ctx *gin.Context) {
	var req service.WorkshopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	w, err := c.EventService.SaveWorkshop(ctx.Request.Context(), 0, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, w)
}

// UpdateWorkshop godoc
// @Summary 更新工作坊
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "工作坊ID"
// @Param   body body service.WorkshopRequest true "工作坊"
// @Success 200 {object} util.Response{data=model.Workshop}
// @Router /api/admin/workshops/{id} [put]
func (c *EventController) UpdateWorkshop(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.WorkshopRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	w, err := c.EventService.SaveWorkshop(ctx.Request.Context(), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, w)
}

// DeleteWorkshop godoc
// @Summary 删除工作坊
// @Tags 管理
// @Security ApiKeyAuth
// @Param   id path int true "工作坊ID"
// @Success 200 {object} util.Response
// @Router /api/admin/workshops/{id} [delete]
func (c *EventController) DeleteWorkshop(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EventService.DeleteWorkshop(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
