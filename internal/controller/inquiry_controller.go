package controller

import (
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// InquiryController 官网表单：学校合作申请与联系我们
type InquiryController struct {
	InquiryService *service.InquiryService
}

func NewInquiryController(inquiryService *service.InquiryService) *InquiryController {
	return &InquiryController{InquiryService: inquiryService}
}

// UpdateStatusRequest 更新学校申请状态
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted closed"`
}

// ResolveRequest 标记联系请求处理状态
// swagger:model ResolveRequest
type ResolveRequest struct {
	Resolved bool `json:"resolved"`
}

// SubmitSchoolRequest godoc
// @Summary 提交学校合作申请
// @Tags 官网
// @Accept  json
// @Produce  json
// @Param   body body service.SchoolRequestInput true "申请"
// @Success 201 {object} util.Response{data=model.SchoolRequest}
// @Failure 400 {object} util.Response
// @Router /api/school-requests [post]
func (c *InquiryController) SubmitSchoolRequest(ctx *gin.Context) {
	var in service.SchoolRequestInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	req, err := c.InquiryService.SubmitSchoolRequest(ctx.Request.Context(), in)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, req)
}

// SubmitContact godoc
// @Summary 提交联系请求
// @Tags 官网
// @Accept  json
// @Produce  json
// @Param   body body service.ContactQueryInput true "联系请求"
// @Success 201 {object} util.Response{data=model.ContactQuery}
// @Failure 400 {object} util.Response
// @Router /api/contact [post]
func (c *InquiryController) SubmitContact(ctx *gin.Context) {
	var in service.ContactQueryInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.InquiryService.SubmitContactQuery(ctx.Request.Context(), in)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// ListSchoolRequests godoc
// @Summary 学校合作申请列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   status query string false "new/contacted/closed"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/school-requests [get]
func (c *InquiryController) ListSchoolRequests(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))
	result, err := c.InquiryService.ListSchoolRequests(ctx.Request.Context(), ctx.Query("status"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: result.Items, Total: result.Total, Page: result.Page, Limit: result.Limit})
}

// UpdateSchoolRequestStatus godoc
// @Summary 更新学校合作申请状态
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "申请ID"
// @Param   body body UpdateStatusRequest true "状态"
// @Success 200 {object} util.Response
// @Router /api/admin/school-requests/{id}/status [put]
func (c *InquiryController) UpdateSchoolRequestStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.InquiryService.UpdateSchoolRequestStatus(ctx.Request.Context(), id, model.SchoolRequestStatus(req.Status)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "status": req.Status})
}

// ListContactQueries godoc
// @Summary 联系请求列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   resolved query bool false "是否已处理"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/contact-queries [get]
func (c *InquiryController) ListContactQueries(ctx *gin.Context) {
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"))

	var resolved *bool
	if v := ctx.Query("resolved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			util.BadRequest(ctx, "invalid resolved")
			return
		}
		resolved = &b
	}

	result, err := c.InquiryService.ListContactQueries(ctx.Request.Context(), resolved, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: result.Items, Total: result.Total, Page: result.Page, Limit: result.Limit})
}

// ResolveContactQuery godoc
// @Summary 标记联系请求
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "联系请求ID"
// @Param   body body ResolveRequest true "处理状态"
// @Success 200 {object} util.Response
// @Router /api/admin/contact-queries/{id}/resolve [put]
func (c *InquiryController) ResolveContactQuery(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.InquiryService.ResolveContactQuery(ctx.Request.Context(), id, req.Resolved); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "resolved": req.Resolved})
}
