package controller

import (
	"mindleap_backend/internal/service"
	"mindleap_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService  *service.ReportService
	StudentService *service.StudentService
}

func NewReportController(reportService *service.ReportService, studentService *service.StudentService) *ReportController {
	return &ReportController{
		ReportService:  reportService,
		StudentService: studentService,
	}
}

// Monthly godoc
// @Summary 月度报告
// @Description 默认当月
// @Tags 报告
// @Produce  json
// @Security ApiKeyAuth
// @Param   year query int false "年份"
// @Param   month query int false "月份 1-12"
// @Success 200 {object} util.Response{data=service.MonthlyReport}
// @Failure 400 {object} util.Response
// @Router /api/reports/monthly [get]
func (c *ReportController) Monthly(ctx *gin.Context) {
	student, ok := currentStudent(ctx, c.StudentService)
	if !ok {
		return
	}

	now := c.ReportService.Calendar.Now()
	year, month := now.Year(), int(now.Month())
	if v := ctx.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			util.BadRequest(ctx, "invalid year")
			return
		}
		year = y
	}
	if v := ctx.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			util.BadRequest(ctx, "invalid month")
			return
		}
		month = m
	}

	report, err := c.ReportService.MonthlyReport(ctx.Request.Context(), student.ID, year, month)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
