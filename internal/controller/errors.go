package controller

import (
	"errors"
	"mindleap_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	badRequestErrors = []error{
		util.ErrInvalidWeekday,
		util.ErrMalformedQuestion,
		util.ErrInvalidOption,
		util.ErrInvalidDate,
		util.ErrFutureDate,
		util.ErrDateNotAnswerable,
		util.ErrInvalidImageExt,
		util.ErrInvalidVideoExt,
		util.ErrFileTooLarge,
		util.ErrInvalidStatus,
		util.ErrInvalidPermission,
	}
	notFoundErrors = []error{
		util.ErrUserNotFound,
		util.ErrStudentNotFound,
		util.ErrSubjectNotFound,
		util.ErrQuestionNotFound,
		util.ErrQuizNotFound,
		util.ErrEventNotFound,
		util.ErrInquiryNotFound,
		util.ErrSubAdminNotFound,
		util.ErrNoSubjectScheduled,
		util.ErrNoQuestions,
	}
	conflictErrors = []error{
		util.ErrEmailRegistered,
		util.ErrQuizAlreadyAttempted,
	}
)

// respondError 把业务错误映射为 HTTP 状态码，其余按 500 记录日志
func respondError(ctx *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			util.Error(ctx, http.StatusNotFound, err.Error())
			return
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			util.Conflict(ctx, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrAccountDisabled), errors.Is(err, util.ErrPermissionDenied):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrQuizNotAvailable):
		util.Error(ctx, http.StatusForbidden, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// parseID 解析路径参数中的 ID，失败时已写入 400 响应
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
