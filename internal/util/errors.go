package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDisabled      = errors.New("account disabled")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrStudentNotFound      = errors.New("student not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrInvalidWeekday       = errors.New("scheduledDay must be a weekday name such as Monday")
	ErrNoSubjectScheduled   = errors.New("no subject scheduled for this day")
	ErrNoQuestions          = errors.New("no questions available for this subject")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrMalformedQuestion    = errors.New("malformed question document")
	ErrInvalidOption        = errors.New("selected option must be one of a, b, c, d")
	ErrInvalidDate          = errors.New("date must be formatted as YYYY-MM-DD")
	ErrFutureDate           = errors.New("cannot answer a question for a future date")
	ErrDateNotAnswerable    = errors.New("only dates in the current week can be answered")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizNotAvailable     = errors.New("quiz is not open")
	ErrQuizAlreadyAttempted = errors.New("quiz already attempted")
	ErrEventNotFound        = errors.New("event not found")
	ErrInquiryNotFound      = errors.New("inquiry not found")
	ErrSubAdminNotFound     = errors.New("sub-admin not found")
	ErrInvalidImageExt      = errors.New("unsupported image format")
	ErrInvalidVideoExt      = errors.New("unsupported video format")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPermission    = errors.New("permission must be one of catalog, quizzes, events, inquiries")
)
